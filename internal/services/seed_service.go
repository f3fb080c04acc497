package services

import (
	"context"
	"fmt"
	"time"

	"checkmate/internal/models"
	"checkmate/internal/repository"

	"github.com/rs/zerolog"
)

// SeedService loads demo reviewers and submissions into an empty store
type SeedService struct {
	repo *repository.Repository
	auth *AuthService
	log  zerolog.Logger
}

// NewSeedService creates a new SeedService
func NewSeedService(repo *repository.Repository, auth *AuthService, log zerolog.Logger) *SeedService {
	return &SeedService{
		repo: repo,
		auth: auth,
		log:  log.With().Str("component", "seed").Logger(),
	}
}

type seedBallot struct {
	reviewer int
	category models.Category
	rating   models.AIRating
	after    time.Duration
	comment  string
	tags     []string
}

type seedSubmission struct {
	content    string
	sender     string
	screenshot string
	category   string
	age        time.Duration
	summary    string
	references []string
	ballots    []seedBallot
}

func ptr(s string) *string { return &s }

// Seed inserts the demo data when no reviewer exists yet and reports whether
// anything was written. Every seeded reviewer gets password.
func (s *SeedService) Seed(ctx context.Context, now time.Time, password string) (bool, error) {
	count, err := s.repo.CountProfiles(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count reviewers: %w", err)
	}
	if count > 0 {
		s.log.Info().Int64("reviewers", count).Msg("store not empty, skipping seed")
		return false, nil
	}

	reviewers := []struct {
		name, email string
		admin       bool
	}{
		{"Zack", "zack@checkmate.local", true},
		{"Jane Doe", "jane@checkmate.local", false},
		{"John Smith", "john@checkmate.local", false},
	}
	profiles := make([]*models.ReviewerProfile, len(reviewers))
	for i, r := range reviewers {
		p, err := s.auth.Register(ctx, r.name, r.email, password, r.admin)
		if err != nil {
			return false, fmt.Errorf("failed to seed reviewer %s: %w", r.email, err)
		}
		profiles[i] = p
	}

	for _, item := range seedSubmissions() {
		createdAt := now.Add(-item.age)
		sub := &models.Submission{
			Content:          item.content,
			Sender:           item.sender,
			ScreenshotURL:    ptr(item.screenshot),
			SourceCategory:   ptr(item.category),
			AINoteSummary:    ptr(item.summary),
			AINoteReferences: item.references,
			CreatedAt:        createdAt,
		}
		if err := s.repo.CreateSubmission(ctx, sub); err != nil {
			return false, fmt.Errorf("failed to seed submission: %w", err)
		}

		for _, b := range item.ballots {
			_, err := s.repo.AppendOrReplaceBallot(ctx, sub.ID, models.Ballot{
				ReviewerID:  profiles[b.reviewer].ID,
				Category:    b.category,
				AIRating:    b.rating,
				Comment:     b.comment,
				Tags:        b.tags,
				SubmittedAt: createdAt.Add(b.after),
			})
			if err != nil {
				return false, fmt.Errorf("failed to seed ballot: %w", err)
			}
		}
	}

	s.log.Info().Int("reviewers", len(profiles)).Msg("database seeded")
	return true, nil
}

func seedSubmissions() []seedSubmission {
	return []seedSubmission{
		{
			content:    "🚨 URGENT: New COVID variant spreads through 5G towers! Share this...",
			sender:     "Unknown WhatsApp User",
			screenshot: "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=400&h=300&fit=crop",
			category:   "False",
			age:        48 * time.Hour,
			summary:    "This message contains multiple false claims linking COVID-19 to 5G...",
			references: []string{"WHO COVID-19 fact sheet", "FDA 5G safety guidelines"},
			ballots: []seedBallot{
				{reviewer: 0, category: models.CategoryFalse, rating: models.AIRatingHelpful, after: 30 * time.Minute},
			},
		},
		{
			content:    "Government announces new tax relief for families earning under $50k...",
			sender:     "News Channel",
			screenshot: "https://images.unsplash.com/photo-1554224155-6726b3ff858f?w=400&h=300",
			category:   "Pending",
			age:        12 * time.Hour,
			summary:    "This appears to be legitimate news but requires verification...",
			references: []string{"Government press releases", "Tax authority website"},
		},
		{
			content:    "BREAKING: Celebrity caught in scandal, photos leaked...",
			sender:     "Gossip Group",
			screenshot: "https://images.unsplash.com/photo-1533750349088-cd871a92f312?w=400&h=300",
			category:   "Misleading",
			age:        24 * time.Hour,
			summary:    "This contains unverified claims and potentially manipulated content...",
			references: []string{"Entertainment fact-checkers", "Image verification tools"},
			ballots: []seedBallot{
				{reviewer: 1, category: models.CategoryMisleading, rating: models.AIRatingSomewhatHelpful, after: 2 * time.Hour},
				{reviewer: 2, category: models.CategoryMisleading, rating: models.AIRatingHelpful, after: 4 * time.Hour},
			},
		},
		{
			content:    "💰 Get rich quick with crypto! Guaranteed 500% return!",
			sender:     "InvestmentGroup",
			screenshot: "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=400&h=300",
			category:   "Pending",
			age:        72 * time.Hour,
			summary:    "This message exhibits common scam indicators such as high return guarantees...",
			references: []string{"SEC Crypto Scam Advisory", "Cointelegraph analysis"},
		},
		{
			content:    "🚨 URGENT: This is a post to show voted and not completed",
			sender:     "Unknown WhatsApp User",
			screenshot: "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=400&h=300&fit=crop",
			category:   "False",
			age:        12 * time.Hour,
			summary:    "This message contains multiple false claims linking COVID-19 to 5G...",
			references: []string{"WHO COVID-19 fact sheet", "FDA 5G safety guidelines"},
			ballots: []seedBallot{
				{
					reviewer: 0,
					category: models.CategoryFalse,
					rating:   models.AIRatingHelpful,
					after:    30 * time.Minute,
					comment:  "Well-researched political analysis with proper citations and balanced perspective.",
					tags:     []string{"Politics", "Technology", "Urgent"},
				},
			},
		},
	}
}
