package services

import (
	"context"
	"fmt"
	"time"

	"checkmate/internal/models"
	"checkmate/internal/repository"

	"github.com/google/uuid"
)

const (
	recentActivityLimit = 3
	activityPreviewLen  = 30
	myVotesPageLimit    = 100
)

// ReadHook runs before read models are built. The on-read consensus trigger
// implements it.
type ReadHook interface {
	BeforeRead(ctx context.Context)
}

// ReviewerService builds the per-reviewer read models
type ReviewerService struct {
	repo *repository.Repository
	hook ReadHook
	now  func() time.Time
}

// NewReviewerService creates a new ReviewerService. hook may be nil.
func NewReviewerService(repo *repository.Repository, hook ReadHook) *ReviewerService {
	return &ReviewerService{
		repo: repo,
		hook: hook,
		now:  time.Now,
	}
}

func (s *ReviewerService) beforeRead(ctx context.Context) {
	if s.hook != nil {
		s.hook.BeforeRead(ctx)
	}
}

// GetProfile retrieves a reviewer profile by ID
func (s *ReviewerService) GetProfile(ctx context.Context, reviewerID uuid.UUID) (*models.ReviewerProfile, error) {
	return s.repo.GetProfile(ctx, reviewerID)
}

// Dashboard assembles the reviewer's dashboard: accuracy, certification
// status, engagement and recent activity.
func (s *ReviewerService) Dashboard(ctx context.Context, reviewerID uuid.UUID) (*models.DashboardResponse, error) {
	s.beforeRead(ctx)

	profile, err := s.repo.GetProfile(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentBallots(ctx, reviewerID, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent ballots: %w", err)
	}

	total := profile.TotalVotes
	accuracy := accuracyPercent(profile.CorrectVotes, total)
	now := s.now()

	activity := make([]models.ActivityItem, 0, recentActivityLimit+1)
	for _, b := range recent {
		activity = append(activity, models.ActivityItem{
			Message: fmt.Sprintf("Verified \"%s...\"", truncate(b.Content, activityPreviewLen)),
			Date:    formatRelativeTime(now, b.SubmittedAt),
			Type:    "vote",
		})
	}
	if m := milestone(accuracy); m > 0 {
		activity = append(activity, models.ActivityItem{
			Message: fmt.Sprintf("Achieved %d%% accuracy milestone", m),
			Date:    "Recently",
			Type:    "achievement",
		})
	}
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}

	return &models.DashboardResponse{
		IsNewChecker: total < 50 || accuracy < 60,
		UserData: models.DashboardStats{
			Name:             profile.Name,
			Votes:            total,
			Accuracy:         accuracy,
			MessagesSent:     profile.MessagesSent,
			LifetimeVotes:    total,
			LifetimeAccuracy: accuracy,
			EngagementScore:  engagementScore(total, accuracy),
			RecentActivity:   activity,
		},
	}, nil
}

// MyVotes lists submissions newest first, each marked with the reviewer's
// own ballot if there is one.
func (s *ReviewerService) MyVotes(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]models.MyVoteItem, error) {
	s.beforeRead(ctx)

	if limit <= 0 || limit > myVotesPageLimit {
		limit = myVotesPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	subs, err := s.repo.ListSubmissions(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	ids := make([]uuid.UUID, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}
	ballots, err := s.repo.GetBallotsByReviewer(ctx, reviewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ballots: %w", err)
	}
	mine := make(map[uuid.UUID]models.Ballot, len(ballots))
	for _, b := range ballots {
		mine[b.SubmissionID] = b
	}

	items := make([]models.MyVoteItem, 0, len(subs))
	for _, sub := range subs {
		item := models.MyVoteItem{
			ID:          sub.ID,
			Content:     sub.Content,
			Category:    sub.SourceCategory,
			Status:      "pending",
			Closed:      sub.IsClosed(),
			Timestamp:   sub.CreatedAt,
			FinalResult: sub.Verdict,
		}
		if b, ok := mine[sub.ID]; ok {
			category := b.Category
			rating := b.AIRating
			votedAt := b.SubmittedAt
			item.Status = "voted"
			item.MyVote = &category
			item.AIRating = &rating
			item.Correct = b.Correct
			item.VotedAt = &votedAt
		}
		items = append(items, item)
	}
	return items, nil
}
