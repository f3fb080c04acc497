package services

import (
	"context"
	"fmt"
	"strings"

	"checkmate/internal/consensus"
	"checkmate/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	maxTags          = 10
	maxCommentLength = 2000
)

// BallotInput is a ballot as received from a reviewer, before validation
type BallotInput struct {
	Category string
	AIRating string
	Tags     []string
	Comment  string
}

// BallotService validates and stores reviewer ballots
type BallotService struct {
	store consensus.SubmissionStore
	log   zerolog.Logger
}

// NewBallotService creates a new BallotService
func NewBallotService(store consensus.SubmissionStore, log zerolog.Logger) *BallotService {
	return &BallotService{
		store: store,
		log:   log.With().Str("component", "ballots").Logger(),
	}
}

// Submit casts or replaces reviewerID's ballot on submissionID. The
// submission must still be open.
func (s *BallotService) Submit(ctx context.Context, reviewerID, submissionID uuid.UUID, in BallotInput) (*models.SubmitBallotResponse, error) {
	ballot, err := validateBallot(in)
	if err != nil {
		return nil, err
	}
	ballot.ReviewerID = reviewerID

	write, err := s.store.AppendOrReplaceBallot(ctx, submissionID, ballot)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("submission_id", submissionID.String()).
		Str("reviewer_id", reviewerID.String()).
		Str("category", string(ballot.Category)).
		Bool("replaced", write.Replaced).
		Msg("ballot stored")

	message := "Vote submitted successfully"
	if write.Replaced {
		message = "Vote updated successfully"
	}
	return &models.SubmitBallotResponse{
		Success:     true,
		Message:     message,
		BallotCount: write.BallotCount,
		IsUpdate:    write.Replaced,
	}, nil
}

func validateBallot(in BallotInput) (models.Ballot, error) {
	if strings.TrimSpace(in.Category) == "" {
		return models.Ballot{}, ErrCategoryRequired
	}
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return models.Ballot{}, fmt.Errorf("%w: %q", consensus.ErrInvalidCategory, in.Category)
	}

	if strings.TrimSpace(in.AIRating) == "" {
		return models.Ballot{}, ErrAIRatingRequired
	}
	rating, ok := models.ParseAIRating(in.AIRating)
	if !ok {
		return models.Ballot{}, ErrInvalidAIRating
	}

	comment := truncate(strings.TrimSpace(in.Comment), maxCommentLength)

	return models.Ballot{
		Category: category,
		AIRating: rating,
		Tags:     normalizeTags(in.Tags),
		Comment:  comment,
	}, nil
}

// normalizeTags trims tags, drops empty ones and case-insensitive duplicates,
// and keeps at most maxTags in their original order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
