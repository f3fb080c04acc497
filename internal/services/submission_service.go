package services

import (
	"context"
	"strings"

	"checkmate/internal/models"
	"checkmate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmissionService opens and reads submissions
type SubmissionService struct {
	repo *repository.Repository
	log  zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(repo *repository.Repository, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		repo: repo,
		log:  log.With().Str("component", "submissions").Logger(),
	}
}

// Create opens a new submission for review
func (s *SubmissionService) Create(ctx context.Context, req models.CreateSubmissionRequest) (*models.Submission, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	sub := &models.Submission{
		Content:          content,
		Sender:           strings.TrimSpace(req.Sender),
		ScreenshotURL:    req.ScreenshotURL,
		SourceCategory:   req.SourceCategory,
		AINoteSummary:    req.AINoteSummary,
		AINoteReferences: req.AINoteReferences,
	}
	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info().Str("submission_id", sub.ID.String()).Msg("submission opened")
	return sub, nil
}

// Get retrieves a submission. Ballots are only included once it is closed.
func (s *SubmissionService) Get(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsClosed() {
		sub.Ballots = nil
	}
	return sub, nil
}
