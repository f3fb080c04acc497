package services

import (
	"context"
	"time"

	"checkmate/internal/consensus"
	"checkmate/internal/models"
	"checkmate/internal/repository"
)

// manualPassTimeout bounds a pass started from the admin surface. The pass
// ignores cancellation of the request that started it.
const manualPassTimeout = 2 * time.Minute

// ConsensusRunner is the part of the consensus engine the admin surface
// drives manually.
type ConsensusRunner interface {
	RunCycle(ctx context.Context, now time.Time) (consensus.CycleSummary, error)
	Recover(ctx context.Context, now time.Time) (consensus.RecoverySummary, error)
}

// AdminService exposes manual consensus controls and queue statistics
type AdminService struct {
	repo        *repository.Repository
	engine      ConsensusRunner
	leaderboard *LeaderboardService
}

// NewAdminService creates a new AdminService. leaderboard may be nil.
func NewAdminService(repo *repository.Repository, engine ConsensusRunner, leaderboard *LeaderboardService) *AdminService {
	return &AdminService{
		repo:        repo,
		engine:      engine,
		leaderboard: leaderboard,
	}
}

// RunCycle runs one consensus pass now
func (s *AdminService) RunCycle(ctx context.Context) (consensus.CycleSummary, error) {
	passCtx, cancel := detach(ctx)
	defer cancel()

	summary, err := s.engine.RunCycle(passCtx, time.Now())
	if summary.Closed > 0 && s.leaderboard != nil {
		s.leaderboard.Invalidate()
	}
	return summary, err
}

// Recover reopens stale claims now
func (s *AdminService) Recover(ctx context.Context) (consensus.RecoverySummary, error) {
	passCtx, cancel := detach(ctx)
	defer cancel()

	return s.engine.Recover(passCtx, time.Now())
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), manualPassTimeout)
}

// QueueStats returns the number of submissions per status
func (s *AdminService) QueueStats(ctx context.Context) (map[models.SubmissionStatus]int64, error) {
	counts, err := s.repo.CountSubmissionsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range []models.SubmissionStatus{
		models.SubmissionStatusOpen,
		models.SubmissionStatusProcessing,
		models.SubmissionStatusClosed,
	} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}
