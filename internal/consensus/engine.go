// Package consensus closes submissions whose review window has elapsed,
// turns their ballots into a verdict and scores every participating reviewer
// exactly once.
//
// The engine keeps no in-process locks. Exclusivity comes from two
// conditional writes against the store: the claim (open -> processing) and
// the close (processing -> closed, guarded by the claim token), the latter
// committed in the same transaction as the reviewer counter deltas.
package consensus

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const DefaultClaimGracePeriod = 10 * time.Minute

// Config tunes an Engine. Zero values select the defaults.
type Config struct {
	ReviewWindow     time.Duration
	ClaimGracePeriod time.Duration
	PageSize         int
}

// Recorder receives per-pass observations, typically to export metrics.
type Recorder interface {
	ObserveCycle(summary CycleSummary, err error)
	ObserveRecovery(summary RecoverySummary, err error)
	ObserveExcludedBallot(reason string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveCycle(CycleSummary, error)       {}
func (noopRecorder) ObserveRecovery(RecoverySummary, error) {}
func (noopRecorder) ObserveExcludedBallot(string)           {}

// Engine runs consensus passes over a Store.
type Engine struct {
	store     Store
	gate      *Gate
	reviewers *reviewerDirectory
	grace     time.Duration
	pageSize  int
	recorder  Recorder
	logger    zerolog.Logger
}

// NewEngine creates a consensus engine
func NewEngine(store Store, cfg Config, logger zerolog.Logger) *Engine {
	gate := NewGate(store, cfg.ReviewWindow, cfg.PageSize)

	grace := cfg.ClaimGracePeriod
	if grace <= 0 {
		grace = DefaultClaimGracePeriod
	}

	return &Engine{
		store:     store,
		gate:      gate,
		reviewers: newReviewerDirectory(store),
		grace:     grace,
		pageSize:  gate.pageSize,
		recorder:  noopRecorder{},
		logger:    logger.With().Str("component", "consensus").Logger(),
	}
}

// SetRecorder installs r; a nil r disables recording.
func (e *Engine) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	e.recorder = r
}

// Gate exposes the engine's lifecycle gate.
func (e *Engine) Gate() *Gate {
	return e.gate
}

// Tick is one scheduled unit of work: reopen stale claims, then run a
// consensus cycle. A failed recovery sweep is logged and does not prevent the
// cycle.
func (e *Engine) Tick(ctx context.Context, now time.Time) (CycleSummary, error) {
	recovered, err := e.Recover(ctx, now)
	if err != nil {
		e.logger.Warn().Err(err).Msg("recovery sweep failed")
	} else if recovered.Reopened > 0 {
		e.logger.Info().Int("reopened", recovered.Reopened).Msg("reopened stale claims")
	}

	return e.RunCycle(ctx, now)
}
