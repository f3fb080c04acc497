package consensus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkmate/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RunCycle closes every submission that is eligible at now and not claimed by
// another caller. Per-submission failures are collected in the summary and
// never stop the pass. The returned error is non-nil only when the pass could
// not start (the summary then reports zero progress) or ctx was cancelled.
func (e *Engine) RunCycle(ctx context.Context, now time.Time) (CycleSummary, error) {
	started := time.Now()
	now = now.UTC()
	summary := CycleSummary{StartedAt: now}

	var cycleErr error
	for id, err := range e.gate.ListEligible(ctx, now) {
		if err != nil {
			switch {
			case summary.Scanned == 0:
				summary = CycleSummary{StartedAt: now}
				cycleErr = fmt.Errorf("consensus cycle aborted: %w", err)
			case ctx.Err() != nil:
				cycleErr = ctx.Err()
			default:
				summary.fail(uuid.Nil, StageList, err)
			}
			break
		}
		if err := ctx.Err(); err != nil {
			cycleErr = err
			break
		}

		summary.Scanned++
		e.process(ctx, id, now, &summary)
	}

	summary.Duration = time.Since(started)
	e.recorder.ObserveCycle(summary, cycleErr)
	e.logCycle(summary, cycleErr)

	return summary, cycleErr
}

func (e *Engine) process(ctx context.Context, id uuid.UUID, now time.Time, summary *CycleSummary) {
	logger := e.logger.With().Str("submission_id", id.String()).Logger()

	claim, ok, err := e.gate.TryClaim(ctx, id, now)
	if err != nil {
		logger.Warn().Err(err).Msg("claim failed, submission stays open")
		summary.fail(id, StageClaim, err)
		return
	}
	if !ok {
		logger.Debug().Msg("submission already claimed")
		summary.Skipped++
		return
	}
	summary.Claimed++

	outcome, stage, err := e.closeClaimed(ctx, claim, now, logger)
	switch {
	case errors.Is(err, ErrClaimLost):
		logger.Info().Msg("claim lost before close, skipping")
		summary.Skipped++
	case err != nil:
		logger.Error().Err(err).Str("stage", stage).Msg("failed to close submission, left for recovery")
		summary.fail(id, stage, err)
	default:
		logger.Info().Str("verdict", outcome.Verdict).Int("ballots", len(outcome.Correctness)).Msg("submission closed")
		summary.Closed++
		summary.Outcomes = append(summary.Outcomes, outcome)
	}
}

// closeClaimed reads the ballots as of the claim, computes the verdict and
// commits the close together with the reviewer counter deltas.
func (e *Engine) closeClaimed(ctx context.Context, claim Claim, now time.Time, logger zerolog.Logger) (Outcome, string, error) {
	sub, err := e.store.Get(ctx, claim.SubmissionID)
	if err != nil {
		return Outcome{}, StageRead, fmt.Errorf("failed to read submission: %w", err)
	}

	ballots, excluded, err := e.admissible(ctx, sub.Ballots, logger)
	if err != nil {
		return Outcome{}, StageRead, err
	}

	result := Compute(ballots)

	outcome := Outcome{
		SubmissionID: claim.SubmissionID,
		Verdict:      result.Verdict,
		TieBroken:    result.TieBroken,
		Correctness:  make([]BallotCorrectness, 0, len(ballots)),
		Excluded:     excluded,
	}
	correct := make(map[uuid.UUID]bool, len(ballots))
	for i, b := range ballots {
		correct[b.ID] = result.Correctness[i]
		outcome.Correctness = append(outcome.Correctness, BallotCorrectness{
			BallotID:   b.ID,
			ReviewerID: b.ReviewerID,
			Correct:    result.Correctness[i],
		})
	}

	err = e.store.WithinTransaction(ctx, func(tx Store) error {
		ok, err := tx.ConditionalUpdateStatus(ctx, claim.SubmissionID, StatusUpdate{
			Expected:   models.SubmissionStatusProcessing,
			Next:       models.SubmissionStatusClosed,
			ClaimToken: &claim.Token,
			Fields: map[string]interface{}{
				"verdict":      result.Verdict,
				"processed_at": now,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to close submission: %w", err)
		}
		if !ok {
			return ErrClaimLost
		}

		if len(correct) > 0 {
			if err := tx.MarkBallotCorrectness(ctx, claim.SubmissionID, correct); err != nil {
				return fmt.Errorf("failed to record ballot correctness: %w", err)
			}
		}

		for i, b := range ballots {
			var correctDelta int64
			if result.Correctness[i] {
				correctDelta = 1
			}
			if err := tx.IncrementCounters(ctx, b.ReviewerID, 1, correctDelta); err != nil {
				return fmt.Errorf("failed to update reviewer %s: %w", b.ReviewerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return Outcome{}, StageClose, err
	}

	return outcome, "", nil
}

// admissible drops ballots that fail integrity checks: unknown categories and
// reviewers without a profile. Dropped ballots are neither counted nor scored.
func (e *Engine) admissible(ctx context.Context, ballots []models.Ballot, logger zerolog.Logger) ([]models.Ballot, int, error) {
	kept := make([]models.Ballot, 0, len(ballots))
	excluded := 0

	for _, b := range ballots {
		if !b.Category.Valid() {
			logger.Warn().Str("ballot_id", b.ID.String()).Str("category", string(b.Category)).Msg("excluding ballot with invalid category")
			e.recorder.ObserveExcludedBallot("invalid_category")
			excluded++
			continue
		}

		ok, err := e.reviewers.Exists(ctx, b.ReviewerID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to verify reviewer %s: %w", b.ReviewerID, err)
		}
		if !ok {
			logger.Warn().Str("ballot_id", b.ID.String()).Str("reviewer_id", b.ReviewerID.String()).Msg("excluding ballot from unknown reviewer")
			e.recorder.ObserveExcludedBallot("unknown_reviewer")
			excluded++
			continue
		}

		kept = append(kept, b)
	}

	return kept, excluded, nil
}

func (e *Engine) logCycle(summary CycleSummary, err error) {
	var event *zerolog.Event
	switch {
	case err != nil:
		event = e.logger.Error().Err(err)
	case summary.Failed > 0:
		event = e.logger.Warn().Err(summary.Err())
	case summary.Scanned == 0:
		event = e.logger.Debug()
	default:
		event = e.logger.Info()
	}

	event.
		Int("scanned", summary.Scanned).
		Int("claimed", summary.Claimed).
		Int("closed", summary.Closed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("consensus cycle finished")
}
