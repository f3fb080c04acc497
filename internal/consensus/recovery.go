package consensus

import (
	"context"
	"fmt"
	"time"

	"checkmate/internal/models"
)

// Recover reopens submissions whose claim is older than the grace period.
// The close transaction is atomic, so a submission still in processing has
// no scored ballots and can safely go back to open for the next cycle. The
// reset is guarded by the stale claim token: a claim that finishes or is
// renewed concurrently is left alone.
func (e *Engine) Recover(ctx context.Context, now time.Time) (RecoverySummary, error) {
	cutoff := now.UTC().Add(-e.grace)

	var summary RecoverySummary
	var after *Cursor
	for {
		page, err := e.store.ListWhere(ctx, ListFilter{
			Status:        models.SubmissionStatusProcessing,
			ClaimedBefore: &cutoff,
			After:         after,
			Limit:         e.pageSize,
		})
		if err != nil {
			err = fmt.Errorf("failed to list stale claims: %w", err)
			e.recorder.ObserveRecovery(summary, err)
			return summary, err
		}

		for _, s := range page {
			summary.Scanned++

			ok, err := e.store.ConditionalUpdateStatus(ctx, s.ID, StatusUpdate{
				Expected:   models.SubmissionStatusProcessing,
				Next:       models.SubmissionStatusOpen,
				ClaimToken: s.ClaimToken,
				Fields: map[string]interface{}{
					"claim_token": nil,
					"claimed_at":  nil,
				},
			})
			if err != nil {
				e.logger.Warn().Err(err).Str("submission_id", s.ID.String()).Msg("failed to reopen stale claim")
				summary.Failures = append(summary.Failures, Failure{
					SubmissionID: s.ID,
					Stage:        StageClaim,
					Err:          err,
					Reason:       err.Error(),
				})
				continue
			}
			if ok {
				summary.Reopened++
				e.logger.Info().Str("submission_id", s.ID.String()).Msg("reopened stale claim")
			}
		}

		if len(page) < e.pageSize {
			break
		}
		last := page[len(page)-1]
		after = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	e.recorder.ObserveRecovery(summary, nil)
	return summary, nil
}
