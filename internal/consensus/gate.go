package consensus

import (
	"context"
	"fmt"
	"iter"
	"time"

	"checkmate/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultReviewWindow = 24 * time.Hour
	DefaultPageSize     = 100
)

// Claim is the exclusive right to close one submission.
type Claim struct {
	SubmissionID uuid.UUID
	Token        uuid.UUID
	ClaimedAt    time.Time
}

// Gate decides which submissions may close and hands out claims on them.
type Gate struct {
	store    SubmissionStore
	window   time.Duration
	pageSize int
}

// NewGate creates a lifecycle gate. Non-positive arguments fall back to the
// defaults.
func NewGate(store SubmissionStore, window time.Duration, pageSize int) *Gate {
	if window <= 0 {
		window = DefaultReviewWindow
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Gate{
		store:    store,
		window:   window,
		pageSize: pageSize,
	}
}

// Window returns the configured review window.
func (g *Gate) Window() time.Duration {
	return g.window
}

// Eligible reports whether a submission created at createdAt has reached the
// end of its review window at now. The boundary is inclusive.
func (g *Gate) Eligible(now, createdAt time.Time) bool {
	return now.Sub(createdAt) >= g.window
}

// ListEligible lazily yields the ids of open submissions whose review window
// has elapsed at now. Candidates are fetched page by page; the sequence ends
// after the first error, which is yielded with uuid.Nil. It is not
// restartable: call ListEligible again for a fresh scan.
func (g *Gate) ListEligible(ctx context.Context, now time.Time) iter.Seq2[uuid.UUID, error] {
	cutoff := now.UTC().Add(-g.window)

	return func(yield func(uuid.UUID, error) bool) {
		var after *Cursor
		for {
			if err := ctx.Err(); err != nil {
				yield(uuid.Nil, err)
				return
			}

			page, err := g.store.ListWhere(ctx, ListFilter{
				Status:        models.SubmissionStatusOpen,
				CreatedBefore: &cutoff,
				After:         after,
				Limit:         g.pageSize,
			})
			if err != nil {
				yield(uuid.Nil, fmt.Errorf("failed to list eligible submissions: %w", err))
				return
			}

			for _, s := range page {
				if !yield(s.ID, nil) {
					return
				}
			}

			if len(page) < g.pageSize {
				return
			}
			last := page[len(page)-1]
			after = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		}
	}
}

// TryClaim moves a submission from open to processing with a single
// conditional write. It returns false when the submission is no longer open
// or does not exist.
func (g *Gate) TryClaim(ctx context.Context, id uuid.UUID, now time.Time) (Claim, bool, error) {
	claim := Claim{
		SubmissionID: id,
		Token:        uuid.New(),
		ClaimedAt:    now.UTC(),
	}

	ok, err := g.store.ConditionalUpdateStatus(ctx, id, StatusUpdate{
		Expected: models.SubmissionStatusOpen,
		Next:     models.SubmissionStatusProcessing,
		Fields: map[string]interface{}{
			"claim_token": claim.Token,
			"claimed_at":  claim.ClaimedAt,
		},
	})
	if err != nil {
		return Claim{}, false, fmt.Errorf("failed to claim submission %s: %w", id, err)
	}
	if !ok {
		return Claim{}, false, nil
	}
	return claim, true, nil
}
