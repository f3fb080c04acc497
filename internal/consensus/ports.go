package consensus

import (
	"context"
	"time"

	"checkmate/internal/models"

	"github.com/google/uuid"
)

// Cursor is a keyset position over submissions ordered by (created_at, id).
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// ListFilter selects submissions for ListWhere. Time bounds are inclusive;
// nil bounds are ignored.
type ListFilter struct {
	Status        models.SubmissionStatus
	CreatedBefore *time.Time
	ClaimedBefore *time.Time
	After         *Cursor
	Limit         int
}

// StatusUpdate is a compare-and-swap on a submission's status. The write
// applies only when the stored status equals Expected and, if ClaimToken is
// set, the stored claim token matches it.
type StatusUpdate struct {
	Expected   models.SubmissionStatus
	Next       models.SubmissionStatus
	ClaimToken *uuid.UUID
	Fields     map[string]interface{}
}

// BallotWrite describes the effect of AppendOrReplaceBallot.
type BallotWrite struct {
	Replaced    bool
	BallotCount int64
}

type SubmissionStore interface {
	// Get returns the submission with its ballots ordered by submission time.
	Get(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	// ListWhere returns submissions (without ballots) ordered by (created_at, id).
	ListWhere(ctx context.Context, filter ListFilter) ([]models.Submission, error)
	ConditionalUpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (bool, error)
	// AppendOrReplaceBallot fails with ErrVotingClosed unless the submission is open.
	AppendOrReplaceBallot(ctx context.Context, id uuid.UUID, ballot models.Ballot) (BallotWrite, error)
	MarkBallotCorrectness(ctx context.Context, submissionID uuid.UUID, correct map[uuid.UUID]bool) error
}

type ProfileStore interface {
	IncrementCounters(ctx context.Context, reviewerID uuid.UUID, totalDelta, correctDelta int64) error
	Exists(ctx context.Context, reviewerID uuid.UUID) (bool, error)
}

// Store is the engine's view of persistence. WithinTransaction runs fn
// against a Store bound to a single database transaction.
type Store interface {
	SubmissionStore
	ProfileStore
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}
