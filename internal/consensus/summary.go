package consensus

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Failure stages reported in a CycleSummary.
const (
	StageList  = "list"
	StageClaim = "claim"
	StageRead  = "read"
	StageClose = "close"
)

// BallotCorrectness is the scored outcome of one ballot.
type BallotCorrectness struct {
	BallotID   uuid.UUID `json:"ballot_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Correct    bool      `json:"correct"`
}

// Outcome is the record surfaced for every submission a cycle closed.
type Outcome struct {
	SubmissionID uuid.UUID           `json:"submission_id"`
	Verdict      string              `json:"verdict"`
	TieBroken    bool                `json:"tie_broken"`
	Correctness  []BallotCorrectness `json:"per_ballot_correctness"`
	// Excluded counts ballots dropped for integrity reasons.
	Excluded int `json:"excluded"`
}

// Failure describes a submission that could not be processed this cycle.
type Failure struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Stage        string    `json:"stage"`
	Err          error     `json:"-"`
	Reason       string    `json:"reason"`
}

func (f Failure) Error() string {
	if f.SubmissionID == uuid.Nil {
		return fmt.Sprintf("%s: %v", f.Stage, f.Err)
	}
	return fmt.Sprintf("submission %s (%s): %v", f.SubmissionID, f.Stage, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// CycleSummary reports what one RunCycle pass did.
type CycleSummary struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Scanned   int           `json:"scanned"`
	Claimed   int           `json:"claimed"`
	Closed    int           `json:"closed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Failures  []Failure     `json:"failures,omitempty"`
	Outcomes  []Outcome     `json:"outcomes,omitempty"`
}

func (s *CycleSummary) fail(id uuid.UUID, stage string, err error) {
	s.Failed++
	s.Failures = append(s.Failures, Failure{
		SubmissionID: id,
		Stage:        stage,
		Err:          err,
		Reason:       err.Error(),
	})
}

// Err combines every per-submission failure into one error, or returns nil.
func (s CycleSummary) Err() error {
	var result *multierror.Error
	for _, f := range s.Failures {
		result = multierror.Append(result, f)
	}
	return result.ErrorOrNil()
}

// RecoverySummary reports what one recovery sweep did.
type RecoverySummary struct {
	Scanned  int       `json:"scanned"`
	Reopened int       `json:"reopened"`
	Failures []Failure `json:"failures,omitempty"`
}
