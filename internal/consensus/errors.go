package consensus

import "errors"

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrVotingClosed       = errors.New("voting is closed for this submission")
	ErrReviewerNotFound   = errors.New("reviewer profile not found")
	ErrInvalidCategory    = errors.New("invalid ballot category")
	ErrInvalidDelta       = errors.New("invalid counter delta")
	// ErrClaimLost means the close write found the submission no longer held
	// by the caller's claim token.
	ErrClaimLost = errors.New("submission claim lost")
)
