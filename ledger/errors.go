package ledger

import "errors"

// Rejections are authoritative: callers must surface them verbatim and never
// retry the same operation automatically.
var (
	ErrInvalidTimeRange    = errors.New("election end time must be after start time")
	ErrUnknownElection     = errors.New("election does not exist on the ledger")
	ErrUnknownCandidate    = errors.New("candidate does not exist on the ledger")
	ErrElectionNotEditable = errors.New("election roster is locked once the election leaves draft")
	ErrElectionNotActive   = errors.New("election is not active")
	ErrDuplicateVote       = errors.New("voter has already voted in this election")
	ErrEventNotFound       = errors.New("expected event not found in transaction logs")
	ErrUnknownTransaction  = errors.New("transaction does not exist on the ledger")
)
