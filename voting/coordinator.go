package voting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/storage"
)

var (
	// ErrSubmissionInProgress rejects a second submission from the same
	// voter while one is still pending; the ledger is never contacted.
	ErrSubmissionInProgress = errors.New("a vote submission is already in progress for this voter")

	// ErrConfirmationPending means the submission timed out and the ledger
	// does not show the vote yet. The caller must re-check before retrying;
	// the original transaction may still land.
	ErrConfirmationPending = errors.New("vote submission is awaiting confirmation")
)

// Request identifies one vote submission. Voter is the opaque identity
// resolved by the bearer-credential collaborator.
type Request struct {
	ElectionLedgerID  int64
	CandidateLedgerID int64
	Voter             string
}

// Result reports a recorded vote. Receipt is nil when the vote was
// confirmed by a post-timeout ledger re-check instead of a direct ack.
type Result struct {
	Receipt *ledger.Receipt
}

// Coordinator fronts the ledger's vote operation. Its preflight checks only
// save doomed submissions some latency; the ledger's post-submission answer
// is always the authority, including when it contradicts the preflight.
type Coordinator struct {
	Ledger        ledger.Client
	Elections     storage.ElectionStorage
	SubmitTimeout time.Duration

	// Now feeds the local status preflight. Replaceable in tests.
	Now func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewCoordinator(client ledger.Client, elections storage.ElectionStorage, submitTimeout time.Duration) *Coordinator {
	return &Coordinator{
		Ledger:        client,
		Elections:     elections,
		SubmitTimeout: submitTimeout,
		Now:           time.Now,
		inFlight:      make(map[string]struct{}),
	}
}

func (c *Coordinator) acquire(voter string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inFlight[voter]; busy {
		return false
	}
	c.inFlight[voter] = struct{}{}
	return true
}

func (c *Coordinator) release(voter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, voter)
}

// Submit runs the advisory preflight, then submits the vote. A race between
// preflight and submission (a parallel vote, the election closing) is
// expected and resolved by surfacing the ledger's rejection verbatim.
func (c *Coordinator) Submit(ctx context.Context, req Request) (*Result, error) {
	if !c.acquire(req.Voter) {
		logging.Log.Warnf("VOTE: rejected concurrent submission for voter %s", req.Voter)
		return nil, ErrSubmissionInProgress
	}
	defer c.release(req.Voter)

	if err := c.preflight(ctx, req); err != nil {
		return nil, err
	}

	submitCtx, cancel := context.WithTimeout(ctx, c.SubmitTimeout)
	defer cancel()

	receipt, err := c.Ledger.CastVote(submitCtx, req.ElectionLedgerID, req.CandidateLedgerID, req.Voter)
	if err == nil {
		logging.Log.Infof("VOTE: recorded vote in election %d, tx %s", req.ElectionLedgerID, receipt.TxID)
		return &Result{Receipt: receipt}, nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return c.resolveAmbiguousSubmission(req)
	}

	logging.Log.Warnf("VOTE: ledger rejected vote in election %d: %v", req.ElectionLedgerID, err)
	return nil, err
}

// preflight performs the advisory checks: local derived status from the
// cached catalog timestamps, then the ledger's hasVoted and candidateExists
// views. A catalog row that has not synced yet skips the local check; the
// ledger still decides.
func (c *Coordinator) preflight(ctx context.Context, req Request) error {
	election, err := c.Elections.Get(ctx, req.ElectionLedgerID)
	if err != nil {
		return err
	}
	if election != nil {
		if status := ledger.StatusAt(election.StartTime, election.EndTime, c.Now()); status != ledger.StatusActive {
			logging.Log.Infof("VOTE: preflight rejected election %d, status %s", req.ElectionLedgerID, status)
			return ledger.ErrElectionNotActive
		}
	} else {
		logging.Log.Warnf("VOTE: election %d not in catalog yet, skipping local status check", req.ElectionLedgerID)
	}

	voted, err := c.Ledger.HasVoted(ctx, req.ElectionLedgerID, req.Voter)
	if err != nil {
		return err
	}
	if voted {
		return ledger.ErrDuplicateVote
	}

	exists, err := c.Ledger.CandidateExists(ctx, req.ElectionLedgerID, req.CandidateLedgerID)
	if err != nil {
		return err
	}
	if !exists {
		return ledger.ErrUnknownCandidate
	}
	return nil
}

// resolveAmbiguousSubmission handles a timed-out submission. The transaction
// may have landed, so blind resubmission is forbidden: the ledger state is
// re-queried and only an explicit "not voted" answer keeps the retry path
// open for the caller.
func (c *Coordinator) resolveAmbiguousSubmission(req Request) (*Result, error) {
	recheckCtx, cancel := context.WithTimeout(context.Background(), c.SubmitTimeout)
	defer cancel()

	voted, err := c.Ledger.HasVoted(recheckCtx, req.ElectionLedgerID, req.Voter)
	if err != nil {
		logging.Log.Errorf("VOTE: state re-check failed for election %d: %v", req.ElectionLedgerID, err)
		return nil, ErrConfirmationPending
	}
	if voted {
		logging.Log.Infof("VOTE: timed-out submission for election %d was recorded after all", req.ElectionLedgerID)
		return &Result{}, nil
	}
	return nil, ErrConfirmationPending
}
