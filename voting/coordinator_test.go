package voting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLedger lets tests script the ledger's answers, including the races
// and timeouts a live ledger can produce between preflight and submission.
type stubLedger struct {
	castVote        func(ctx context.Context) (*ledger.Receipt, error)
	hasVoted        func() (bool, error)
	candidateExists func() (bool, error)
	calls           int
}

func (s *stubLedger) CastVote(ctx context.Context, _, _ int64, _ string) (*ledger.Receipt, error) {
	s.calls++
	return s.castVote(ctx)
}

func (s *stubLedger) HasVoted(_ context.Context, _ int64, _ string) (bool, error) {
	return s.hasVoted()
}

func (s *stubLedger) CandidateExists(_ context.Context, _, _ int64) (bool, error) {
	return s.candidateExists()
}

func (s *stubLedger) CreateElection(context.Context, int64, int64) (*ledger.Receipt, error) {
	return nil, errors.New("not supported by stub")
}

func (s *stubLedger) AddCandidate(context.Context, int64) (*ledger.Receipt, error) {
	return nil, errors.New("not supported by stub")
}

func (s *stubLedger) GetResults(context.Context, int64) ([]ledger.Tally, error) {
	return nil, errors.New("not supported by stub")
}

func (s *stubLedger) GetReceipt(context.Context, string) (*ledger.Receipt, error) {
	return nil, errors.New("not supported by stub")
}

func activeElectionCatalog(t *testing.T) storage.ElectionStorage {
	t.Helper()

	elections := storage.NewMemoryElectionStorage()
	err := elections.Create(context.Background(), &storage.Election{
		LedgerID:  1,
		CatalogID: "cat-1",
		Title:     "Test Election",
		StartTime: 10_000,
		EndTime:   20_000,
	})
	require.NoError(t, err)
	return elections
}

func newTestCoordinator(t *testing.T, client ledger.Client, elections storage.ElectionStorage) *Coordinator {
	t.Helper()
	logging.Log = logrus.New()

	c := NewCoordinator(client, elections, 50*time.Millisecond)
	c.Now = func() time.Time { return time.Unix(15_000, 0) }
	return c
}

func okStub() *stubLedger {
	return &stubLedger{
		castVote: func(context.Context) (*ledger.Receipt, error) {
			return &ledger.Receipt{TxID: "tx-vote"}, nil
		},
		hasVoted:        func() (bool, error) { return false, nil },
		candidateExists: func() (bool, error) { return true, nil },
	}
}

func TestSubmit(t *testing.T) {
	request := Request{ElectionLedgerID: 1, CandidateLedgerID: 1, Voter: "voter-x"}

	t.Run("Happy path - preflight passes and the vote is recorded", func(t *testing.T) {
		stub := okStub()
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))

		result, err := c.Submit(context.Background(), request)
		require.NoError(t, err)
		require.NotNil(t, result.Receipt)
		assert.Equal(t, "tx-vote", result.Receipt.TxID)
	})

	t.Run("Unhappy path - local status preflight rejects without a ledger submission", func(t *testing.T) {
		stub := okStub()
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))
		c.Now = func() time.Time { return time.Unix(25_000, 0) } // past the end

		_, err := c.Submit(context.Background(), request)
		assert.ErrorIs(t, err, ledger.ErrElectionNotActive)
		assert.Zero(t, stub.calls, "Ledger must not see a doomed submission")
	})

	t.Run("Unhappy path - hasVoted preflight rejects a duplicate", func(t *testing.T) {
		stub := okStub()
		stub.hasVoted = func() (bool, error) { return true, nil }
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))

		_, err := c.Submit(context.Background(), request)
		assert.ErrorIs(t, err, ledger.ErrDuplicateVote)
		assert.Zero(t, stub.calls)
	})

	t.Run("Unhappy path - unknown candidate preflight", func(t *testing.T) {
		stub := okStub()
		stub.candidateExists = func() (bool, error) { return false, nil }
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))

		_, err := c.Submit(context.Background(), request)
		assert.ErrorIs(t, err, ledger.ErrUnknownCandidate)
		assert.Zero(t, stub.calls)
	})

	t.Run("Happy path - catalog lag skips the local status check only", func(t *testing.T) {
		stub := okStub()
		c := newTestCoordinator(t, stub, storage.NewMemoryElectionStorage())

		result, err := c.Submit(context.Background(), request)
		require.NoError(t, err)
		assert.NotNil(t, result.Receipt, "The ledger still decides for unsynced elections")
	})

	t.Run("Unhappy path - ledger rejection after a passing preflight wins", func(t *testing.T) {
		stub := okStub()
		stub.castVote = func(context.Context) (*ledger.Receipt, error) {
			// Another submission from the same voter landed in between.
			return nil, ledger.ErrDuplicateVote
		}
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))

		_, err := c.Submit(context.Background(), request)
		assert.ErrorIs(t, err, ledger.ErrDuplicateVote, "The ledger's answer is authoritative")
	})

	t.Run("Unhappy path - second submission while one is pending", func(t *testing.T) {
		release := make(chan struct{})
		entered := make(chan struct{})

		stub := okStub()
		stub.castVote = func(context.Context) (*ledger.Receipt, error) {
			close(entered)
			<-release
			return &ledger.Receipt{TxID: "tx-slow"}, nil
		}
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))

		done := make(chan error, 1)
		go func() {
			_, err := c.Submit(context.Background(), request)
			done <- err
		}()
		<-entered

		_, err := c.Submit(context.Background(), request)
		assert.ErrorIs(t, err, ErrSubmissionInProgress)

		close(release)
		require.NoError(t, <-done)
	})
}

func TestSubmitAmbiguousTimeout(t *testing.T) {
	request := Request{ElectionLedgerID: 1, CandidateLedgerID: 1, Voter: "voter-x"}

	t.Run("Happy path - timed-out submission confirmed by the state re-check", func(t *testing.T) {
		recheck := false
		stub := okStub()
		stub.castVote = func(ctx context.Context) (*ledger.Receipt, error) {
			recheck = true
			return nil, context.DeadlineExceeded
		}
		stub.hasVoted = func() (bool, error) {
			// Preflight answers "not voted"; the re-check after the timeout
			// discovers the transaction landed after all.
			return recheck, nil
		}
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))

		result, err := c.Submit(context.Background(), request)
		require.NoError(t, err)
		assert.Nil(t, result.Receipt, "No direct ack exists for a recheck-confirmed vote")
	})

	t.Run("Unhappy path - still unconfirmed after the re-check", func(t *testing.T) {
		stub := okStub()
		stub.castVote = func(context.Context) (*ledger.Receipt, error) {
			return nil, context.DeadlineExceeded
		}
		c := newTestCoordinator(t, stub, activeElectionCatalog(t))

		_, err := c.Submit(context.Background(), request)
		assert.ErrorIs(t, err, ErrConfirmationPending, "Never blindly resubmit an ambiguous vote")
		assert.Equal(t, 1, stub.calls, "The coordinator must not retry the submission itself")
	})
}
