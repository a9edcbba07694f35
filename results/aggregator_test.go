package results

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestAggregator(t *testing.T) (*Aggregator, *ledger.Machine, *storage.MemoryCandidateStorage, *time.Time) {
	t.Helper()
	logging.Log = logrus.New()

	clock := time.Unix(10_000, 0)
	machine := ledger.NewMachine()
	machine.Now = func() time.Time { return clock }

	candidates := storage.NewMemoryCandidateStorage()
	return &Aggregator{Ledger: machine, Candidates: candidates}, machine, candidates, &clock
}

func createElectionWithCandidates(t *testing.T, m *ledger.Machine, count int) int64 {
	t.Helper()

	receipt, err := m.CreateElection(context.Background(), 10_010, 13_600)
	require.NoError(t, err)
	event, err := ledger.DecodeElectionCreated(receipt)
	require.NoError(t, err)

	for i := 0; i < count; i++ {
		_, err := m.AddCandidate(context.Background(), event.ElectionID)
		require.NoError(t, err)
	}
	return event.ElectionID
}

func syncCandidate(t *testing.T, candidates *storage.MemoryCandidateStorage, electionID, candidateID int64, name, party string) {
	t.Helper()

	err := candidates.Create(context.Background(), &storage.Candidate{
		ElectionLedgerID: electionID,
		LedgerID:         candidateID,
		CatalogID:        fmt.Sprintf("cat-%d-%d", electionID, candidateID),
		Name:             name,
		Party:            party,
	})
	require.NoError(t, err)
}

func TestAggregate(t *testing.T) {
	t.Run("Happy path - partial catalog sync degrades but never hides ledger truth", func(t *testing.T) {
		a, machine, candidates, clock := setupTestAggregator(t)
		electionID := createElectionWithCandidates(t, machine, 3)
		syncCandidate(t, candidates, electionID, 1, "Alice", "Red")
		syncCandidate(t, candidates, electionID, 2, "Bob", "Blue")
		// Candidate 3 exists on the ledger but has not synced yet.

		*clock = time.Unix(10_020, 0)
		for i, candidateID := range []int64{1, 1, 1, 2, 2} {
			_, err := machine.CastVote(context.Background(), electionID, candidateID, fmt.Sprintf("voter-%d", i))
			require.NoError(t, err)
		}

		set, err := a.Aggregate(context.Background(), electionID)
		require.NoError(t, err)

		assert.Equal(t, int64(5), set.TotalVotes)
		require.Len(t, set.Rows, 3, "The unsynced candidate must not be dropped")

		assert.Equal(t, []int64{3, 2, 0}, []int64{set.Rows[0].VoteCount, set.Rows[1].VoteCount, set.Rows[2].VoteCount})
		assert.Equal(t, "Alice", set.Rows[0].Name)
		assert.Equal(t, "Bob", set.Rows[1].Name)

		assert.False(t, set.Rows[2].Synced)
		assert.Empty(t, set.Rows[2].Name)
		assert.Equal(t, int64(3), set.Rows[2].CandidateLedgerID)

		assert.InDelta(t, 0.6, set.Rows[0].Share, 1e-9)
		assert.InDelta(t, 0.4, set.Rows[1].Share, 1e-9)
		assert.Zero(t, set.Rows[2].Share)
	})

	t.Run("Happy path - no votes yields all zero shares", func(t *testing.T) {
		a, machine, candidates, _ := setupTestAggregator(t)
		electionID := createElectionWithCandidates(t, machine, 2)
		syncCandidate(t, candidates, electionID, 1, "Alice", "Red")
		syncCandidate(t, candidates, electionID, 2, "Bob", "Blue")

		set, err := a.Aggregate(context.Background(), electionID)
		require.NoError(t, err)

		assert.Zero(t, set.TotalVotes)
		require.Len(t, set.Rows, 2)
		for _, row := range set.Rows {
			assert.Zero(t, row.VoteCount)
			assert.Zero(t, row.Share, "Zero total must never divide")
		}
	})

	t.Run("Happy path - ties are broken by ascending candidate ledger id", func(t *testing.T) {
		a, machine, candidates, clock := setupTestAggregator(t)
		electionID := createElectionWithCandidates(t, machine, 3)
		syncCandidate(t, candidates, electionID, 1, "Alice", "Red")
		syncCandidate(t, candidates, electionID, 2, "Bob", "Blue")
		syncCandidate(t, candidates, electionID, 3, "Cara", "Green")

		*clock = time.Unix(10_020, 0)
		_, err := machine.CastVote(context.Background(), electionID, 3, "voter-a")
		require.NoError(t, err)
		_, err = machine.CastVote(context.Background(), electionID, 1, "voter-b")
		require.NoError(t, err)

		set, err := a.Aggregate(context.Background(), electionID)
		require.NoError(t, err)

		ids := []int64{set.Rows[0].CandidateLedgerID, set.Rows[1].CandidateLedgerID, set.Rows[2].CandidateLedgerID}
		assert.Equal(t, []int64{1, 3, 2}, ids, "Tied candidates 1 and 3 sort by id, candidate 2 is last")
	})

	t.Run("Happy path - catalog row missing from the ledger result set shows zero", func(t *testing.T) {
		a, machine, candidates, _ := setupTestAggregator(t)
		electionID := createElectionWithCandidates(t, machine, 1)
		syncCandidate(t, candidates, electionID, 1, "Alice", "Red")
		// A candidate synced under a later ledger id the machine does not
		// report yet, e.g. the catalog ran ahead on a different replica.
		syncCandidate(t, candidates, electionID, 9, "Zoe", "Gold")

		set, err := a.Aggregate(context.Background(), electionID)
		require.NoError(t, err)

		require.Len(t, set.Rows, 2)
		assert.Equal(t, int64(9), set.Rows[1].CandidateLedgerID)
		assert.Zero(t, set.Rows[1].VoteCount)
		assert.True(t, set.Rows[1].Synced)
	})

	t.Run("Unhappy path - unknown election", func(t *testing.T) {
		a, _, _, _ := setupTestAggregator(t)

		_, err := a.Aggregate(context.Background(), 999)
		assert.ErrorIs(t, err, ledger.ErrUnknownElection)
	})
}
