package results

import (
	"context"
	"sort"
	"sync"

	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/storage"
)

// Row is one ranked line of an election result. Synced is false when the
// ledger knows the candidate but the catalog has not caught up yet; such
// rows carry no metadata but are never dropped, otherwise the ballot would
// look smaller than it is.
type Row struct {
	CandidateLedgerID int64
	CatalogID         string
	Name              string
	Party             string
	Synced            bool
	VoteCount         int64
	Share             float64
}

// ResultSet is the aggregated, display-ready outcome of one election.
type ResultSet struct {
	ElectionLedgerID int64
	TotalVotes       int64
	Rows             []Row
}

// Aggregator joins ledger tallies with catalog metadata by ledger id.
// Catalog row order is meaningless and the catalog may lag the ledger, so
// the id is the only join key ever used.
type Aggregator struct {
	Ledger     ledger.Client
	Candidates storage.CandidateStorage
}

// Aggregate fetches both sides concurrently (no causal dependency between
// them) and merges them into a deterministic ranking: vote count descending,
// ties broken by ascending candidate ledger id.
func (a *Aggregator) Aggregate(ctx context.Context, electionLedgerID int64) (*ResultSet, error) {
	var (
		wg         sync.WaitGroup
		tallies    []ledger.Tally
		candidates []*storage.Candidate
		ledgerErr  error
		catalogErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		tallies, ledgerErr = a.Ledger.GetResults(ctx, electionLedgerID)
	}()
	go func() {
		defer wg.Done()
		candidates, catalogErr = a.Candidates.GetByElection(ctx, electionLedgerID)
	}()
	wg.Wait()

	if ledgerErr != nil {
		logging.Log.Errorf("RESULTS: ledger tally fetch failed for election %d: %v", electionLedgerID, ledgerErr)
		return nil, ledgerErr
	}
	if catalogErr != nil {
		logging.Log.Errorf("RESULTS: catalog fetch failed for election %d: %v", electionLedgerID, catalogErr)
		return nil, catalogErr
	}

	byLedgerID := make(map[int64]*storage.Candidate, len(candidates))
	for _, c := range candidates {
		byLedgerID[c.LedgerID] = c
	}

	var total int64
	rows := make([]Row, 0, len(tallies))
	seen := make(map[int64]bool, len(tallies))

	for _, t := range tallies {
		row := Row{
			CandidateLedgerID: t.CandidateID,
			VoteCount:         t.VoteCount,
		}
		if c, ok := byLedgerID[t.CandidateID]; ok {
			row.CatalogID = c.CatalogID
			row.Name = c.Name
			row.Party = c.Party
			row.Synced = true
		}
		rows = append(rows, row)
		seen[t.CandidateID] = true
		total += t.VoteCount
	}

	// Catalog rows the ledger result set does not cover yet show up with a
	// zero count instead of being omitted.
	for _, c := range candidates {
		if seen[c.LedgerID] {
			continue
		}
		rows = append(rows, Row{
			CandidateLedgerID: c.LedgerID,
			CatalogID:         c.CatalogID,
			Name:              c.Name,
			Party:             c.Party,
			Synced:            true,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].VoteCount != rows[j].VoteCount {
			return rows[i].VoteCount > rows[j].VoteCount
		}
		return rows[i].CandidateLedgerID < rows[j].CandidateLedgerID
	})

	for i := range rows {
		if total > 0 {
			rows[i].Share = float64(rows[i].VoteCount) / float64(total)
		}
	}

	return &ResultSet{
		ElectionLedgerID: electionLedgerID,
		TotalVotes:       total,
		Rows:             rows,
	}, nil
}
