package models

import (
	"fmt"

	"github.com/Kalyan-pallati/e-voting/results"
)

const unsyncedNote = "awaiting catalog sync"

type ResultRowResponse struct {
	LedgerID  int64   `json:"ledgerId"`
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Party     string  `json:"party,omitempty"`
	Synced    bool    `json:"synced"`
	Note      string  `json:"note,omitempty"`
	VoteCount int64   `json:"voteCount"`
	Share     float64 `json:"share"`
	Percent   string  `json:"percent"`
}

type ResultsResponse struct {
	ElectionLedgerID int64               `json:"electionLedgerId"`
	TotalVotes       int64               `json:"totalVotes"`
	Results          []ResultRowResponse `json:"results"`
}

func TransformResultSet(set *results.ResultSet) ResultsResponse {
	rows := make([]ResultRowResponse, 0, len(set.Rows))
	for _, r := range set.Rows {
		row := ResultRowResponse{
			LedgerID:  r.CandidateLedgerID,
			ID:        r.CatalogID,
			Name:      r.Name,
			Party:     r.Party,
			Synced:    r.Synced,
			VoteCount: r.VoteCount,
			Share:     r.Share,
			Percent:   fmt.Sprintf("%g%%", r.Share*100),
		}
		if !r.Synced {
			row.Note = unsyncedNote
		}
		rows = append(rows, row)
	}
	return ResultsResponse{
		ElectionLedgerID: set.ElectionLedgerID,
		TotalVotes:       set.TotalVotes,
		Results:          rows,
	}
}
