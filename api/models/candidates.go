package models

import "github.com/Kalyan-pallati/e-voting/storage"

type CreateCandidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

type UpdateCandidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

type CandidateResponse struct {
	ID               string `json:"id"`
	LedgerID         int64  `json:"ledgerId"`
	ElectionLedgerID int64  `json:"electionLedgerId"`
	Name             string `json:"name"`
	Party            string `json:"party"`
}

type CreateCandidateResponse struct {
	CandidateResponse
	TxID string `json:"txId"`
}

func TransformCandidateFromStorage(c *storage.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:               c.CatalogID,
		LedgerID:         c.LedgerID,
		ElectionLedgerID: c.ElectionLedgerID,
		Name:             c.Name,
		Party:            c.Party,
	}
}
