package models

type CastVoteRequest struct {
	ElectionLedgerID  int64 `json:"electionLedgerId"`
	CandidateLedgerID int64 `json:"candidateLedgerId"`
}

type CastVoteResponse struct {
	Message string `json:"message"`
	TxID    string `json:"txId,omitempty"`
}

type VoteStatusResponse struct {
	ElectionLedgerID int64 `json:"electionLedgerId"`
	Voted            bool  `json:"voted"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
