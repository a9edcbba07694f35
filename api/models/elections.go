package models

import (
	"time"

	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/storage"
)

type CreateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   int64  `json:"startTime"`
	EndTime     int64  `json:"endTime"`
}

type ElectionResponse struct {
	ID          string `json:"id"`
	LedgerID    int64  `json:"ledgerId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   int64  `json:"startTime"`
	EndTime     int64  `json:"endTime"`
	Status      string `json:"status"`
}

type CreateElectionResponse struct {
	ElectionResponse
	TxID string `json:"txId"`
}

// SyncPendingResponse reports a ledger write whose catalog index did not
// complete. The entity exists on-chain; the client can retry via the
// resync endpoint with the same transaction id.
type SyncPendingResponse struct {
	Message string `json:"message"`
	TxID    string `json:"txId"`
}

type UpdateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ResyncRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Party       string `json:"party"`
}

// TransformElectionFromStorage derives the status at response time; status
// is never read from a stored field.
func TransformElectionFromStorage(e *storage.Election, now time.Time) ElectionResponse {
	return ElectionResponse{
		ID:          e.CatalogID,
		LedgerID:    e.LedgerID,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Status:      string(ledger.StatusAt(e.StartTime, e.EndTime, now)),
	}
}
