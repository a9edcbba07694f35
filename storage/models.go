package storage

import "time"

// Election is the catalog row for a ledger election. The ledger id is the
// join key and is written once during sync; title and description exist
// only here, the ledger never stores them.
type Election struct {
	LedgerID    int64     `dynamodbav:"PK"`
	CatalogID   string    `dynamodbav:"CatalogID"`
	Title       string    `dynamodbav:"Title"`
	Description string    `dynamodbav:"Description"`
	StartTime   int64     `dynamodbav:"StartTime"`
	EndTime     int64     `dynamodbav:"EndTime"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
}

// Candidate is the catalog row for a ledger candidate, keyed by the parent
// election's ledger id plus the candidate's own ledger-minted id.
type Candidate struct {
	ElectionLedgerID int64     `dynamodbav:"PK"`
	LedgerID         int64     `dynamodbav:"SK"`
	CatalogID        string    `dynamodbav:"CatalogID"`
	Name             string    `dynamodbav:"Name"`
	Party            string    `dynamodbav:"Party"`
	CreatedAt        time.Time `dynamodbav:"CreatedAt"`
}

// Politician is a global name+party pair not tied to any election. Rows are
// keyed by Key (name#party) so the bank never holds duplicates.
type Politician struct {
	Key       string    `dynamodbav:"PK"`
	Name      string    `dynamodbav:"Name"`
	Party     string    `dynamodbav:"Party"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
}
