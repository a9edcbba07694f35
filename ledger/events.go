package ledger

// Event names emitted by the ledger. The sync service matches on these when
// recovering minted identifiers from a confirmed transaction.
const (
	EventElectionCreated = "ElectionCreated"
	EventCandidateAdded  = "CandidateAdded"
	EventVoteCast        = "VoteCast"
)

// Event is a structured log entry attached to a confirmed transaction.
// Args only ever holds int64 values: the ledger stores no free text.
type Event struct {
	Name string           `json:"name"`
	Args map[string]int64 `json:"args"`
}

// Receipt is the confirmation record for a committed transaction. Receipts
// are immutable and retrievable by transaction id, so an interrupted catalog
// sync can always be replayed from the same confirmed data.
type Receipt struct {
	TxID   string  `json:"txId"`
	Events []Event `json:"events"`
}

// ElectionCreatedEvent is the typed form of an ElectionCreated log entry.
type ElectionCreatedEvent struct {
	ElectionID int64
	StartTime  int64
	EndTime    int64
}

// CandidateAddedEvent is the typed form of a CandidateAdded log entry.
type CandidateAddedEvent struct {
	ElectionID  int64
	CandidateID int64
}

// DecodeElectionCreated scans the receipt for an ElectionCreated event and
// decodes it. A missing event yields ErrEventNotFound: the transaction was
// mined but did not create an election, and no catalog row may be written
// from it.
func DecodeElectionCreated(r *Receipt) (*ElectionCreatedEvent, error) {
	for _, e := range r.Events {
		if e.Name != EventElectionCreated {
			continue
		}
		return &ElectionCreatedEvent{
			ElectionID: e.Args["electionId"],
			StartTime:  e.Args["startTime"],
			EndTime:    e.Args["endTime"],
		}, nil
	}
	return nil, ErrEventNotFound
}

// DecodeCandidateAdded scans the receipt for a CandidateAdded event and
// decodes it.
func DecodeCandidateAdded(r *Receipt) (*CandidateAddedEvent, error) {
	for _, e := range r.Events {
		if e.Name != EventCandidateAdded {
			continue
		}
		return &CandidateAddedEvent{
			ElectionID:  e.Args["electionId"],
			CandidateID: e.Args["candidateId"],
		}, nil
	}
	return nil, ErrEventNotFound
}
