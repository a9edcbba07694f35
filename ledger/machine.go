package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/google/uuid"
)

// Tally is one row of an election result set.
type Tally struct {
	CandidateID int64 `json:"candidateId"`
	VoteCount   int64 `json:"voteCount"`
}

// Client is the ledger surface consumed by the rest of the system. The
// machine below implements it in-process; consensus ordering is assumed to
// be handled underneath this interface.
type Client interface {
	CreateElection(ctx context.Context, startTime, endTime int64) (*Receipt, error)
	AddCandidate(ctx context.Context, electionID int64) (*Receipt, error)
	CastVote(ctx context.Context, electionID, candidateID int64, voter string) (*Receipt, error)
	HasVoted(ctx context.Context, electionID int64, voter string) (bool, error)
	CandidateExists(ctx context.Context, electionID, candidateID int64) (bool, error)
	GetResults(ctx context.Context, electionID int64) ([]Tally, error)
	GetReceipt(ctx context.Context, txID string) (*Receipt, error)
}

type electionState struct {
	startTime  int64
	endTime    int64
	candidates []int64          // minted order, ids are 1..n
	votes      map[string]int64 // voter -> candidate
	tally      map[int64]int64  // candidate -> count
}

// Machine is the authoritative election state machine. All operations are
// serialized behind one mutex: a committed write is visible to every later
// call, and castVote's duplicate-check-and-append is a single step.
type Machine struct {
	mu             sync.Mutex
	nextElectionID int64
	elections      map[int64]*electionState
	receipts       map[string]*Receipt

	// Now is the clock used for status gating. Replaceable in tests.
	Now func() time.Time
}

func NewMachine() *Machine {
	return &Machine{
		nextElectionID: 1,
		elections:      make(map[int64]*electionState),
		receipts:       make(map[string]*Receipt),
		Now:            time.Now,
	}
}

func (m *Machine) commit(events ...Event) *Receipt {
	r := &Receipt{
		TxID:   uuid.NewString(),
		Events: events,
	}
	m.receipts[r.TxID] = r
	return r
}

// CreateElection validates the time window, mints the next global election
// id and commits an ElectionCreated event.
func (m *Machine) CreateElection(ctx context.Context, startTime, endTime int64) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if endTime <= startTime {
		return nil, ErrInvalidTimeRange
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextElectionID
	m.nextElectionID++
	m.elections[id] = &electionState{
		startTime: startTime,
		endTime:   endTime,
		votes:     make(map[string]int64),
		tally:     make(map[int64]int64),
	}

	logging.Log.Infof("LEDGER: election %d created [%d, %d]", id, startTime, endTime)
	return m.commit(Event{
		Name: EventElectionCreated,
		Args: map[string]int64{"electionId": id, "startTime": startTime, "endTime": endTime},
	}), nil
}

// AddCandidate mints the next per-election sequential candidate id. Rosters
// are append-only and only editable while the election is still a draft.
func (m *Machine) AddCandidate(ctx context.Context, electionID int64) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.elections[electionID]
	if !ok {
		return nil, ErrUnknownElection
	}
	if StatusAt(e.startTime, e.endTime, m.Now()) != StatusDraft {
		return nil, ErrElectionNotEditable
	}

	id := int64(len(e.candidates)) + 1
	e.candidates = append(e.candidates, id)
	e.tally[id] = 0

	logging.Log.Infof("LEDGER: candidate %d added to election %d", id, electionID)
	return m.commit(Event{
		Name: EventCandidateAdded,
		Args: map[string]int64{"electionId": electionID, "candidateId": id},
	}), nil
}

// CastVote is the single indivisible duplicate-check-and-append: of two
// concurrent submissions for the same (election, voter), exactly one
// commits and the other observes ErrDuplicateVote. Admission is gated on
// the derived status at processing time, not submission time.
func (m *Machine) CastVote(ctx context.Context, electionID, candidateID int64, voter string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.elections[electionID]
	if !ok {
		return nil, ErrUnknownElection
	}
	if candidateID < 1 || candidateID > int64(len(e.candidates)) {
		return nil, ErrUnknownCandidate
	}
	if StatusAt(e.startTime, e.endTime, m.Now()) != StatusActive {
		return nil, ErrElectionNotActive
	}
	if _, voted := e.votes[voter]; voted {
		return nil, ErrDuplicateVote
	}

	e.votes[voter] = candidateID
	e.tally[candidateID]++

	logging.Log.Infof("LEDGER: vote recorded for candidate %d in election %d", candidateID, electionID)
	return m.commit(Event{
		Name: EventVoteCast,
		Args: map[string]int64{"electionId": electionID, "candidateId": candidateID},
	}), nil
}

func (m *Machine) HasVoted(ctx context.Context, electionID int64, voter string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.elections[electionID]
	if !ok {
		return false, ErrUnknownElection
	}
	_, voted := e.votes[voter]
	return voted, nil
}

func (m *Machine) CandidateExists(ctx context.Context, electionID, candidateID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.elections[electionID]
	if !ok {
		return false, ErrUnknownElection
	}
	return candidateID >= 1 && candidateID <= int64(len(e.candidates)), nil
}

// GetResults returns one row per minted candidate, zero counts included,
// in candidate id order. It never fails for a known election.
func (m *Machine) GetResults(ctx context.Context, electionID int64) ([]Tally, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.elections[electionID]
	if !ok {
		return nil, ErrUnknownElection
	}

	tallies := make([]Tally, 0, len(e.candidates))
	for _, id := range e.candidates {
		tallies = append(tallies, Tally{CandidateID: id, VoteCount: e.tally[id]})
	}
	return tallies, nil
}

// GetReceipt looks up a committed transaction for catalog re-sync.
func (m *Machine) GetReceipt(ctx context.Context, txID string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.receipts[txID]
	if !ok {
		return nil, ErrUnknownTransaction
	}
	return r, nil
}
