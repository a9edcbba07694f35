package storage

import (
	"context"
	"sort"
	"sync"
)

// In-memory implementations of the catalog interfaces. They keep the Dynamo
// semantics (create is conditional on the key being absent) so tests and
// local runs exercise the same contract the service sees in production.

type MemoryElectionStorage struct {
	mu    sync.RWMutex
	items map[int64]Election
}

func NewMemoryElectionStorage() *MemoryElectionStorage {
	return &MemoryElectionStorage{items: make(map[int64]Election)}
}

func (s *MemoryElectionStorage) Get(_ context.Context, ledgerID int64) (*Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[ledgerID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *MemoryElectionStorage) GetAll(_ context.Context) ([]*Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elections := make([]*Election, 0, len(s.items))
	for _, e := range s.items {
		e := e
		elections = append(elections, &e)
	}
	sort.Slice(elections, func(i, j int) bool { return elections[i].LedgerID < elections[j].LedgerID })
	return elections, nil
}

func (s *MemoryElectionStorage) Create(_ context.Context, election *Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[election.LedgerID]; exists {
		return ErrItemWithIDAlreadyExists
	}
	s.items[election.LedgerID] = *election
	return nil
}

func (s *MemoryElectionStorage) Update(_ context.Context, election *Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[election.LedgerID] = *election
	return nil
}

type candidateKey struct {
	electionLedgerID int64
	ledgerID         int64
}

type MemoryCandidateStorage struct {
	mu    sync.RWMutex
	items map[candidateKey]Candidate
}

func NewMemoryCandidateStorage() *MemoryCandidateStorage {
	return &MemoryCandidateStorage{items: make(map[candidateKey]Candidate)}
}

func (s *MemoryCandidateStorage) Get(_ context.Context, electionLedgerID, ledgerID int64) (*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.items[candidateKey{electionLedgerID, ledgerID}]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryCandidateStorage) GetByElection(_ context.Context, electionLedgerID int64) ([]*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*Candidate
	for key, c := range s.items {
		if key.electionLedgerID != electionLedgerID {
			continue
		}
		c := c
		candidates = append(candidates, &c)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].LedgerID < candidates[j].LedgerID })
	return candidates, nil
}

func (s *MemoryCandidateStorage) Create(_ context.Context, candidate *Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := candidateKey{candidate.ElectionLedgerID, candidate.LedgerID}
	if _, exists := s.items[key]; exists {
		return ErrItemWithIDAlreadyExists
	}
	s.items[key] = *candidate
	return nil
}

func (s *MemoryCandidateStorage) Update(_ context.Context, candidate *Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[candidateKey{candidate.ElectionLedgerID, candidate.LedgerID}] = *candidate
	return nil
}

type MemoryPoliticianStorage struct {
	mu    sync.RWMutex
	items map[string]Politician
}

func NewMemoryPoliticianStorage() *MemoryPoliticianStorage {
	return &MemoryPoliticianStorage{items: make(map[string]Politician)}
}

func (s *MemoryPoliticianStorage) GetAll(_ context.Context) ([]*Politician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	politicians := make([]*Politician, 0, len(s.items))
	for _, p := range s.items {
		p := p
		politicians = append(politicians, &p)
	}
	sort.Slice(politicians, func(i, j int) bool { return politicians[i].Key < politicians[j].Key })
	return politicians, nil
}

func (s *MemoryPoliticianStorage) Create(_ context.Context, politician *Politician) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[politician.Key]; exists {
		return ErrItemWithIDAlreadyExists
	}
	s.items[politician.Key] = *politician
	return nil
}
