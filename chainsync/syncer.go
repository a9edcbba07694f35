package chainsync

import (
	"context"
	"errors"
	"time"

	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/storage"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ElectionMetadata is the caller-supplied off-chain part of an election.
type ElectionMetadata struct {
	Title       string
	Description string
}

// CandidateMetadata is the caller-supplied off-chain part of a candidate.
type CandidateMetadata struct {
	Name  string
	Party string
}

// Syncer turns a confirmed ledger transaction into exactly one catalog row.
// Every entry point may be invoked repeatedly against the same receipt and
// converges on the same catalog state; it never assumes it is the only
// writer for a given ledger id.
type Syncer struct {
	Ledger      ledger.Client
	Elections   storage.ElectionStorage
	Candidates  storage.CandidateStorage
	Politicians storage.PoliticianStorage
}

// SyncElection decodes the ElectionCreated event from the receipt and
// upserts the catalog election keyed by the minted ledger id. If the event
// is absent the receipt belongs to some other transaction and nothing is
// written: the caller must surface "mined but not indexable".
func (s *Syncer) SyncElection(ctx context.Context, receipt *ledger.Receipt, meta ElectionMetadata) (*storage.Election, error) {
	event, err := ledger.DecodeElectionCreated(receipt)
	if err != nil {
		logging.Log.Errorf("SYNC: no ElectionCreated event in tx %s: %v", receipt.TxID, err)
		return nil, err
	}

	election := &storage.Election{
		LedgerID:    event.ElectionID,
		CatalogID:   newCatalogID(),
		Title:       meta.Title,
		Description: meta.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Elections.Create(ctx, election); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Infof("SYNC: election %d already in catalog, replay is a no-op", event.ElectionID)
			return s.Elections.Get(ctx, event.ElectionID)
		}
		return nil, err
	}

	logging.Log.Infof("SYNC: election %d indexed from tx %s", event.ElectionID, receipt.TxID)
	return election, nil
}

// SyncCandidate decodes the CandidateAdded event and upserts the catalog
// candidate under (election ledger id, candidate ledger id). The name+party
// pair is also saved to the global politician bank if not known yet.
func (s *Syncer) SyncCandidate(ctx context.Context, receipt *ledger.Receipt, meta CandidateMetadata) (*storage.Candidate, error) {
	event, err := ledger.DecodeCandidateAdded(receipt)
	if err != nil {
		logging.Log.Errorf("SYNC: no CandidateAdded event in tx %s: %v", receipt.TxID, err)
		return nil, err
	}

	candidate := &storage.Candidate{
		ElectionLedgerID: event.ElectionID,
		LedgerID:         event.CandidateID,
		CatalogID:        newCatalogID(),
		Name:             meta.Name,
		Party:            meta.Party,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.Candidates.Create(ctx, candidate); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Infof("SYNC: candidate (%d, %d) already in catalog, replay is a no-op",
				event.ElectionID, event.CandidateID)
			return s.Candidates.Get(ctx, event.ElectionID, event.CandidateID)
		}
		return nil, err
	}

	s.saveToPoliticianBank(ctx, meta)

	logging.Log.Infof("SYNC: candidate (%d, %d) indexed from tx %s", event.ElectionID, event.CandidateID, receipt.TxID)
	return candidate, nil
}

// Resync replays a previously confirmed transaction whose catalog write
// failed or was never attempted. The receipt is fetched from the ledger by
// transaction id, so the operation never re-submits anything on-chain.
func (s *Syncer) Resync(ctx context.Context, txID string, electionMeta ElectionMetadata, candidateMeta CandidateMetadata) error {
	receipt, err := s.Ledger.GetReceipt(ctx, txID)
	if err != nil {
		logging.Log.Errorf("SYNC: cannot resync unknown tx %s: %v", txID, err)
		return err
	}

	if _, err := s.SyncElection(ctx, receipt, electionMeta); err == nil {
		return nil
	} else if !errors.Is(err, ledger.ErrEventNotFound) {
		return err
	}

	_, err = s.SyncCandidate(ctx, receipt, candidateMeta)
	return err
}

func (s *Syncer) saveToPoliticianBank(ctx context.Context, meta CandidateMetadata) {
	politician := &storage.Politician{
		Key:       storage.PoliticianKey(meta.Name, meta.Party),
		Name:      meta.Name,
		Party:     meta.Party,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Politicians.Create(ctx, politician); err != nil && !errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
		// The candidate row is already written; the bank is convenience
		// data and must not fail the sync.
		logging.Log.Warnf("SYNC: failed to save %s to politician bank: %v", politician.Key, err)
	}
}

func newCatalogID() string {
	id, err := gonanoid.New()
	if err != nil {
		// gonanoid only fails if the OS random source does.
		logging.Log.Errorf("SYNC: failed to generate catalog id: %v", err)
		return "catalog-id-unavailable"
	}
	return id
}
