package storage

import (
	"context"
	"errors"

	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type ElectionStorage interface {
	Get(ctx context.Context, ledgerID int64) (*Election, error)
	GetAll(ctx context.Context) ([]*Election, error)
	Create(ctx context.Context, election *Election) error
	Update(ctx context.Context, election *Election) error
}

type DynamoElectionStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoElectionStorage) Get(ctx context.Context, ledgerID int64) (*Election, error) {
	key, err := attributevalue.MarshalMap(map[string]int64{"PK": ledgerID})
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to marshal key for ledger id %d: %v", ledgerID, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("ELECTION: GetItem for ledger id %d failed: %v", ledgerID, err)
		return nil, err
	}
	if out.Item == nil {
		logging.Log.Warnf("ELECTION: no election found with ledger id %d", ledgerID)
		return nil, nil
	}

	var election Election
	if err := attributevalue.UnmarshalMap(out.Item, &election); err != nil {
		logging.Log.Errorf("ELECTION: failed to unmarshal election: %v", err)
		return nil, err
	}
	return &election, nil
}

func (s *DynamoElectionStorage) GetAll(ctx context.Context) ([]*Election, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("ELECTION: scan failed: %v", err)
		return nil, err
	}

	var elections []*Election
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &elections); err != nil {
		logging.Log.Errorf("ELECTION: failed to unmarshal election list: %v", err)
		return nil, err
	}
	return elections, nil
}

// Create writes the row only if no row holds this ledger id yet. The
// conditional put is what makes the sync service idempotent: a replay of
// the same confirmed transaction surfaces ErrItemWithIDAlreadyExists and
// leaves the existing row untouched.
func (s *DynamoElectionStorage) Create(ctx context.Context, election *Election) error {
	item, err := attributevalue.MarshalMap(election)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to marshal election: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("ELECTION: election with ledger id %d already exists", election.LedgerID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("ELECTION: failed to create election: %v", err)
		return err
	}
	return nil
}

// Update replaces catalog metadata for an already-synced election. The row
// keeps its ledger id; only off-chain fields may change.
func (s *DynamoElectionStorage) Update(ctx context.Context, election *Election) error {
	item, err := attributevalue.MarshalMap(election)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to marshal updated election: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to update election: %v", err)
		return err
	}
	return nil
}
