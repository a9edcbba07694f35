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

type CandidateStorage interface {
	Get(ctx context.Context, electionLedgerID, ledgerID int64) (*Candidate, error)
	GetByElection(ctx context.Context, electionLedgerID int64) ([]*Candidate, error)
	Create(ctx context.Context, candidate *Candidate) error
	Update(ctx context.Context, candidate *Candidate) error
}

type DynamoCandidateStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCandidateStorage) Get(ctx context.Context, electionLedgerID, ledgerID int64) (*Candidate, error) {
	key, err := attributevalue.MarshalMap(map[string]int64{"PK": electionLedgerID, "SK": ledgerID})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal key for (%d, %d): %v", electionLedgerID, ledgerID, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: GetItem for (%d, %d) failed: %v", electionLedgerID, ledgerID, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var candidate Candidate
	if err := attributevalue.UnmarshalMap(out.Item, &candidate); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to unmarshal candidate: %v", err)
		return nil, err
	}
	return &candidate, nil
}

func (s *DynamoCandidateStorage) GetByElection(ctx context.Context, electionLedgerID int64) ([]*Candidate, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :electionId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":electionId": &types.AttributeValueMemberN{Value: formatInt(electionLedgerID)},
		},
	}

	output, err := s.Client.Query(ctx, input)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to query candidates for election %d: %v", electionLedgerID, err)
		return nil, err
	}

	var candidates []*Candidate
	if err := attributevalue.UnmarshalListOfMaps(output.Items, &candidates); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to unmarshal candidates for election %d: %v", electionLedgerID, err)
		return nil, err
	}
	return candidates, nil
}

// Create is conditional on the (election, candidate) ledger key pair being
// absent, mirroring the election upsert: sync replays are no-ops.
func (s *DynamoCandidateStorage) Create(ctx context.Context, candidate *Candidate) error {
	item, err := attributevalue.MarshalMap(candidate)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal candidate: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("CANDIDATE: candidate (%d, %d) already exists", candidate.ElectionLedgerID, candidate.LedgerID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("CANDIDATE: failed to create candidate: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCandidateStorage) Update(ctx context.Context, candidate *Candidate) error {
	item, err := attributevalue.MarshalMap(candidate)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal updated candidate: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to update candidate: %v", err)
		return err
	}
	return nil
}
