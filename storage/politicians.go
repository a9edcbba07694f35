package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type PoliticianStorage interface {
	GetAll(ctx context.Context) ([]*Politician, error)
	Create(ctx context.Context, politician *Politician) error
}

type DynamoPoliticianStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// PoliticianKey builds the bank's unique key from a name+party pair.
func PoliticianKey(name, party string) string {
	return strings.ToLower(name) + "#" + strings.ToLower(party)
}

func (s *DynamoPoliticianStorage) GetAll(ctx context.Context) ([]*Politician, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("POLITICIAN: scan failed: %v", err)
		return nil, err
	}

	var politicians []*Politician
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &politicians); err != nil {
		logging.Log.Errorf("POLITICIAN: failed to unmarshal list: %v", err)
		return nil, err
	}
	return politicians, nil
}

func (s *DynamoPoliticianStorage) Create(ctx context.Context, politician *Politician) error {
	item, err := attributevalue.MarshalMap(politician)
	if err != nil {
		logging.Log.Errorf("POLITICIAN: failed to marshal politician: %v", err)
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
			logging.Log.Warnf("POLITICIAN: %s already exists in the bank", politician.Key)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("POLITICIAN: failed to create politician: %v", err)
		return err
	}
	return nil
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
