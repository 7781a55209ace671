package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kickbacklabs/kickback/internal/awsx"
)

// Agent is one row per unique wallet address. Created lazily on first link
// request and never deleted by this service.
type Agent struct {
	WalletAddress string    `dynamodbav:"wallet_address"` // PK, lowercase canonical form
	CreatedAt     time.Time `dynamodbav:"created_at"`
}

// Store encapsulates operations on the agents table.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new agents Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// FindOrCreate returns the agent for a wallet address, creating it if it
// does not exist. The conditional put makes concurrent first-link requests
// converge on a single row: the losing writer reads the winner's record.
// Returns created=true only for the writer that inserted the row.
func (s *Store) FindOrCreate(ctx context.Context, walletAddress string) (*Agent, bool, error) {
	wallet := strings.ToLower(walletAddress)
	agent := Agent{
		WalletAddress: wallet,
		CreatedAt:     s.nowFunc().UTC(),
	}

	item, err := attributevalue.MarshalMap(agent)
	if err != nil {
		return nil, false, fmt.Errorf("marshal agent: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(wallet_address)"),
	})
	if err == nil {
		return &agent, true, nil
	}

	if !awsx.IsConditionalCheckFailed(err) {
		return nil, false, fmt.Errorf("put agent: %w", err)
	}

	existing, err := s.Get(ctx, wallet)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("agent %s vanished after conditional failure", wallet)
	}
	return existing, false, nil
}

// Get fetches an agent by wallet address. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, walletAddress string) (*Agent, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"wallet_address": &types.AttributeValueMemberS{Value: strings.ToLower(walletAddress)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var a Agent
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, fmt.Errorf("unmarshal agent: %w", err)
	}
	return &a, nil
}

func awsString(s string) *string { return &s }
