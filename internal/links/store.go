package links

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

// Link is one row per (agent, merchant) link-generation request. The
// attribution token is the primary key: it is globally unique, immutable,
// and the resolution key for vendor postbacks. Merchant display fields and
// the cashback rate are snapshots from creation time; a later change to the
// merchant's live rate never rewrites what the agent was shown.
type Link struct {
	Token         string     `dynamodbav:"token"` // PK, attribution token
	LinkID        string     `dynamodbav:"link_id"`
	WalletAddress string     `dynamodbav:"wallet_address"` // GSI wallet_address-index
	MerchantID    string     `dynamodbav:"merchant_id"`
	MerchantName  string     `dynamodbav:"merchant_name"`
	MerchantSlug  string     `dynamodbav:"merchant_slug"`
	CashbackRate  float64    `dynamodbav:"cashback_rate"`
	TrackingURL   string     `dynamodbav:"tracking_url"`
	ShortCode     string     `dynamodbav:"short_code"`
	Clicks        int64      `dynamodbav:"clicks"`
	LastClickAt   *time.Time `dynamodbav:"last_click_at,omitempty"`
	CreatedAt     time.Time  `dynamodbav:"created_at"`
}

const walletIndex = "wallet_address-index"

// Store encapsulates operations on the links table.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new links Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create inserts a link row. The conditional put guards token uniqueness;
// a collision here means the token generator is broken, so it surfaces as a
// hard error instead of being retried.
func (s *Store) Create(ctx context.Context, link Link) error {
	item, err := attributevalue.MarshalMap(link)
	if err != nil {
		return fmt.Errorf("marshal link: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(#t)"),
		ExpressionAttributeNames: map[string]string{
			"#t": "token",
		},
	})
	if err != nil {
		if awsx.IsConditionalCheckFailed(err) {
			return fmt.Errorf("attribution token %s already exists", link.Token)
		}
		return fmt.Errorf("put link: %w", err)
	}
	return nil
}

// ByToken fetches a link by attribution token. Returns (nil, nil) if not found.
func (s *Store) ByToken(ctx context.Context, tok string) (*Link, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"token": &types.AttributeValueMemberS{Value: tok},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var l Link
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, fmt.Errorf("unmarshal link: %w", err)
	}
	return &l, nil
}

// ByWallet lists all links owned by a wallet via the wallet GSI.
func (s *Store) ByWallet(ctx context.Context, walletAddress string) ([]Link, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(walletIndex),
		KeyConditionExpression: awsString("wallet_address = :w"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":w": &types.AttributeValueMemberS{Value: strings.ToLower(walletAddress)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query links by wallet: %w", err)
	}

	out2 := make([]Link, 0, len(out.Items))
	for _, item := range out.Items {
		var l Link
		if err := attributevalue.UnmarshalMap(item, &l); err != nil {
			return nil, fmt.Errorf("unmarshal link: %w", err)
		}
		out2 = append(out2, l)
	}
	return out2, nil
}

// RecordClick bumps the click counter and last-click timestamp for a link.
// Callers treat this as telemetry: a failure here must never gate the
// redirect the click is serving.
func (s *Store) RecordClick(ctx context.Context, tok string) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"token": &types.AttributeValueMemberS{Value: tok},
		},
		UpdateExpression: awsString("SET clicks = if_not_exists(clicks, :zero) + :inc, last_click_at = :ts"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":inc":  &types.AttributeValueMemberN{Value: "1"},
			":ts":   &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
