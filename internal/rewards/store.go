package rewards

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kickbacklabs/kickback/internal/awsx"
)

// ErrVersionConflict indicates a concurrent merge won the conditional
// update; the caller re-reads and retries.
var ErrVersionConflict = errors.New("reward version conflict")

const walletIndex = "wallet_address-index"

// Merge is the set of changes one postback applies to an existing reward.
// Zero-valued amount fields are skipped so a sparse postback never regresses
// a previously known value.
type Merge struct {
	Status      Status
	Entry       HistoryEntry
	Commission  float64
	OrderAmount float64
	RawPayload  string
	Source      string
	PaidAt      *time.Time
}

// Store encapsulates operations on the rewards table.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new rewards Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches a reward by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, rewardID string) (*Reward, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"reward_id": &types.AttributeValueMemberS{Value: rewardID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r Reward
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal reward: %w", err)
	}
	return &r, nil
}

// CreateIfAbsent inserts a reward only when its id is not taken yet.
// Returns (created=false, nil) when another writer got there first; the
// caller falls through to the merge path.
func (s *Store) CreateIfAbsent(ctx context.Context, r Reward) (bool, error) {
	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return false, fmt.Errorf("marshal reward: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(reward_id)"),
	})
	if err != nil {
		if awsx.IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("put reward: %w", err)
	}
	return true, nil
}

// Apply merges a postback into an existing reward as a single conditional
// update on the reward's version, so two concurrent merges cannot silently
// drop each other's history entries. A lost race surfaces as
// ErrVersionConflict for the caller to retry.
func (s *Store) Apply(ctx context.Context, rewardID string, expectedVersion int64, m Merge) error {
	entryList, err := attributevalue.MarshalList([]HistoryEntry{m.Entry})
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	now := s.nowFunc().UTC()
	sets := []string{
		"#s = :st",
		"history = list_append(history, :h)",
		"raw_payload = :rp",
		"updated_at = :ua",
		"version = version + :one",
	}
	values := map[string]types.AttributeValue{
		":st":       &types.AttributeValueMemberS{Value: string(m.Status)},
		":h":        &types.AttributeValueMemberL{Value: entryList},
		":rp":       &types.AttributeValueMemberS{Value: m.RawPayload},
		":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		":one":      &types.AttributeValueMemberN{Value: "1"},
		":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
	}

	// Amounts only move forward: a sparse postback with zero values must not
	// wipe previously reported ones.
	if m.Commission > 0 {
		sets = append(sets, "commission_usdt = :c")
		values[":c"] = &types.AttributeValueMemberN{Value: strconv.FormatFloat(m.Commission, 'f', -1, 64)}
	}
	if m.OrderAmount > 0 {
		sets = append(sets, "order_amount = :oa")
		values[":oa"] = &types.AttributeValueMemberN{Value: strconv.FormatFloat(m.OrderAmount, 'f', -1, 64)}
	}
	if m.Source != "" {
		sets = append(sets, "#src = :src")
		values[":src"] = &types.AttributeValueMemberS{Value: m.Source}
	}
	if m.PaidAt != nil {
		sets = append(sets, "paid_at = :pa")
		values[":pa"] = &types.AttributeValueMemberS{Value: m.PaidAt.UTC().Format(time.RFC3339)}
	}

	_, err = s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"reward_id": &types.AttributeValueMemberS{Value: rewardID},
		},
		UpdateExpression: awsString("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames: map[string]string{
			"#s":   "status",
			"#src": "source",
		},
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("version = :expected"),
	})
	if err != nil {
		if awsx.IsConditionalCheckFailed(err) {
			return ErrVersionConflict
		}
		return fmt.Errorf("apply merge: %w", err)
	}
	return nil
}

// MarkPayoutSent records that the payout request for a reward was dispatched.
// Idempotent: a second call is a no-op once the timestamp is set.
func (s *Store) MarkPayoutSent(ctx context.Context, rewardID string, at time.Time) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"reward_id": &types.AttributeValueMemberS{Value: rewardID},
		},
		UpdateExpression:    awsString("SET payout_sent_at = :ts"),
		ConditionExpression: awsString("attribute_not_exists(payout_sent_at)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ts": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		if awsx.IsConditionalCheckFailed(err) {
			return nil
		}
		return fmt.Errorf("mark payout sent: %w", err)
	}
	return nil
}

// ByWallet lists all rewards attributed to a wallet via the wallet GSI.
func (s *Store) ByWallet(ctx context.Context, walletAddress string) ([]Reward, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(walletIndex),
		KeyConditionExpression: awsString("wallet_address = :w"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":w": &types.AttributeValueMemberS{Value: strings.ToLower(walletAddress)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query rewards by wallet: %w", err)
	}

	rewards := make([]Reward, 0, len(out.Items))
	for _, item := range out.Items {
		var r Reward
		if err := attributevalue.UnmarshalMap(item, &r); err != nil {
			return nil, fmt.Errorf("unmarshal reward: %w", err)
		}
		rewards = append(rewards, r)
	}
	return rewards, nil
}

func awsString(s string) *string { return &s }
