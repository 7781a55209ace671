package shortcode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kickbacklabs/kickback/internal/awsx"
)

// ErrNotFound indicates an unknown short code.
var ErrNotFound = errors.New("short code not found")

// ErrExhausted indicates the bounded mint retry loop ran out. This is a hard
// failure: it signals a broken alphabet/length choice or pathological load,
// not something to degrade around.
var ErrExhausted = errors.New("short code space exhausted")

const maxMintAttempts = 10

// CodeRow is the persisted code -> tracking URL mapping. The short code is
// the primary key, so the store's uniqueness check serializes concurrent
// mints of the same draw: the losing writer retries with a fresh code.
type CodeRow struct {
	ShortCode   string    `dynamodbav:"short_code"` // PK
	Token       string    `dynamodbav:"token"`
	TrackingURL string    `dynamodbav:"tracking_url"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
}

// ClickSink receives click telemetry for a resolved link.
type ClickSink interface {
	RecordClick(ctx context.Context, token string) error
}

// MetricSink counts resolutions. Implementations are best-effort.
type MetricSink interface {
	Count(ctx context.Context, metric string, value float64) error
}

// Service mints collision-free short codes and resolves them for redirects.
type Service struct {
	client    awsx.DynamoDBAPI
	tableName string
	clicks    ClickSink
	metrics   MetricSink
	nowFunc   func() time.Time
}

// NewService returns a Service writing to tableName. clicks and metrics may
// be nil; both are telemetry and never gate a redirect.
func NewService(client awsx.DynamoDBAPI, tableName string, clicks ClickSink, metrics MetricSink) *Service {
	return &Service{
		client:    client,
		tableName: tableName,
		clicks:    clicks,
		metrics:   metrics,
		nowFunc:   time.Now,
	}
}

// Assign mints a code and persists the code -> tracking URL mapping,
// retrying fresh draws on collision up to maxMintAttempts before failing
// with ErrExhausted.
func (s *Service) Assign(ctx context.Context, tok, trackingURL string) (string, error) {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		code, err := Mint()
		if err != nil {
			return "", err
		}

		row := CodeRow{
			ShortCode:   code,
			Token:       tok,
			TrackingURL: trackingURL,
			CreatedAt:   s.nowFunc().UTC(),
		}
		item, err := attributevalue.MarshalMap(row)
		if err != nil {
			return "", fmt.Errorf("marshal code row: %w", err)
		}

		_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
			TableName:           &s.tableName,
			Item:                item,
			ConditionExpression: awsString("attribute_not_exists(short_code)"),
		})
		if err == nil {
			return code, nil
		}

		if awsx.IsConditionalCheckFailed(err) {
			log.Printf("[shortcode] collision on %s, retrying (attempt %d)", code, attempt+1)
			continue
		}
		return "", fmt.Errorf("put code row: %w", err)
	}
	return "", ErrExhausted
}

// Resolve returns the mapping for a code, recording click telemetry as a
// side effect. Telemetry failures are logged and swallowed: observability
// must never gate the redirect.
func (s *Service) Resolve(ctx context.Context, code string) (*CodeRow, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"short_code": &types.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get code row: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var row CodeRow
	if err := attributevalue.UnmarshalMap(out.Item, &row); err != nil {
		return nil, fmt.Errorf("unmarshal code row: %w", err)
	}

	if s.clicks != nil {
		if err := s.clicks.RecordClick(ctx, row.Token); err != nil {
			log.Printf("[shortcode] click telemetry failed for %s: %v", code, err)
		}
	}
	if s.metrics != nil {
		if err := s.metrics.Count(ctx, "LinkClicks", 1); err != nil {
			log.Printf("[shortcode] click metric failed for %s: %v", code, err)
		}
	}
	return &row, nil
}

func awsString(s string) *string { return &s }
