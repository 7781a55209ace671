package shortcode

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestMint_ShapeAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := Mint()
		if err != nil {
			t.Fatalf("Mint error: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("expected length %d, got %q", CodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestAlphabet_ExcludesAmbiguousGlyphs(t *testing.T) {
	for _, r := range "0O1lI" {
		if strings.ContainsRune(Alphabet, r) {
			t.Fatalf("alphabet must not contain ambiguous %q", r)
		}
	}
}

// mockDynamo simulates the shortcodes table; failPuts forces the first N
// conditional puts to collide.
type mockDynamo struct {
	mu       sync.Mutex
	table    map[string]map[string]types.AttributeValue
	failPuts int
	putCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{table: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.failPuts > 0 {
		m.failPuts--
		return nil, &types.ConditionalCheckFailedException{}
	}
	k := params.Item["short_code"].(*types.AttributeValueMemberS).Value
	if _, ok := m.table[k]; ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := params.Key["short_code"].(*types.AttributeValueMemberS).Value
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return &dyn.UpdateItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	return &dyn.QueryOutput{}, nil
}

type fakeClickSink struct {
	tokens []string
	err    error
}

func (f *fakeClickSink) RecordClick(ctx context.Context, token string) error {
	f.tokens = append(f.tokens, token)
	return f.err
}

func TestAssign_Resolve_Roundtrip(t *testing.T) {
	mock := newMockDynamo()
	clicks := &fakeClickSink{}
	s := NewService(mock, "shortcodes", clicks, nil)
	ctx := context.Background()

	code, err := s.Assign(ctx, "tok-1", "https://invol.co/x")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	if len(code) != CodeLength {
		t.Fatalf("unexpected code %q", code)
	}

	row, err := s.Resolve(ctx, code)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if row.TrackingURL != "https://invol.co/x" || row.Token != "tok-1" {
		t.Fatalf("resolve mismatch: %+v", row)
	}
	if len(clicks.tokens) != 1 || clicks.tokens[0] != "tok-1" {
		t.Fatalf("expected exactly one click recorded for tok-1, got %v", clicks.tokens)
	}
}

func TestAssign_RetriesOnCollision(t *testing.T) {
	mock := newMockDynamo()
	mock.failPuts = 3
	s := NewService(mock, "shortcodes", nil, nil)

	code, err := s.Assign(context.Background(), "tok-1", "https://invol.co/x")
	if err != nil {
		t.Fatalf("Assign error after collisions: %v", err)
	}
	if code == "" {
		t.Fatal("expected a code after retries")
	}
	if mock.putCalls != 4 {
		t.Fatalf("expected 4 put attempts (3 collisions + 1 success), got %d", mock.putCalls)
	}
}

func TestAssign_Exhausted(t *testing.T) {
	mock := newMockDynamo()
	mock.failPuts = maxMintAttempts
	s := NewService(mock, "shortcodes", nil, nil)

	_, err := s.Assign(context.Background(), "tok-1", "https://invol.co/x")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if mock.putCalls != maxMintAttempts {
		t.Fatalf("expected %d bounded attempts, got %d", maxMintAttempts, mock.putCalls)
	}
}

func TestResolve_Unknown(t *testing.T) {
	s := NewService(newMockDynamo(), "shortcodes", nil, nil)
	if _, err := s.Resolve(context.Background(), "zzzzzzzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_TelemetryFailureDoesNotGateRedirect(t *testing.T) {
	mock := newMockDynamo()
	clicks := &fakeClickSink{err: errors.New("telemetry down")}
	s := NewService(mock, "shortcodes", clicks, nil)
	ctx := context.Background()

	code, err := s.Assign(ctx, "tok-1", "https://invol.co/x")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}

	row, err := s.Resolve(ctx, code)
	if err != nil {
		t.Fatalf("Resolve must succeed when telemetry fails, got %v", err)
	}
	if row.TrackingURL != "https://invol.co/x" {
		t.Fatalf("resolve mismatch: %+v", row)
	}
}
