package rewards

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one applied status transition. The history list is
// append-only; re-delivered postbacks add harmless duplicate entries rather
// than rewriting anything.
type HistoryEntry struct {
	At     time.Time `dynamodbav:"at" json:"at"`
	Status Status    `dynamodbav:"status" json:"status"`
}

// Reward is one commission event tied to exactly one link (and transitively
// one agent). Version drives optimistic concurrency on merges.
type Reward struct {
	RewardID      string         `dynamodbav:"reward_id"` // PK
	Token         string         `dynamodbav:"token"`
	LinkID        string         `dynamodbav:"link_id"`
	WalletAddress string         `dynamodbav:"wallet_address"` // GSI wallet_address-index
	OrderID       string         `dynamodbav:"order_id,omitempty"`
	OrderAmount   float64        `dynamodbav:"order_amount"`
	OrderCurrency string         `dynamodbav:"order_currency,omitempty"`
	Commission    float64        `dynamodbav:"commission_usdt"`
	Status        Status         `dynamodbav:"status"`
	History       []HistoryEntry `dynamodbav:"history"`
	RawPayload    string         `dynamodbav:"raw_payload,omitempty"`
	Source        string         `dynamodbav:"source,omitempty"`
	TxHash        string         `dynamodbav:"tx_hash,omitempty"`
	PaidAt        *time.Time     `dynamodbav:"paid_at,omitempty"`
	PayoutSentAt  *time.Time     `dynamodbav:"payout_sent_at,omitempty"`
	CreatedAt     time.Time      `dynamodbav:"created_at"`
	UpdatedAt     time.Time      `dynamodbav:"updated_at"`
	Version       int64          `dynamodbav:"version"`
}

// RewardKey returns the primary key for an inbound postback. With an order
// id the key is deterministic, so the table's key uniqueness enforces at
// most one reward per (link, order id). Without one there is no dedup key:
// every delivery becomes a distinct reward.
func RewardKey(tok, orderID string) string {
	if orderID == "" {
		return "rw_" + uuid.NewString()
	}
	return "rw_" + tok + "#" + orderID
}
