package rewards

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kickbacklabs/kickback/internal/links"
)

// ErrLinkNotFound indicates a postback whose attribution token matches no
// known link. Speculative reward records are never created.
var ErrLinkNotFound = errors.New("no link for attribution token")

const maxMergeAttempts = 5

// Postback is a normalized inbound commission event. All fields but Token
// may be absent; vendors differ wildly in what they populate.
type Postback struct {
	Token         string
	OrderID       string
	OrderAmount   float64
	OrderCurrency string
	Commission    float64
	VendorStatus  string
	Source        string
	Raw           string
}

// Result reports what one ingestion call did. PayoutErr is a soft error:
// the postback was accepted and the reward persisted, only the downstream
// payout dispatch failed.
type Result struct {
	RewardID      string
	Status        Status
	WalletAddress string
	Created       bool
	PayoutErr     error
}

// LinkResolver resolves an attribution token to its link.
type LinkResolver interface {
	ByToken(ctx context.Context, tok string) (*links.Link, error)
}

// RewardStore is the persistence surface the engine drives.
type RewardStore interface {
	Get(ctx context.Context, rewardID string) (*Reward, error)
	CreateIfAbsent(ctx context.Context, r Reward) (bool, error)
	Apply(ctx context.Context, rewardID string, expectedVersion int64, m Merge) error
	MarkPayoutSent(ctx context.Context, rewardID string, at time.Time) error
}

// PayoutRequester issues a payout request downstream. The reward id is the
// idempotency reference; the requester owns actual fund movement.
type PayoutRequester interface {
	RequestPayout(ctx context.Context, walletAddress string, amount float64, rewardID string) error
}

// Engine is the reward reconciliation state machine. It merges at-least-once,
// out-of-order, partially-duplicated vendor postbacks into the reward ledger
// and fires the payout request when a commission settles.
type Engine struct {
	links   LinkResolver
	store   RewardStore
	payouts PayoutRequester
	nowFunc func() time.Time
}

// NewEngine wires the engine to its collaborators.
func NewEngine(linkResolver LinkResolver, store RewardStore, payouts PayoutRequester) *Engine {
	return &Engine{
		links:   linkResolver,
		store:   store,
		payouts: payouts,
		nowFunc: time.Now,
	}
}

// Ingest applies one postback:
//
//  1. resolve the link by token (unknown token fails, nothing is created)
//  2. map the vendor status to the canonical lifecycle
//  3. create the reward, or merge into the existing one for the same
//     (token, order id) under optimistic concurrency
//  4. dispatch the payout request when this call lands the reward in PAID
//     with a positive commission and no payout has been sent yet
//
// A payout failure comes back as Result.PayoutErr; the reward state is
// persisted either way, settlement bookkeeping is never lost to a failed
// downstream call.
func (e *Engine) Ingest(ctx context.Context, pb Postback) (*Result, error) {
	link, err := e.links.ByToken(ctx, pb.Token)
	if err != nil {
		return nil, fmt.Errorf("resolve link: %w", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	st := MapVendorStatus(pb.VendorStatus)
	now := e.nowFunc().UTC()
	rewardID := RewardKey(pb.Token, pb.OrderID)

	var (
		reward  *Reward
		created bool
	)
	for attempt := 0; attempt < maxMergeAttempts; attempt++ {
		var existing *Reward
		if pb.OrderID != "" {
			existing, err = e.store.Get(ctx, rewardID)
			if err != nil {
				return nil, err
			}
		}

		if existing == nil {
			r := newReward(rewardID, link, pb, st, now)
			ok, err := e.store.CreateIfAbsent(ctx, r)
			if err != nil {
				return nil, err
			}
			if ok {
				reward = &r
				created = true
				break
			}
			// Lost the create race; the next pass merges into the winner's row.
			continue
		}

		m := Merge{
			Status:      st,
			Entry:       HistoryEntry{At: now, Status: st},
			Commission:  pb.Commission,
			OrderAmount: pb.OrderAmount,
			RawPayload:  pb.Raw,
			Source:      pb.Source,
		}
		if st == StatusPaid && existing.PaidAt == nil {
			m.PaidAt = &now
		}

		err = e.store.Apply(ctx, rewardID, existing.Version, m)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		merged := *existing
		merged.Status = st
		merged.History = append(merged.History, m.Entry)
		if pb.Commission > 0 {
			merged.Commission = pb.Commission
		}
		if pb.OrderAmount > 0 {
			merged.OrderAmount = pb.OrderAmount
		}
		if m.PaidAt != nil {
			merged.PaidAt = m.PaidAt
		}
		merged.Version++
		reward = &merged
		break
	}
	if reward == nil {
		return nil, fmt.Errorf("reward %s: merge contention exceeded %d attempts", rewardID, maxMergeAttempts)
	}

	res := &Result{
		RewardID:      reward.RewardID,
		Status:        reward.Status,
		WalletAddress: reward.WalletAddress,
		Created:       created,
	}

	if reward.Status == StatusPaid && reward.Commission > 0 && reward.PayoutSentAt == nil {
		if err := e.payouts.RequestPayout(ctx, reward.WalletAddress, reward.Commission, reward.RewardID); err != nil {
			log.Printf("[rewards] payout dispatch failed for %s: %v", reward.RewardID, err)
			res.PayoutErr = err
		} else if err := e.store.MarkPayoutSent(ctx, reward.RewardID, now); err != nil {
			log.Printf("[rewards] mark payout sent failed for %s: %v", reward.RewardID, err)
		}
	}

	return res, nil
}

func newReward(rewardID string, link *links.Link, pb Postback, st Status, now time.Time) Reward {
	r := Reward{
		RewardID:      rewardID,
		Token:         link.Token,
		LinkID:        link.LinkID,
		WalletAddress: link.WalletAddress,
		OrderID:       pb.OrderID,
		OrderAmount:   pb.OrderAmount,
		OrderCurrency: pb.OrderCurrency,
		Commission:    pb.Commission,
		Status:        st,
		History:       []HistoryEntry{{At: now, Status: st}},
		RawPayload:    pb.Raw,
		Source:        pb.Source,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
	if st == StatusPaid {
		r.PaidAt = &now
	}
	return r
}
