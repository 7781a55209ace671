package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/kickbacklabs/kickback/internal/rewards"
)

// Processor drains SQS-delivered postback batches through the same
// reconciliation engine as the HTTP webhook.
type Processor struct {
	engine *rewards.Engine
}

// NewProcessor creates a worker processor around the reconciliation engine.
func NewProcessor(engine *rewards.Engine) *Processor {
	return &Processor{engine: engine}
}

// Handle receives an SQS batch event and processes each message.
// Returning an error makes the Lambda runtime redeliver the batch, so only
// transient failures propagate; poison messages are logged and swallowed.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			log.Printf("[worker] error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg PostbackMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		// Malformed body will never parse on redelivery either.
		log.Printf("[worker] dropping unparseable message %s: %v", rec.MessageId, err)
		return nil
	}
	if msg.SubID == "" {
		log.Printf("[worker] dropping message %s without subId", rec.MessageId)
		return nil
	}

	res, err := p.engine.Ingest(ctx, rewards.Postback{
		Token:         msg.SubID,
		OrderID:       msg.OrderID,
		OrderAmount:   msg.OrderAmount,
		OrderCurrency: msg.OrderCurrency,
		Commission:    msg.CommissionUSDT,
		VendorStatus:  msg.Status,
		Source:        msg.Source,
		Raw:           rec.Body,
	})
	if err == rewards.ErrLinkNotFound {
		// Postback for an unknown/expired link: redelivery cannot fix it.
		log.Printf("[worker] dropping message %s: no link for token", rec.MessageId)
		return nil
	}
	if err != nil {
		return fmt.Errorf("ingest postback: %w", err)
	}

	if res.PayoutErr != nil {
		log.Printf("[worker] reward %s persisted, payout dispatch failed: %v", res.RewardID, res.PayoutErr)
	}
	log.Printf("[worker] applied postback reward=%s status=%s", res.RewardID, res.Status)
	return nil
}
