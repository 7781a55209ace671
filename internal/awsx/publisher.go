package awsx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// PayoutPublisher posts payout requests to the payout queue. The downstream
// payout system owns the actual fund movement; we only issue the request.
// The reward id doubles as the idempotency reference on the consumer side.
type PayoutPublisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPayoutPublisher returns a publisher bound to a queue URL.
func NewPayoutPublisher(sqsClient SQSAPI, queueURL string) *PayoutPublisher {
	return &PayoutPublisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

type payoutMessage struct {
	WalletAddress string  `json:"wallet_address"`
	AmountUSDT    float64 `json:"amount_usdt"`
	RewardID      string  `json:"reward_id"`
}

// RequestPayout enqueues a payout of amount (settlement currency) to walletAddress.
func (p *PayoutPublisher) RequestPayout(ctx context.Context, walletAddress string, amount float64, rewardID string) error {
	body, err := json.Marshal(payoutMessage{
		WalletAddress: walletAddress,
		AmountUSDT:    amount,
		RewardID:      rewardID,
	})
	if err != nil {
		return fmt.Errorf("marshal payout message: %w", err)
	}

	msgBody := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &msgBody,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"reward_id": {
				DataType:    awsString("String"),
				StringValue: &rewardID,
			},
		},
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send payout message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
