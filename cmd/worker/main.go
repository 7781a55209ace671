package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/kickbacklabs/kickback/internal/awsx"
	"github.com/kickbacklabs/kickback/internal/links"
	"github.com/kickbacklabs/kickback/internal/rewards"
)

func main() {
	clients, err := awsx.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	linkStore := links.NewStore(clients.DynamoDB, os.Getenv("LINKS_TABLE"))
	rewardStore := rewards.NewStore(clients.DynamoDB, os.Getenv("REWARDS_TABLE"))
	payouts := awsx.NewPayoutPublisher(clients.SQS, os.Getenv("PAYOUT_QUEUE_URL"))

	p := NewProcessor(rewards.NewEngine(linkStore, rewardStore, payouts))

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"subId":"agent_00000000_000000000000_0","orderId":"local-order-1","status":"pending"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
