package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/kickbacklabs/kickback/internal/agents"
	"github.com/kickbacklabs/kickback/internal/awsx"
	"github.com/kickbacklabs/kickback/internal/catalog"
	"github.com/kickbacklabs/kickback/internal/handlers"
	"github.com/kickbacklabs/kickback/internal/links"
	"github.com/kickbacklabs/kickback/internal/networks"
	"github.com/kickbacklabs/kickback/internal/rewards"
	"github.com/kickbacklabs/kickback/internal/shortcode"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	clients, err := awsx.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	metrics := awsx.NewMetrics(clients.CloudWatch, "Kickback")
	linkStore := links.NewStore(clients.DynamoDB, os.Getenv("LINKS_TABLE"))
	rewardStore := rewards.NewStore(clients.DynamoDB, os.Getenv("REWARDS_TABLE"))
	payouts := awsx.NewPayoutPublisher(clients.SQS, os.Getenv("PAYOUT_QUEUE_URL"))

	cfg := handlers.HandlerConfig{
		Agents:     agents.NewStore(clients.DynamoDB, os.Getenv("AGENTS_TABLE")),
		Links:      linkStore,
		Rewards:    rewardStore,
		Engine:     rewards.NewEngine(linkStore, rewardStore, payouts),
		ShortCodes: shortcode.NewService(clients.DynamoDB, os.Getenv("SHORTCODES_TABLE"), linkStore, metrics),
		Catalog:    catalog.NewClient(os.Getenv("CATALOG_BASE_URL")),
		Dispatcher: networks.NewDispatcher(networks.Config{
			InvolveAsiaAPIKey:  os.Getenv("INVOLVEASIA_API_KEY"),
			InvolveAsiaBaseURL: os.Getenv("INVOLVEASIA_BASE_URL"),
			ImpactAccountSID:   os.Getenv("IMPACT_ACCOUNT_SID"),
			ImpactAuthToken:    os.Getenv("IMPACT_AUTH_TOKEN"),
			ImpactBaseURL:      os.Getenv("IMPACT_BASE_URL"),
			AwinPublisherID:    os.Getenv("AWIN_PUBLISHER_ID"),
			MediatedBaseURL:    os.Getenv("MEDIATED_BASE_URL"),
			Timeout:            8 * time.Second,
		}),
		Metrics:       metrics,
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
