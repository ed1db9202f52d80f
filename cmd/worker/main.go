package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-wardrobe-api/internal/config"
	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	p := NewProcessor(logger.Default())

	// If RUN_LOCAL=true, process a single simulated SQS message and exit.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"type":"item.deleted","item_id":"local-item-1","user_id":"local-user","occurred_at":"2024-01-15T00:00:00Z"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: testBody}},
		}
		resp, err := p.Handle(context.Background(), event)
		if err != nil || len(resp.BatchItemFailures) > 0 {
			log.Fatalf("local handler rejected the message: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
