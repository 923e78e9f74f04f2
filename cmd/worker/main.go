package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wnzid/posterscoop-backend/internal/aws"
	"github.com/wnzid/posterscoop-backend/internal/db"
	"github.com/wnzid/posterscoop-backend/internal/performance"
)

func main() {
	ctx := context.Background()

	gdb, err := db.Open(db.FromEnv())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	clients, err := aws.NewAWSClients(ctx, aws.FromEnv())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	processor := NewProcessor(performance.NewStore(gdb), clients.CloudWatch)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"design_id":1,"event":"view"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{Body: body}},
		}
		if err := processor.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(processor.Handle)
}
