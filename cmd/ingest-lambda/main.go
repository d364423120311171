package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"instaideas-backend/infrastructure/config"
	"instaideas-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var container *di.Container

// init runs during cold start
func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// Handler ingests every audio object named in the S3 event.
func Handler(ctx context.Context, event events.S3Event) error {
	var failed int
	for _, record := range event.Records {
		// S3 URL-encodes object keys in event notifications.
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			key = record.S3.Object.Key
		}

		userID := userIDFromKey(key, container.Config.DefaultUserID)

		container.Logger.Info("Processing uploaded audio",
			zap.String("bucket", record.S3.Bucket.Name),
			zap.String("audio_key", key),
			zap.String("user_id", userID),
		)

		if _, err := container.IngestionPipeline.IngestFrom(ctx, userID, record.S3.Bucket.Name, key); err != nil {
			container.Logger.Error("Ingestion failed",
				zap.String("audio_key", key),
				zap.Error(err),
			)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("ingestion failed for %d of %d records", failed, len(event.Records))
	}
	return nil
}

// userIDFromKey extracts the owner from keys shaped audio/{userId}/{name}.
func userIDFromKey(key, fallback string) string {
	parts := strings.Split(key, "/")
	if len(parts) >= 3 && parts[0] == "audio" && parts[1] != "" {
		return parts[1]
	}
	return fallback
}

func main() {
	lambda.Start(Handler)
}
