package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"instaideas-backend/application/ports"
	"instaideas-backend/application/services"
	"instaideas-backend/infrastructure/config"
	"instaideas-backend/infrastructure/messaging/eventbridge"
	"instaideas-backend/infrastructure/openai"
	"instaideas-backend/infrastructure/persistence/dynamodb"
	s3store "instaideas-backend/infrastructure/storage/s3"
	apperrors "instaideas-backend/pkg/errors"
	"instaideas-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Container holds all application dependencies. Shared clients are
// constructed once at process start and reused across invocations.
type Container struct {
	Config            *config.Config
	Logger            *zap.Logger
	IdeaRepository    ports.IdeaRepository
	UploadAllocator   *services.UploadAllocator
	IngestionPipeline *services.IngestionPipeline
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, apperrors.Wrap(err, "load AWS config")
	}
	return awsCfg, nil
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideBlobStore creates the S3-backed blob store. It serves both audio
// retrieval and presigned upload signing.
func ProvideBlobStore(client *awss3.Client, logger *zap.Logger) *s3store.BlobStore {
	return s3store.NewBlobStore(client, logger)
}

// ProvideIdeaRepository creates the idea record repository
func ProvideIdeaRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.IdeaRepository {
	return dynamodb.NewIdeaRepository(client, cfg.IdeasTable, logger)
}

// ProvideEventPublisher creates the post-persist event publisher. Returns
// nil when no event bus is configured; the pipeline treats that as
// publication disabled.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideOpenAIClient creates the shared model API client
func ProvideOpenAIClient(cfg *config.Config) *openai.Client {
	httpClient := &http.Client{Timeout: 120 * time.Second}
	return openai.NewClient(httpClient, cfg.OpenAIAPIURL, cfg.OpenAIAPIKey)
}

// ProvideTranscriber creates the speech-to-text adapter
func ProvideTranscriber(client *openai.Client, cfg *config.Config, logger *zap.Logger) ports.Transcriber {
	return openai.NewTranscriber(client, cfg.TranscribeModel, logger)
}

// ProvideExtractor creates the structured-extraction adapter
func ProvideExtractor(client *openai.Client, cfg *config.Config, logger *zap.Logger) ports.Extractor {
	return openai.NewExtractor(client, cfg.ExtractModel, cfg.ExtractMaxTokens, logger)
}

// ProvideMetrics creates the pipeline metrics recorder
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("InstaIdeas/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, cfg.EnableMetrics, logger)
}

// ProvideTracer creates the stage tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("instaideas", cfg.EnableTracing)
}

// ProvideUploadAllocator creates the upload key allocator
func ProvideUploadAllocator(blobs *s3store.BlobStore, cfg *config.Config, logger *zap.Logger) *services.UploadAllocator {
	return services.NewUploadAllocator(blobs, cfg.UploadBucket, logger)
}

// ProvideIngestionPipeline creates the ingestion pipeline
func ProvideIngestionPipeline(
	blobs *s3store.BlobStore,
	transcriber ports.Transcriber,
	extractor ports.Extractor,
	ideas ports.IdeaRepository,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	cfg *config.Config,
	logger *zap.Logger,
) *services.IngestionPipeline {
	return services.NewIngestionPipeline(
		blobs,
		transcriber,
		extractor,
		ideas,
		publisher,
		metrics,
		tracer,
		cfg.UploadBucket,
		logger,
	)
}
