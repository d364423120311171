//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"instaideas-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideS3Client,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideBlobStore,
	ProvideIdeaRepository,
	ProvideEventPublisher,
	ProvideOpenAIClient,
	ProvideTranscriber,
	ProvideExtractor,
	ProvideMetrics,
	ProvideTracer,
	ProvideUploadAllocator,
	ProvideIngestionPipeline,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
