package services

import (
	"context"
	"time"

	"instaideas-backend/application/ports"
	"instaideas-backend/domain/events"
	"instaideas-backend/domain/idea"
	"instaideas-backend/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngestionPipeline sequences one ingestion event: retrieve the uploaded
// audio, transcribe it, extract structured fields, persist the record.
// Stages run strictly sequentially; each consumes the prior stage's output.
// There is no retry, no compensation: a failure before persistence leaves no
// trace in the record store (the uploaded audio may remain orphaned in the
// blob store).
type IngestionPipeline struct {
	blobs       ports.BlobStore
	transcriber ports.Transcriber
	extractor   ports.Extractor
	ideas       ports.IdeaRepository
	publisher   ports.EventPublisher
	metrics     *observability.Metrics
	tracer      *observability.Tracer
	bucket      string
	logger      *zap.Logger
}

// NewIngestionPipeline creates a pipeline with explicitly injected
// collaborators. Clients are shared across invocations but hold no
// per-invocation state.
func NewIngestionPipeline(
	blobs ports.BlobStore,
	transcriber ports.Transcriber,
	extractor ports.Extractor,
	ideas ports.IdeaRepository,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	bucket string,
	logger *zap.Logger,
) *IngestionPipeline {
	return &IngestionPipeline{
		blobs:       blobs,
		transcriber: transcriber,
		extractor:   extractor,
		ideas:       ideas,
		publisher:   publisher,
		metrics:     metrics,
		tracer:      tracer,
		bucket:      bucket,
		logger:      logger,
	}
}

// Ingest processes one uploaded audio object end to end and returns the
// persisted record. Extraction never fails the invocation: an unparseable
// model response persists the degraded payload instead. The audio is read
// from the configured upload bucket.
func (p *IngestionPipeline) Ingest(ctx context.Context, userID, audioKey string) (*idea.Record, error) {
	return p.IngestFrom(ctx, userID, p.bucket, audioKey)
}

// IngestFrom is Ingest with an explicit source bucket, for storage-event
// triggers that name the bucket the object landed in.
func (p *IngestionPipeline) IngestFrom(ctx context.Context, userID, bucket, audioKey string) (*idea.Record, error) {
	ingestionID := uuid.New().String()
	log := p.logger.With(
		zap.String("ingestionID", ingestionID),
		zap.String("userID", userID),
		zap.String("audioKey", audioKey),
	)
	p.tracer.AddAnnotation(ctx, "ingestion_id", ingestionID)

	log.Info("Ingestion started")

	var audio []byte
	err := p.tracer.TraceStage(ctx, "retrieve_audio", func(ctx context.Context) error {
		var err error
		audio, err = p.blobs.Retrieve(ctx, bucket, audioKey)
		return err
	})
	if err != nil {
		log.Error("Failed to retrieve audio", zap.Error(err))
		p.metrics.CountIngestion(ctx, "retrieve_failed")
		return nil, err
	}
	log.Info("Audio retrieved", zap.Int("bytes", len(audio)))

	var transcript string
	err = p.tracer.TraceStage(ctx, "transcribe", func(ctx context.Context) error {
		var err error
		transcript, err = p.transcriber.Transcribe(ctx, audio)
		return err
	})
	if err != nil {
		// Abort: no partial record is written.
		log.Error("Transcription failed", zap.Error(err))
		p.metrics.CountIngestion(ctx, "transcribe_failed")
		return nil, err
	}
	log.Info("Transcript received", zap.Int("length", len(transcript)))

	var fields idea.ExtractedFields
	err = p.tracer.TraceStage(ctx, "extract", func(ctx context.Context) error {
		var err error
		fields, err = p.extractor.Extract(ctx, transcript)
		return err
	})
	if err != nil {
		log.Error("Extraction call failed", zap.Error(err))
		p.metrics.CountIngestion(ctx, "extract_failed")
		return nil, err
	}
	if fields.IsDegraded() {
		log.Warn("Extraction output was not parseable, persisting degraded payload")
	}

	record := idea.NewRecord(userID, audioKey, transcript, fields, time.Now())
	err = p.tracer.TraceStage(ctx, "persist", func(ctx context.Context) error {
		return p.ideas.Save(ctx, record)
	})
	if err != nil {
		log.Error("Failed to persist record", zap.Error(err))
		p.metrics.CountIngestion(ctx, "persist_failed")
		return nil, err
	}

	p.publishIngested(ctx, log, record)

	outcome := "persisted"
	if fields.IsDegraded() {
		outcome = "degraded"
	}
	p.metrics.CountIngestion(ctx, outcome)

	log.Info("Ingestion completed",
		zap.String("ideaID", record.IdeaID),
		zap.Bool("degraded", fields.IsDegraded()),
	)

	return &record, nil
}

// publishIngested emits the post-persist event. Best effort: a publish
// failure is logged and never fails an already-persisted ingestion.
func (p *IngestionPipeline) publishIngested(ctx context.Context, log *zap.Logger, record idea.Record) {
	if p.publisher == nil {
		return
	}

	event := events.NewIdeaIngested(
		record.UserID,
		record.IdeaID,
		record.AudioKey,
		record.ExtractedFields.IsDegraded(),
		time.Now(),
	)
	if err := p.publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish IdeaIngested event", zap.Error(err))
	}
}
