package ports

import (
	"context"
	"time"

	"instaideas-backend/domain/events"
	"instaideas-backend/domain/idea"
)

// BlobStore reads raw audio bytes from the opaque byte-object store.
type BlobStore interface {
	// Retrieve fetches the object at key. Fails with a storage error if the
	// object does not exist or the read fails. No retry.
	Retrieve(ctx context.Context, bucket, key string) ([]byte, error)
}

// UploadSigner issues time-bounded direct-upload credentials so audio bytes
// travel straight to the blob store, bypassing the compute tier.
type UploadSigner interface {
	// SignPut returns a pre-authorized PUT URL scoped to exactly this key,
	// binding the declared content type, valid for expiry.
	SignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, error)
}

// Transcriber converts raw audio bytes into text via an external
// speech-to-text model.
type Transcriber interface {
	// Transcribe performs a single synchronous call. The returned text is
	// stripped of surrounding whitespace. Any transport or service failure
	// is an external error; no retry, no partial-text fallback.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Extractor turns a transcript into the structured extraction payload via a
// schema-constrained generative-text call.
type Extractor interface {
	// Extract returns either the five-field success shape or the two-field
	// degraded shape. An unparseable model response is a successful return
	// value, not an error; only a failure of the model call itself errors.
	Extract(ctx context.Context, transcript string) (idea.ExtractedFields, error)
}

// EventPublisher publishes domain events after state changes.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
