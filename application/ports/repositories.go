package ports

import (
	"context"

	"instaideas-backend/domain/idea"
)

// IdeaRepository defines the interface for idea record persistence.
// This is a port in hexagonal architecture - the application doesn't know
// about the implementation.
type IdeaRepository interface {
	// Save writes a new record unconditionally. The ideaId has already been
	// generated; an identical id produced within the same second overwrites
	// the prior item (documented limitation).
	Save(ctx context.Context, record idea.Record) error

	// Get retrieves a record by its (userId, ideaId) primary key. Returns a
	// not-found error when the pair was never written.
	Get(ctx context.Context, userID, ideaID string) (*idea.Record, error)

	// AttachFeedback amends an existing record with the feedback
	// sub-document. The record must already exist; ingestion fields are
	// never touched.
	AttachFeedback(ctx context.Context, userID, ideaID string, feedback idea.Feedback) error
}
