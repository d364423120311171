package idea

import (
	"time"
)

// IdeaIDPrefix is prepended to the ingestion timestamp to form the record's
// sort key.
const IdeaIDPrefix = "idea#"

// ProposalMarker tags extracted field values the model fabricated instead of
// drawing from the transcript.
const ProposalMarker = "(generated proposal)"

// MaxCommentLength bounds feedback comments.
const MaxCommentLength = 280

// ExtractedFields is the structured sub-document produced by the extraction
// stage. It is deliberately free-shape: on success it carries the five string
// members (title, description, problem, solution, extraContext); when the
// model output could not be parsed it carries the two-field degraded payload
// instead. Callers must treat both shapes as valid extraction outcomes, and
// must tolerate missing or extra keys when the model deviates.
type ExtractedFields map[string]interface{}

// FieldKeys are the five members of the success shape.
var FieldKeys = []string{"title", "description", "problem", "solution", "extraContext"}

// Degraded builds the payload recorded when the model's output is not valid
// JSON. This is a successful extraction result, not an error: ingestion
// completes with the raw text preserved for later manual recovery.
func Degraded(raw string) ExtractedFields {
	return ExtractedFields{
		"error": "invalid JSON",
		"raw":   raw,
	}
}

// IsDegraded reports whether the fields carry the degraded payload rather
// than the five-member success shape.
func (f ExtractedFields) IsDegraded() bool {
	_, ok := f["error"]
	return ok
}

// Feedback is the sub-document attached by the amendment path. It never
// overwrites ingestion fields.
type Feedback struct {
	Helped     bool   `json:"helped" dynamodbav:"helped"`
	Comment    string `json:"comment" dynamodbav:"comment"`
	FeedbackAt string `json:"feedbackAt" dynamodbav:"feedbackAt"`
}

// Record is the persisted representation of one voice-memo ingestion.
// Exactly one record exists per (userId, ideaId) pair; ideaId is generated
// once at persistence time and never recomputed.
type Record struct {
	UserID          string          `json:"userId" dynamodbav:"userId"`
	IdeaID          string          `json:"ideaId" dynamodbav:"ideaId"`
	AudioKey        string          `json:"audioKey" dynamodbav:"audioKey"`
	Transcript      string          `json:"transcript" dynamodbav:"transcript"`
	ExtractedFields ExtractedFields `json:"extractedFields" dynamodbav:"extractedFields"`
	CreatedAt       string          `json:"createdAt" dynamodbav:"createdAt"`
	Feedback        *Feedback       `json:"feedback,omitempty" dynamodbav:"feedback,omitempty"`
}

// NewRecord assembles a record at persistence time. The ideaId is derived
// from the current UTC time at second resolution; two ingestions for the
// same user within the same second collide (documented limitation).
func NewRecord(userID, audioKey, transcript string, fields ExtractedFields, now time.Time) Record {
	ts := now.UTC().Truncate(time.Second).Format(time.RFC3339)
	return Record{
		UserID:          userID,
		IdeaID:          IdeaIDPrefix + ts,
		AudioKey:        audioKey,
		Transcript:      transcript,
		ExtractedFields: fields,
		CreatedAt:       ts,
	}
}
