package events

import (
	"time"
)

// SourceBackend identifies this service on the event bus.
const SourceBackend = "instaideas.backend"

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// IdeaIngested is raised after an ingestion pipeline run persists a record.
type IdeaIngested struct {
	BaseEvent
	UserID   string `json:"user_id"`
	IdeaID   string `json:"idea_id"`
	AudioKey string `json:"audio_key"`
	Degraded bool   `json:"degraded"`
}

// NewIdeaIngested creates an IdeaIngested event
func NewIdeaIngested(userID, ideaID, audioKey string, degraded bool, timestamp time.Time) IdeaIngested {
	return IdeaIngested{
		BaseEvent: BaseEvent{
			AggregateID: ideaID,
			EventType:   "idea.ingested",
			Timestamp:   timestamp,
		},
		UserID:   userID,
		IdeaID:   ideaID,
		AudioKey: audioKey,
		Degraded: degraded,
	}
}
