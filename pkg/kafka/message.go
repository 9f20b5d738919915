package kafka

import (
	"encoding/json"
	"time"
)

// CatalogEvent is the wire shape for catalog lifecycle events
type CatalogEvent struct {
	EventType  string          `json:"event_type"`
	EntityKind string          `json:"entity_kind"`
	EntityID   string          `json:"entity_id"`
	ActorID    string          `json:"actor_id,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	TraceID    string          `json:"trace_id,omitempty"`
	SpanID     string          `json:"span_id,omitempty"`
}

// ToJSON serializes the event
func (e *CatalogEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Key returns the partition key for the event. Events for the same entity
// land on the same partition so consumers see them in order.
func (e *CatalogEvent) Key() string {
	return e.EntityKind + ":" + e.EntityID
}
