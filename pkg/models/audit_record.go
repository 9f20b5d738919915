package models

import (
	"encoding/json"
	"time"
)

// AuditAction is the kind of change an audit record describes
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionRead   AuditAction = "read"
)

// EntityKind names a catalog entity type in audit records and events
type EntityKind string

const (
	EntityKindShow    EntityKind = "show"
	EntityKindSeason  EntityKind = "season"
	EntityKindEpisode EntityKind = "episode"
	EntityKindMovie   EntityKind = "movie"
)

// AuditRecord is an append-only trail entry written after the triggering
// response has already been sent. EntityID is empty for bulk operations since
// their identity is plural. Records expire after the retention window and are
// never updated.
type AuditRecord struct {
	ID         string          `json:"id" db:"id"`
	ActorID    string          `json:"actor_id" db:"actor_id"`
	Action     AuditAction     `json:"action" db:"action"`
	EntityKind EntityKind      `json:"entity_kind" db:"entity_kind"`
	EntityID   string          `json:"entity_id,omitempty" db:"entity_id"`
	Title      string          `json:"title" db:"title"`
	OldValue   json.RawMessage `json:"old_value,omitempty" db:"old_value"`
	NewValue   json.RawMessage `json:"new_value,omitempty" db:"new_value"`
	Bulk       bool            `json:"bulk" db:"bulk"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at" db:"expires_at"`
}

// AuditRecordListResponse is the API response for listing audit records
type AuditRecordListResponse struct {
	Items      []AuditRecord `json:"items"`
	TotalCount int           `json:"total_count"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}
