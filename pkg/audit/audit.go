// Package audit holds the primitives handlers use to hand change snapshots
// to the trail recorder, plus the derivation rules that turn a finished
// request into an audit record.
package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	oldSnapshotKey = "audit:old_snapshot"
	newSnapshotKey = "audit:new_snapshot"
	entityKindKey  = "audit:entity_kind"
	entityIDKey    = "audit:entity_id"
	bulkKey        = "audit:bulk"
)

// AttachOldSnapshot records the pre-change state on the request context. The
// recorder reads it after the response has been flushed.
func AttachOldSnapshot(c echo.Context, value any) {
	c.Set(oldSnapshotKey, value)
}

// AttachNewSnapshot records the post-change state on the request context.
func AttachNewSnapshot(c echo.Context, value any) {
	c.Set(newSnapshotKey, value)
}

// SetEntity names the entity the snapshots describe. id is empty for bulk
// operations since their identity is plural.
func SetEntity(c echo.Context, kind models.EntityKind, id string) {
	c.Set(entityKindKey, kind)
	c.Set(entityIDKey, id)
}

// SetBulk marks the request as a bulk operation, which switches the title to
// its plural phrasing and clears the entity id.
func SetBulk(c echo.Context) {
	c.Set(bulkKey, true)
}

// ActionForMethod derives the audit action from the HTTP verb.
func ActionForMethod(method string) models.AuditAction {
	switch method {
	case http.MethodPost:
		return models.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return models.AuditActionUpdate
	case http.MethodDelete:
		return models.AuditActionDelete
	default:
		return models.AuditActionRead
	}
}

// Title renders the fixed phrasing for an audit record.
func Title(action models.AuditAction, kind models.EntityKind, bulk bool) string {
	switch action {
	case models.AuditActionCreate:
		if bulk {
			return fmt.Sprintf("Added multiple %ss", kind)
		}
		return fmt.Sprintf("Added a new %s", kind)
	case models.AuditActionUpdate:
		if bulk {
			return fmt.Sprintf("Updated multiple %ss", kind)
		}
		return fmt.Sprintf("Updated a %s", kind)
	case models.AuditActionDelete:
		if bulk {
			return fmt.Sprintf("Deleted multiple %ss", kind)
		}
		return fmt.Sprintf("Deleted a %s", kind)
	default:
		return fmt.Sprintf("Viewed a %s", kind)
	}
}

// BuildRecord assembles an audit record from the state a handler attached to
// the request context. ok is false when nothing was attached and nothing
// should be recorded.
func BuildRecord(c echo.Context, actorID string, retention time.Duration) (models.AuditRecord, bool) {
	oldValue := c.Get(oldSnapshotKey)
	newValue := c.Get(newSnapshotKey)
	if oldValue == nil && newValue == nil {
		return models.AuditRecord{}, false
	}

	kind, _ := c.Get(entityKindKey).(models.EntityKind)
	entityID, _ := c.Get(entityIDKey).(string)
	bulk, _ := c.Get(bulkKey).(bool)
	if bulk {
		entityID = ""
	}

	action := ActionForMethod(c.Request().Method)

	now := time.Now().UTC()
	record := models.AuditRecord{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		Title:      Title(action, kind, bulk),
		Bulk:       bulk,
		CreatedAt:  now,
		ExpiresAt:  now.Add(retention),
	}

	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			record.OldValue = b
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			record.NewValue = b
		}
	}

	return record, true
}
