package auditrecord

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
)

func FromAuditRecord(record models.AuditRecord) *AuditRecordRow {
	return &AuditRecordRow{
		ID:         sql.NullString{String: record.ID, Valid: record.ID != ""},
		ActorID:    sql.NullString{String: record.ActorID, Valid: record.ActorID != ""},
		Action:     sql.NullString{String: string(record.Action), Valid: record.Action != ""},
		EntityKind: sql.NullString{String: string(record.EntityKind), Valid: record.EntityKind != ""},
		EntityID:   sql.NullString{String: record.EntityID, Valid: record.EntityID != ""},
		Title:      sql.NullString{String: record.Title, Valid: record.Title != ""},
		OldValue:   database.JSONB[json.RawMessage]{Data: record.OldValue},
		NewValue:   database.JSONB[json.RawMessage]{Data: record.NewValue},
		Bulk:       sql.NullBool{Bool: record.Bulk, Valid: true},
		CreatedAt:  sql.NullTime{Time: record.CreatedAt, Valid: record.CreatedAt != time.Time{}},
		ExpiresAt:  sql.NullTime{Time: record.ExpiresAt, Valid: record.ExpiresAt != time.Time{}},
	}
}

type AuditRecordRow struct {
	ID         sql.NullString                  `db:"id"`
	ActorID    sql.NullString                  `db:"actor_id"`
	Action     sql.NullString                  `db:"action"`
	EntityKind sql.NullString                  `db:"entity_kind"`
	EntityID   sql.NullString                  `db:"entity_id"`
	Title      sql.NullString                  `db:"title"`
	OldValue   database.JSONB[json.RawMessage] `db:"old_value"`
	NewValue   database.JSONB[json.RawMessage] `db:"new_value"`
	Bulk       sql.NullBool                    `db:"bulk"`
	CreatedAt  sql.NullTime                    `db:"created_at"`
	ExpiresAt  sql.NullTime                    `db:"expires_at"`
}

const (
	auditRecordTable = "audit_records"
)

var auditRecordStruct = database.NewStruct(new(AuditRecordRow))

func ToAuditRecord(row *AuditRecordRow) models.AuditRecord {
	return models.AuditRecord{
		ID:         row.ID.String,
		ActorID:    row.ActorID.String,
		Action:     models.AuditAction(row.Action.String),
		EntityKind: models.EntityKind(row.EntityKind.String),
		EntityID:   row.EntityID.String,
		Title:      row.Title.String,
		OldValue:   row.OldValue.Data,
		NewValue:   row.NewValue.Data,
		Bulk:       row.Bulk.Bool,
		CreatedAt:  row.CreatedAt.Time,
		ExpiresAt:  row.ExpiresAt.Time,
	}
}
