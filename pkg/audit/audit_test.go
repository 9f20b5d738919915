package audit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/audit"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/api/v1/shows", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestActionForMethod(t *testing.T) {
	tests := []struct {
		method string
		want   models.AuditAction
	}{
		{http.MethodPost, models.AuditActionCreate},
		{http.MethodPut, models.AuditActionUpdate},
		{http.MethodPatch, models.AuditActionUpdate},
		{http.MethodDelete, models.AuditActionDelete},
		{http.MethodGet, models.AuditActionRead},
		{http.MethodHead, models.AuditActionRead},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, audit.ActionForMethod(tt.method))
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		action models.AuditAction
		kind   models.EntityKind
		bulk   bool
		want   string
	}{
		{"create singular", models.AuditActionCreate, models.EntityKindShow, false, "Added a new show"},
		{"create bulk", models.AuditActionCreate, models.EntityKindShow, true, "Added multiple shows"},
		{"update singular", models.AuditActionUpdate, models.EntityKindMovie, false, "Updated a movie"},
		{"delete singular", models.AuditActionDelete, models.EntityKindSeason, false, "Deleted a season"},
		{"delete bulk", models.AuditActionDelete, models.EntityKindShow, true, "Deleted multiple shows"},
		{"read", models.AuditActionRead, models.EntityKindEpisode, false, "Viewed a episode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, audit.Title(tt.action, tt.kind, tt.bulk))
		})
	}
}

func TestBuildRecordWithoutSnapshot(t *testing.T) {
	c := newContext(http.MethodPost)

	_, ok := audit.BuildRecord(c, "user-1", time.Hour)
	assert.False(t, ok)
}

func TestBuildRecordSingular(t *testing.T) {
	c := newContext(http.MethodPost)

	audit.SetEntity(c, models.EntityKindShow, "show-1")
	audit.AttachNewSnapshot(c, map[string]string{"title": "S1"})

	record, ok := audit.BuildRecord(c, "user-1", time.Hour)
	require.True(t, ok)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "user-1", record.ActorID)
	assert.Equal(t, models.AuditActionCreate, record.Action)
	assert.Equal(t, models.EntityKindShow, record.EntityKind)
	assert.Equal(t, "show-1", record.EntityID)
	assert.Equal(t, "Added a new show", record.Title)
	assert.False(t, record.Bulk)
	assert.Nil(t, record.OldValue)

	var newValue map[string]string
	require.NoError(t, json.Unmarshal(record.NewValue, &newValue))
	assert.Equal(t, "S1", newValue["title"])

	assert.Equal(t, record.CreatedAt.Add(time.Hour), record.ExpiresAt)
}

func TestBuildRecordBulkClearsEntityID(t *testing.T) {
	c := newContext(http.MethodDelete)

	audit.SetEntity(c, models.EntityKindShow, "show-1")
	audit.SetBulk(c)
	audit.AttachOldSnapshot(c, []string{"show-1", "show-2"})

	record, ok := audit.BuildRecord(c, "user-1", time.Hour)
	require.True(t, ok)

	assert.True(t, record.Bulk)
	assert.Empty(t, record.EntityID)
	assert.Equal(t, "Deleted multiple shows", record.Title)
	assert.NotNil(t, record.OldValue)
	assert.Nil(t, record.NewValue)
}
