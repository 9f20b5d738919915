package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/dahlia/pkg/audit"
	appctx "github.com/Ramsey-B/dahlia/pkg/context"
	"github.com/Ramsey-B/dahlia/pkg/middleware"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

type captureRecorder struct {
	records []models.AuditRecord
	accept  bool
}

func (r *captureRecorder) Enqueue(record models.AuditRecord) bool {
	if !r.accept {
		return false
	}
	r.records = append(r.records, record)
	return true
}

func (r *captureRecorder) Retention() time.Duration {
	return time.Hour
}

// runRequest sends one request through the audit middleware into handler,
// with userID set on the request context when non-empty.
func runRequest(t *testing.T, recorder *captureRecorder, userID string, method string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/api/v1/shows", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if userID != "" {
		ctx := appctx.SetUserID(req.Context(), userID)
		c.SetRequest(req.WithContext(ctx))
	}

	mw := middleware.Audit(recorder, getTestLogger())
	err := mw(handler)(c)
	require.NoError(t, err)

	// echo runs the After hooks when the response is written; the handlers
	// here always write one

	return rec
}

func TestAuditRecordsSuccessfulMutation(t *testing.T) {
	recorder := &captureRecorder{accept: true}

	runRequest(t, recorder, "user-1", http.MethodPost, func(c echo.Context) error {
		audit.SetEntity(c, models.EntityKindShow, "show-1")
		audit.AttachNewSnapshot(c, map[string]string{"title": "S1"})
		return c.JSON(http.StatusCreated, map[string]string{"id": "show-1"})
	})

	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, "user-1", record.ActorID)
	assert.Equal(t, models.AuditActionCreate, record.Action)
	assert.Equal(t, models.EntityKindShow, record.EntityKind)
	assert.Equal(t, "show-1", record.EntityID)
	assert.Equal(t, "Added a new show", record.Title)
}

func TestAuditSkipsFailedResponse(t *testing.T) {
	recorder := &captureRecorder{accept: true}

	runRequest(t, recorder, "user-1", http.MethodPost, func(c echo.Context) error {
		audit.SetEntity(c, models.EntityKindShow, "show-1")
		audit.AttachNewSnapshot(c, map[string]string{"title": "S1"})
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "boom"})
	})

	assert.Empty(t, recorder.records)
}

func TestAuditSkipsAnonymousRequest(t *testing.T) {
	recorder := &captureRecorder{accept: true}

	runRequest(t, recorder, "", http.MethodPost, func(c echo.Context) error {
		audit.SetEntity(c, models.EntityKindShow, "show-1")
		audit.AttachNewSnapshot(c, map[string]string{"title": "S1"})
		return c.JSON(http.StatusCreated, map[string]string{"id": "show-1"})
	})

	assert.Empty(t, recorder.records)
}

func TestAuditSkipsWithoutSnapshot(t *testing.T) {
	recorder := &captureRecorder{accept: true}

	runRequest(t, recorder, "user-1", http.MethodGet, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": "show-1"})
	})

	assert.Empty(t, recorder.records)
}

func TestAuditDeleteAction(t *testing.T) {
	recorder := &captureRecorder{accept: true}

	runRequest(t, recorder, "user-1", http.MethodDelete, func(c echo.Context) error {
		audit.SetEntity(c, models.EntityKindMovie, "movie-1")
		audit.AttachOldSnapshot(c, map[string]string{"id": "movie-1"})
		return c.JSON(http.StatusOK, map[string]string{"id": "movie-1"})
	})

	require.Len(t, recorder.records, 1)
	assert.Equal(t, models.AuditActionDelete, recorder.records[0].Action)
	assert.Equal(t, "Deleted a movie", recorder.records[0].Title)
}

func TestAuditRejectedEnqueueDoesNotFailResponse(t *testing.T) {
	recorder := &captureRecorder{accept: false}

	rec := runRequest(t, recorder, "user-1", http.MethodPost, func(c echo.Context) error {
		audit.SetEntity(c, models.EntityKindShow, "show-1")
		audit.AttachNewSnapshot(c, map[string]string{"title": "S1"})
		return c.JSON(http.StatusCreated, map[string]string{"id": "show-1"})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, recorder.records)
}
