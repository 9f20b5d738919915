package middleware

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/audit"
	appctx "github.com/Ramsey-B/dahlia/pkg/context"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/labstack/echo/v4"
)

// AuditRecorder accepts finished records for background persistence.
type AuditRecorder interface {
	Enqueue(record models.AuditRecord) bool
	Retention() time.Duration
}

// Audit registers a response hook that derives an audit record once the
// response bytes have been flushed. Recording requires a 2xx status, an
// authenticated actor, and a snapshot attached by the handler; anything else
// is silently skipped. The hook never blocks or fails the response.
func Audit(recorder AuditRecorder, logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().After(func() {
				status := c.Response().Status
				if status < 200 || status > 299 {
					return
				}

				actorID := appctx.GetUserID(c.Request().Context())
				if actorID == "" {
					return
				}

				record, ok := audit.BuildRecord(c, actorID, recorder.Retention())
				if !ok {
					return
				}

				if !recorder.Enqueue(record) {
					logger.WithContext(c.Request().Context()).WithFields(map[string]any{
						"entity_kind": record.EntityKind,
						"action":      record.Action,
					}).Warn("audit record not accepted")
				}
			})

			return next(c)
		}
	}
}
