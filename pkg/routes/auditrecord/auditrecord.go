// Package auditrecord exposes the read-only audit trail listing.
package auditrecord

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/middleware"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// Repository is the audit store slice the listing needs.
type Repository interface {
	ListAuditRecords(ctx context.Context, limit, offset int) ([]models.AuditRecord, int, error)
}

// Handler handles audit record endpoints
type Handler struct {
	repo   Repository
	logger ectologger.Logger
}

// NewHandler creates a new audit record handler
func NewHandler(repo Repository, logger ectologger.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Register registers audit record routes. The trail is admin-only.
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List, middleware.RequireAdmin())
}

// List returns recent audit records, newest first
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "AuditRecordHandler.List")
	defer span.End()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := h.repo.ListAuditRecords(ctx, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.AuditRecordListResponse{
		Items:      records,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	})
}
