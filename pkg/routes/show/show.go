// Package show exposes the show endpoints, including the aggregate create and
// cascade delete paths.
package show

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/audit"
	"github.com/Ramsey-B/dahlia/pkg/middleware"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/Ramsey-B/dahlia/pkg/utils"
	"github.com/labstack/echo/v4"
)

// Service is the catalog slice the show handlers drive.
type Service interface {
	CreateShow(ctx context.Context, req models.CreateShowRequest) (models.ShowAggregate, error)
	CreateShows(ctx context.Context, reqs []models.CreateShowRequest) ([]models.ShowAggregate, error)
	GetShow(ctx context.Context, id string) (models.ShowAggregate, error)
	ListShows(ctx context.Context, limit, offset int) (models.ShowListResponse, error)
	DeleteShow(ctx context.Context, id string) (models.CascadeDeleteResult, error)
	DeleteShows(ctx context.Context, ids []string) (models.CascadeDeleteResult, error)
}

// Handler handles show endpoints
type Handler struct {
	service Service
	logger  ectologger.Logger
}

// NewHandler creates a new show handler
func NewHandler(service Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers show routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/bulk", h.CreateBulk)
	g.DELETE("/:id", h.Delete, middleware.RequireAdmin())
	g.DELETE("", h.DeleteBulk, middleware.RequireAdmin())
}

// List returns a page of shows
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "ShowHandler.List")
	defer span.End()

	limit, offset := pagination(c)

	result, err := h.service.ListShows(ctx, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Get returns the nested view of a single show
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "ShowHandler.Get")
	defer span.End()

	aggregate, err := h.service.GetShow(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, aggregate)
}

// Create creates a show, optionally with nested seasons and episodes
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "ShowHandler.Create")
	defer span.End()

	req, err := utils.BindRequest[models.CreateShowRequest](c)
	if err != nil {
		return err
	}

	aggregate, err := h.service.CreateShow(ctx, req)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindShow, aggregate.ID)
	audit.AttachNewSnapshot(c, aggregate)

	return c.JSON(http.StatusCreated, aggregate)
}

// CreateBulk creates multiple show aggregates batch-atomically
func (h *Handler) CreateBulk(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "ShowHandler.CreateBulk")
	defer span.End()

	req, err := utils.BindRequest[models.CreateShowsRequest](c)
	if err != nil {
		return err
	}

	aggregates, err := h.service.CreateShows(ctx, req.Items)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindShow, "")
	audit.SetBulk(c)
	audit.AttachNewSnapshot(c, aggregates)

	return c.JSON(http.StatusCreated, models.BulkShowResponse{
		Items:      aggregates,
		TotalCount: len(aggregates),
	})
}

// Delete cascades a single show and reports per-level counts
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "ShowHandler.Delete")
	defer span.End()

	id := c.Param("id")

	result, err := h.service.DeleteShow(ctx, id)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindShow, id)
	audit.AttachOldSnapshot(c, result)

	return c.JSON(http.StatusOK, result)
}

// DeleteBulk cascades every listed show in one batch-atomic unit of work
func (h *Handler) DeleteBulk(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "ShowHandler.DeleteBulk")
	defer span.End()

	req, err := utils.BindRequest[models.DeleteShowsRequest](c)
	if err != nil {
		return err
	}

	result, err := h.service.DeleteShows(ctx, req.IDs)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindShow, "")
	audit.SetBulk(c)
	audit.AttachOldSnapshot(c, result)

	return c.JSON(http.StatusOK, result)
}

// pagination reads limit/offset query params with list defaults.
func pagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
