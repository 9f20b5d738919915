// Package season exposes the standalone season endpoints. Season creates
// validate the show reference in the application; the store enforces nothing.
package season

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/audit"
	catalogerrors "github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/middleware"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/Ramsey-B/dahlia/pkg/utils"
	"github.com/labstack/echo/v4"
)

// Service is the catalog slice the season handlers drive.
type Service interface {
	CreateSeason(ctx context.Context, req models.CreateSeasonRequest) (models.Season, error)
	GetSeason(ctx context.Context, id string) (models.Season, error)
	ListSeasons(ctx context.Context, showID string) (models.SeasonListResponse, error)
	DeleteSeason(ctx context.Context, id string) (models.SeasonDeleteResult, error)
}

// Handler handles season endpoints
type Handler struct {
	service Service
	logger  ectologger.Logger
}

// NewHandler creates a new season handler
func NewHandler(service Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers season routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete, middleware.RequireAdmin())
}

// List returns the seasons of the show named by the show_id query param
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "SeasonHandler.List")
	defer span.End()

	showID := c.QueryParam("show_id")
	if showID == "" {
		return catalogerrors.BadRequest("show_id is required")
	}

	result, err := h.service.ListSeasons(ctx, showID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Get returns a single season
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "SeasonHandler.Get")
	defer span.End()

	season, err := h.service.GetSeason(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, season)
}

// Create creates a season under an existing show
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "SeasonHandler.Create")
	defer span.End()

	req, err := utils.BindRequest[models.CreateSeasonRequest](c)
	if err != nil {
		return err
	}

	season, err := h.service.CreateSeason(ctx, req)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindSeason, season.ID)
	audit.AttachNewSnapshot(c, season)

	return c.JSON(http.StatusCreated, season)
}

// Delete removes a season and its episodes
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "SeasonHandler.Delete")
	defer span.End()

	id := c.Param("id")

	result, err := h.service.DeleteSeason(ctx, id)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindSeason, id)
	audit.AttachOldSnapshot(c, result)

	return c.JSON(http.StatusOK, result)
}
