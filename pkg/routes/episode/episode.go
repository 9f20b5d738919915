// Package episode exposes the standalone episode endpoints.
package episode

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

// Service is the catalog slice the episode handlers drive.
type Service interface {
	CreateEpisode(ctx context.Context, req models.CreateEpisodeRequest) (models.Episode, error)
	GetEpisode(ctx context.Context, id string) (models.Episode, error)
	ListEpisodes(ctx context.Context, seasonID string) (models.EpisodeListResponse, error)
	DeleteEpisode(ctx context.Context, id string) error
}

// Handler handles episode endpoints
type Handler struct {
	service Service
	logger  ectologger.Logger
}

// NewHandler creates a new episode handler
func NewHandler(service Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers episode routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete, middleware.RequireAdmin())
}

// List returns the episodes of the season named by the season_id query param
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "EpisodeHandler.List")
	defer span.End()

	seasonID := c.QueryParam("season_id")
	if seasonID == "" {
		return catalogerrors.BadRequest("season_id is required")
	}

	result, err := h.service.ListEpisodes(ctx, seasonID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Get returns a single episode
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "EpisodeHandler.Get")
	defer span.End()

	episode, err := h.service.GetEpisode(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, episode)
}

// Create creates an episode under an existing season
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "EpisodeHandler.Create")
	defer span.End()

	req, err := utils.BindRequest[models.CreateEpisodeRequest](c)
	if err != nil {
		return err
	}

	episode, err := h.service.CreateEpisode(ctx, req)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindEpisode, episode.ID)
	audit.AttachNewSnapshot(c, episode)

	return c.JSON(http.StatusCreated, episode)
}

// Delete removes a single episode
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "EpisodeHandler.Delete")
	defer span.End()

	id := c.Param("id")

	if err := h.service.DeleteEpisode(ctx, id); err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindEpisode, id)
	audit.AttachOldSnapshot(c, map[string]string{"id": id})

	// a body is required for the response-finished audit hook to fire
	return c.JSON(http.StatusOK, map[string]string{"id": id})
}
