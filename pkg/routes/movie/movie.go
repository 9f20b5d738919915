// Package movie exposes the flat movie endpoints. The bulk insert is
// best-effort: a partial result is a success response, not an error.
package movie

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

// Service is the catalog slice the movie handlers drive.
type Service interface {
	CreateMovie(ctx context.Context, req models.CreateMovieRequest) (models.Movie, error)
	CreateMovies(ctx context.Context, reqs []models.CreateMovieRequest) (models.BulkMovieResult, error)
	GetMovie(ctx context.Context, id string) (models.Movie, error)
	ListMovies(ctx context.Context, limit, offset int) (models.MovieListResponse, error)
	DeleteMovie(ctx context.Context, id string) error
}

// Handler handles movie endpoints
type Handler struct {
	service Service
	logger  ectologger.Logger
}

// NewHandler creates a new movie handler
func NewHandler(service Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers movie routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/bulk", h.CreateBulk)
	g.DELETE("/:id", h.Delete, middleware.RequireAdmin())
}

// List returns a page of movies
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "MovieHandler.List")
	defer span.End()

	limit, offset := pagination(c)

	result, err := h.service.ListMovies(ctx, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Get returns a single movie
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "MovieHandler.Get")
	defer span.End()

	movie, err := h.service.GetMovie(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movie)
}

// Create creates a single movie
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "MovieHandler.Create")
	defer span.End()

	req, err := utils.BindRequest[models.CreateMovieRequest](c)
	if err != nil {
		return err
	}

	movie, err := h.service.CreateMovie(ctx, req)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindMovie, movie.ID)
	audit.AttachNewSnapshot(c, movie)

	return c.JSON(http.StatusCreated, movie)
}

// CreateBulk inserts movies best-effort. All added responds created; a
// non-empty subset responds multi-status with both lists.
func (h *Handler) CreateBulk(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "MovieHandler.CreateBulk")
	defer span.End()

	req, err := utils.BindRequest[models.CreateMoviesRequest](c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateMovies(ctx, req.Items)
	if err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindMovie, "")
	audit.SetBulk(c)
	audit.AttachNewSnapshot(c, result.Added)

	status := http.StatusCreated
	if len(result.NotAdded) > 0 {
		status = http.StatusMultiStatus
	}

	return c.JSON(status, result)
}

// Delete removes a single movie
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "MovieHandler.Delete")
	defer span.End()

	id := c.Param("id")

	if err := h.service.DeleteMovie(ctx, id); err != nil {
		return err
	}

	audit.SetEntity(c, models.EntityKindMovie, id)
	audit.AttachOldSnapshot(c, map[string]string{"id": id})

	// a body is required for the response-finished audit hook to fire
	return c.JSON(http.StatusOK, map[string]string{"id": id})
}

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
