package show_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/dahlia/pkg/middleware"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/routes/show"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

type fakeService struct {
	createShowResult  models.ShowAggregate
	deleteShowResult  models.CascadeDeleteResult
	deleteShowsResult models.CascadeDeleteResult
	err               error

	deletedIDs []string
}

func (s *fakeService) CreateShow(ctx context.Context, req models.CreateShowRequest) (models.ShowAggregate, error) {
	return s.createShowResult, s.err
}

func (s *fakeService) CreateShows(ctx context.Context, reqs []models.CreateShowRequest) ([]models.ShowAggregate, error) {
	return []models.ShowAggregate{s.createShowResult}, s.err
}

func (s *fakeService) GetShow(ctx context.Context, id string) (models.ShowAggregate, error) {
	return s.createShowResult, s.err
}

func (s *fakeService) ListShows(ctx context.Context, limit, offset int) (models.ShowListResponse, error) {
	return models.ShowListResponse{Items: []models.Show{s.createShowResult.Show}, TotalCount: 1, Limit: limit, Offset: offset}, s.err
}

func (s *fakeService) DeleteShow(ctx context.Context, id string) (models.CascadeDeleteResult, error) {
	s.deletedIDs = append(s.deletedIDs, id)
	return s.deleteShowResult, s.err
}

func (s *fakeService) DeleteShows(ctx context.Context, ids []string) (models.CascadeDeleteResult, error) {
	s.deletedIDs = append(s.deletedIDs, ids...)
	return s.deleteShowsResult, s.err
}

func newServer(service *fakeService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(getTestLogger())
	e.Use(middleware.TestAuth())
	show.NewHandler(service, getTestLogger()).Register(e.Group("/api/v1/shows"))
	return e
}

func TestCreateShowHandler(t *testing.T) {
	service := &fakeService{
		createShowResult: models.ShowAggregate{
			Show:    models.Show{ID: uuid.New().String(), Title: "S1"},
			Seasons: []models.SeasonAggregate{},
		},
	}
	e := newServer(service)

	body := `{"title": "S1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shows", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.ShowAggregate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "S1", got.Title)
}

func TestCreateShowHandlerRejectsMissingTitle(t *testing.T) {
	e := newServer(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shows", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteShowHandlerRequiresAdmin(t *testing.T) {
	service := &fakeService{}
	e := newServer(service)

	id := uuid.New().String()

	// no actor at all
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/shows/"+id, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// authenticated but not admin
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/shows/"+id, nil)
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("X-User-Role", "viewer")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Empty(t, service.deletedIDs)
}

func TestDeleteShowHandlerReturnsCounts(t *testing.T) {
	service := &fakeService{
		deleteShowResult: models.CascadeDeleteResult{ShowsDeleted: 1, SeasonsDeleted: 2, EpisodesDeleted: 5},
	}
	e := newServer(service)

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/shows/"+id, nil)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", middleware.RoleAdmin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.CascadeDeleteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ShowsDeleted)
	assert.Equal(t, 2, got.SeasonsDeleted)
	assert.Equal(t, 5, got.EpisodesDeleted)
	assert.Equal(t, []string{id}, service.deletedIDs)
}

func TestDeleteShowsHandlerValidatesIDs(t *testing.T) {
	service := &fakeService{}
	e := newServer(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/shows", strings.NewReader(`{"ids": []}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", middleware.RoleAdmin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.deletedIDs)
}

func TestDeleteShowsHandlerBatch(t *testing.T) {
	service := &fakeService{
		deleteShowsResult: models.CascadeDeleteResult{ShowsDeleted: 2, SeasonsDeleted: 3, EpisodesDeleted: 7},
	}
	e := newServer(service)

	idA := uuid.New().String()
	idB := uuid.New().String()
	body := `{"ids": ["` + idA + `", "` + idB + `"]}`

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/shows", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", middleware.RoleAdmin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{idA, idB}, service.deletedIDs)
}
