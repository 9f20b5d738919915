package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/dahlia/internal/services/catalog"
	"github.com/Ramsey-B/dahlia/pkg/database"
	catalogerrors "github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// fakeStore is an in-memory stand-in for the catalog tables.
type fakeStore struct {
	shows    map[string]models.Show
	seasons  map[string]models.Season
	episodes map[string]models.Episode
	movies   map[string]models.Movie
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shows:    make(map[string]models.Show),
		seasons:  make(map[string]models.Season),
		episodes: make(map[string]models.Episode),
		movies:   make(map[string]models.Movie),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *fakeStore) snapshot() *fakeStore {
	return &fakeStore{
		shows:    copyMap(s.shows),
		seasons:  copyMap(s.seasons),
		episodes: copyMap(s.episodes),
		movies:   copyMap(s.movies),
	}
}

func (s *fakeStore) restore(from *fakeStore) {
	s.shows = from.shows
	s.seasons = from.seasons
	s.episodes = from.episodes
	s.movies = from.movies
}

// fakeTx restores the store snapshot on rollback, so the tests exercise the
// same all-or-nothing visibility the real unit of work provides.
type fakeTx struct {
	database.Tx
	store    *fakeStore
	snapshot *fakeStore
	closed   bool
}

func (t *fakeTx) IsOpen() bool { return !t.closed }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.closed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}
	t.store.restore(t.snapshot)
	t.closed = true
	return nil
}

type fakeDB struct {
	store *fakeStore
}

func (db *fakeDB) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error) {
	return ctx, &fakeTx{store: db.store, snapshot: db.store.snapshot()}, nil
}

type fakeShowRepo struct {
	store     *fakeStore
	failTitle string
}

func (r *fakeShowRepo) Insert(ctx context.Context, show models.Show) error {
	if r.failTitle != "" && show.Title == r.failTitle {
		return errors.New("insert failed")
	}
	r.store.shows[show.ID] = show
	return nil
}

func (r *fakeShowRepo) GetShow(ctx context.Context, id string) (models.Show, error) {
	show, ok := r.store.shows[id]
	if !ok {
		return models.Show{}, catalogerrors.NotFound("show '%s' not found", id)
	}
	return show, nil
}

func (r *fakeShowRepo) ListShows(ctx context.Context, limit, offset int) ([]models.Show, int, error) {
	shows := make([]models.Show, 0, len(r.store.shows))
	for _, show := range r.store.shows {
		shows = append(shows, show)
	}
	return shows, len(shows), nil
}

func (r *fakeShowRepo) DeleteShow(ctx context.Context, id string) (int, error) {
	if _, ok := r.store.shows[id]; !ok {
		return 0, nil
	}
	delete(r.store.shows, id)
	return 1, nil
}

func (r *fakeShowRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.store.shows[id]
	return ok, nil
}

type fakeSeasonRepo struct {
	store     *fakeStore
	failTitle string
}

func (r *fakeSeasonRepo) Insert(ctx context.Context, season models.Season) error {
	if r.failTitle != "" && season.Title == r.failTitle {
		return errors.New("insert failed")
	}
	r.store.seasons[season.ID] = season
	return nil
}

func (r *fakeSeasonRepo) GetSeason(ctx context.Context, id string) (models.Season, error) {
	season, ok := r.store.seasons[id]
	if !ok {
		return models.Season{}, catalogerrors.NotFound("season '%s' not found", id)
	}
	return season, nil
}

func (r *fakeSeasonRepo) ListSeasonsByShow(ctx context.Context, showID string) ([]models.Season, error) {
	seasons := make([]models.Season, 0)
	for _, season := range r.store.seasons {
		if season.ShowID == showID {
			seasons = append(seasons, season)
		}
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].SequenceNumber < seasons[j].SequenceNumber })
	return seasons, nil
}

func (r *fakeSeasonRepo) DeleteSeason(ctx context.Context, id string) (int, error) {
	if _, ok := r.store.seasons[id]; !ok {
		return 0, nil
	}
	delete(r.store.seasons, id)
	return 1, nil
}

func (r *fakeSeasonRepo) DeleteSeasonsByShow(ctx context.Context, showID string) (int, error) {
	count := 0
	for id, season := range r.store.seasons {
		if season.ShowID == showID {
			delete(r.store.seasons, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeSeasonRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.store.seasons[id]
	return ok, nil
}

type fakeEpisodeRepo struct {
	store     *fakeStore
	failTitle string
}

func (r *fakeEpisodeRepo) Insert(ctx context.Context, episode models.Episode) error {
	if r.failTitle != "" && episode.Title == r.failTitle {
		return errors.New("insert failed")
	}
	r.store.episodes[episode.ID] = episode
	return nil
}

func (r *fakeEpisodeRepo) GetEpisode(ctx context.Context, id string) (models.Episode, error) {
	episode, ok := r.store.episodes[id]
	if !ok {
		return models.Episode{}, catalogerrors.NotFound("episode '%s' not found", id)
	}
	return episode, nil
}

func (r *fakeEpisodeRepo) ListEpisodesBySeason(ctx context.Context, seasonID string) ([]models.Episode, error) {
	episodes := make([]models.Episode, 0)
	for _, episode := range r.store.episodes {
		if episode.SeasonID == seasonID {
			episodes = append(episodes, episode)
		}
	}
	sort.Slice(episodes, func(i, j int) bool { return episodes[i].SequenceNumber < episodes[j].SequenceNumber })
	return episodes, nil
}

func (r *fakeEpisodeRepo) DeleteEpisode(ctx context.Context, id string) (int, error) {
	if _, ok := r.store.episodes[id]; !ok {
		return 0, nil
	}
	delete(r.store.episodes, id)
	return 1, nil
}

func (r *fakeEpisodeRepo) DeleteEpisodesBySeason(ctx context.Context, seasonID string) (int, error) {
	count := 0
	for id, episode := range r.store.episodes {
		if episode.SeasonID == seasonID {
			delete(r.store.episodes, id)
			count++
		}
	}
	return count, nil
}

type fakeMovieRepo struct {
	store *fakeStore
}

func (r *fakeMovieRepo) Insert(ctx context.Context, movie models.Movie) error {
	for _, existing := range r.store.movies {
		if existing.Title == movie.Title {
			return catalogerrors.Conflict("movie '%s' already exists", movie.Title)
		}
	}
	r.store.movies[movie.ID] = movie
	return nil
}

func (r *fakeMovieRepo) GetMovie(ctx context.Context, id string) (models.Movie, error) {
	movie, ok := r.store.movies[id]
	if !ok {
		return models.Movie{}, catalogerrors.NotFound("movie '%s' not found", id)
	}
	return movie, nil
}

func (r *fakeMovieRepo) ListMovies(ctx context.Context, limit, offset int) ([]models.Movie, int, error) {
	movies := make([]models.Movie, 0, len(r.store.movies))
	for _, movie := range r.store.movies {
		movies = append(movies, movie)
	}
	return movies, len(movies), nil
}

func (r *fakeMovieRepo) DeleteMovie(ctx context.Context, id string) (int, error) {
	if _, ok := r.store.movies[id]; !ok {
		return 0, nil
	}
	delete(r.store.movies, id)
	return 1, nil
}

type testEnv struct {
	service  *catalog.Service
	store    *fakeStore
	shows    *fakeShowRepo
	seasons  *fakeSeasonRepo
	episodes *fakeEpisodeRepo
	movies   *fakeMovieRepo
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	shows := &fakeShowRepo{store: store}
	seasons := &fakeSeasonRepo{store: store}
	episodes := &fakeEpisodeRepo{store: store}
	movies := &fakeMovieRepo{store: store}

	service := catalog.NewService(&fakeDB{store: store}, shows, seasons, episodes, movies, nil, getTestLogger())

	return &testEnv{
		service:  service,
		store:    store,
		shows:    shows,
		seasons:  seasons,
		episodes: episodes,
		movies:   movies,
	}
}

func seedShow(env *testEnv, title string, seasonCount, episodesPerSeason int) models.Show {
	show := models.Show{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	env.store.shows[show.ID] = show

	for i := 1; i <= seasonCount; i++ {
		season := models.Season{
			ID:             uuid.New().String(),
			ShowID:         show.ID,
			Title:          fmt.Sprintf("%s Season %d", title, i),
			SequenceNumber: i,
		}
		env.store.seasons[season.ID] = season

		for j := 1; j <= episodesPerSeason; j++ {
			episode := models.Episode{
				ID:             uuid.New().String(),
				SeasonID:       season.ID,
				Title:          fmt.Sprintf("%s S%dE%d", title, i, j),
				SequenceNumber: j,
			}
			env.store.episodes[episode.ID] = episode
		}
	}

	return show
}

func TestCreateShow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	aggregate, err := env.service.CreateShow(ctx, models.CreateShowRequest{
		Title: "S1",
		Seasons: []models.CreateNestedSeasonRequest{
			{
				Title:          "Season 1",
				SequenceNumber: 1,
				Episodes: []models.CreateNestedEpisodeRequest{
					{Title: "E1", SequenceNumber: 1},
					{Title: "E2", SequenceNumber: 2},
				},
			},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, aggregate.ID)
	require.Len(t, aggregate.Seasons, 1)
	assert.Len(t, aggregate.Seasons[0].Episodes, 2)
	assert.Equal(t, aggregate.ID, aggregate.Seasons[0].ShowID)
	assert.Equal(t, aggregate.Seasons[0].Season.ID, aggregate.Seasons[0].Episodes[0].SeasonID)

	assert.Len(t, env.store.shows, 1)
	assert.Len(t, env.store.seasons, 1)
	assert.Len(t, env.store.episodes, 2)
}

func TestCreateShowAbortsWholeAggregate(t *testing.T) {
	env := newTestEnv()
	env.episodes.failTitle = "E2"
	ctx := context.Background()

	_, err := env.service.CreateShow(ctx, models.CreateShowRequest{
		Title: "Broken",
		Seasons: []models.CreateNestedSeasonRequest{
			{
				Title:          "Season 1",
				SequenceNumber: 1,
				Episodes: []models.CreateNestedEpisodeRequest{
					{Title: "E1", SequenceNumber: 1},
					{Title: "E2", SequenceNumber: 2},
				},
			},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E2")

	// the failing episode rolled back the show, the season, and E1
	assert.Empty(t, env.store.shows)
	assert.Empty(t, env.store.seasons)
	assert.Empty(t, env.store.episodes)
}

func TestCreateSeasonShowNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.service.CreateSeason(ctx, models.CreateSeasonRequest{
		ShowID:         uuid.New().String(),
		Title:          "Orphan Season",
		SequenceNumber: 1,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	assert.Empty(t, env.store.seasons)
}

func TestCreateEpisodeSeasonNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.service.CreateEpisode(ctx, models.CreateEpisodeRequest{
		SeasonID:       uuid.New().String(),
		Title:          "Orphan Episode",
		SequenceNumber: 1,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestDeleteShowCounts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	show := seedShow(env, "Counted", 2, 3)
	seedShow(env, "Untouched", 1, 1)

	result, err := env.service.DeleteShow(ctx, show.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ShowsDeleted)
	assert.Equal(t, 2, result.SeasonsDeleted)
	assert.Equal(t, 6, result.EpisodesDeleted)

	_, err = env.service.GetShow(ctx, show.ID)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))

	// the other show is untouched
	assert.Len(t, env.store.shows, 1)
	assert.Len(t, env.store.seasons, 1)
	assert.Len(t, env.store.episodes, 1)
}

func TestDeleteShowTwice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	show := seedShow(env, "Once", 1, 2)

	_, err := env.service.DeleteShow(ctx, show.ID)
	require.NoError(t, err)

	_, err = env.service.DeleteShow(ctx, show.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestDeleteShowRollsBackChildrenOnMissingShow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// children exist but the show row itself does not
	show := seedShow(env, "Ghost", 1, 2)
	delete(env.store.shows, show.ID)

	_, err := env.service.DeleteShow(ctx, show.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))

	// children deleted before the existence check reappear on rollback
	assert.Len(t, env.store.seasons, 1)
	assert.Len(t, env.store.episodes, 2)
}

func TestDeleteShowsBatchAtomic(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	showA := seedShow(env, "A", 1, 2)
	showC := seedShow(env, "C", 2, 1)
	missing := uuid.New().String()

	_, err := env.service.DeleteShows(ctx, []string{showA.ID, missing, showC.ID})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))

	// A's cascade ran before the missing id failed; the batch rollback
	// restored it
	assert.Len(t, env.store.shows, 2)
	assert.Len(t, env.store.seasons, 3)
	assert.Len(t, env.store.episodes, 4)
}

func TestDeleteShowsAccumulatesCounts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	showA := seedShow(env, "A", 1, 2)
	showB := seedShow(env, "B", 2, 3)

	result, err := env.service.DeleteShows(ctx, []string{showA.ID, showB.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, result.ShowsDeleted)
	assert.Equal(t, 3, result.SeasonsDeleted)
	assert.Equal(t, 8, result.EpisodesDeleted)
	assert.Empty(t, env.store.shows)
}

func TestCreateSeasonAfterCascadeFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	aggregate, err := env.service.CreateShow(ctx, models.CreateShowRequest{
		Title: "S1",
		Seasons: []models.CreateNestedSeasonRequest{
			{
				Title:          "Season 1",
				SequenceNumber: 1,
				Episodes: []models.CreateNestedEpisodeRequest{
					{Title: "E1", SequenceNumber: 1},
					{Title: "E2", SequenceNumber: 2},
				},
			},
		},
	})
	require.NoError(t, err)

	result, err := env.service.DeleteShow(ctx, aggregate.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CascadeDeleteResult{ShowsDeleted: 1, SeasonsDeleted: 1, EpisodesDeleted: 2}, result)

	_, err = env.service.CreateSeason(ctx, models.CreateSeasonRequest{
		ShowID:         aggregate.ID,
		Title:          "Season 2",
		SequenceNumber: 2,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestDeleteSeason(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	show := seedShow(env, "Trimmed", 2, 2)
	seasons, err := env.service.ListSeasons(ctx, show.ID)
	require.NoError(t, err)
	require.Len(t, seasons.Items, 2)

	result, err := env.service.DeleteSeason(ctx, seasons.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SeasonsDeleted)
	assert.Equal(t, 2, result.EpisodesDeleted)

	assert.Len(t, env.store.seasons, 1)
	assert.Len(t, env.store.episodes, 2)
}

func TestDeleteSeasonNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.service.DeleteSeason(ctx, uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestCreateShowsBatchAtomicAbort(t *testing.T) {
	env := newTestEnv()
	env.shows.failTitle = "Bad"
	ctx := context.Background()

	_, err := env.service.CreateShows(ctx, []models.CreateShowRequest{
		{Title: "Good"},
		{Title: "Bad"},
		{Title: "Also Good"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")

	// first failure aborts every item
	assert.Empty(t, env.store.shows)
}

func TestCreateShowsCommitsAll(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	aggregates, err := env.service.CreateShows(ctx, []models.CreateShowRequest{
		{Title: "One"},
		{Title: "Two"},
	})
	require.NoError(t, err)
	assert.Len(t, aggregates, 2)
	assert.Len(t, env.store.shows, 2)
}

func TestCreateMoviesPartialSuccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.service.CreateMovie(ctx, models.CreateMovieRequest{Title: "Movie 3"})
	require.NoError(t, err)

	reqs := []models.CreateMovieRequest{
		{Title: "Movie 1"},
		{Title: "Movie 2"},
		{Title: "Movie 3"}, // uniqueness conflict
		{Title: "Movie 4"},
		{Title: "Movie 5"},
	}

	result, err := env.service.CreateMovies(ctx, reqs)
	require.NoError(t, err)

	assert.Len(t, result.Added, 4)
	require.Len(t, result.NotAdded, 1)
	assert.Equal(t, "Movie 3", result.NotAdded[0].Title)
	assert.Contains(t, result.NotAdded[0].Reason, "already exists")

	// the pre-seeded movie plus the four added ones
	assert.Len(t, env.store.movies, 5)
}

func TestCreateMoviesAllConflict(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.service.CreateMovie(ctx, models.CreateMovieRequest{Title: "Dupe"})
	require.NoError(t, err)

	_, err = env.service.CreateMovies(ctx, []models.CreateMovieRequest{
		{Title: "Dupe"},
		{Title: "Dupe"},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))
}

func TestCreateMoviesAllSucceed(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.service.CreateMovies(ctx, []models.CreateMovieRequest{
		{Title: "First"},
		{Title: "Second"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Added, 2)
	assert.Empty(t, result.NotAdded)
}

func TestDeleteMovieNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.service.DeleteMovie(ctx, uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestGetShowNestedView(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	show := seedShow(env, "Nested", 2, 2)

	aggregate, err := env.service.GetShow(ctx, show.ID)
	require.NoError(t, err)
	require.Len(t, aggregate.Seasons, 2)
	assert.Len(t, aggregate.Seasons[0].Episodes, 2)
	assert.Len(t, aggregate.Seasons[1].Episodes, 2)
}
