package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	catalogerrors "github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/google/uuid"
)

// Database is the slice of the database layer the service drives directly.
// Repositories join the unit of work through the same ctx.
type Database interface {
	GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error)
}

type ShowRepository interface {
	Insert(ctx context.Context, show models.Show) error
	GetShow(ctx context.Context, id string) (models.Show, error)
	ListShows(ctx context.Context, limit, offset int) ([]models.Show, int, error)
	DeleteShow(ctx context.Context, id string) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type SeasonRepository interface {
	Insert(ctx context.Context, season models.Season) error
	GetSeason(ctx context.Context, id string) (models.Season, error)
	ListSeasonsByShow(ctx context.Context, showID string) ([]models.Season, error)
	DeleteSeason(ctx context.Context, id string) (int, error)
	DeleteSeasonsByShow(ctx context.Context, showID string) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type EpisodeRepository interface {
	Insert(ctx context.Context, episode models.Episode) error
	GetEpisode(ctx context.Context, id string) (models.Episode, error)
	ListEpisodesBySeason(ctx context.Context, seasonID string) ([]models.Episode, error)
	DeleteEpisode(ctx context.Context, id string) (int, error)
	DeleteEpisodesBySeason(ctx context.Context, seasonID string) (int, error)
}

type MovieRepository interface {
	Insert(ctx context.Context, movie models.Movie) error
	GetMovie(ctx context.Context, id string) (models.Movie, error)
	ListMovies(ctx context.Context, limit, offset int) ([]models.Movie, int, error)
	DeleteMovie(ctx context.Context, id string) (int, error)
}

// EventEmitter publishes catalog lifecycle events after commit. Failures are
// logged by the emitter and never surfaced here.
type EventEmitter interface {
	EmitShowCreated(ctx context.Context, show models.Show)
	EmitShowDeleted(ctx context.Context, showID string, result models.CascadeDeleteResult)
	EmitMovieCreated(ctx context.Context, movie models.Movie)
}

type Service struct {
	db       Database
	shows    ShowRepository
	seasons  SeasonRepository
	episodes EpisodeRepository
	movies   MovieRepository
	emitter  EventEmitter
	logger   ectologger.Logger
}

// NewService creates a new catalog service. emitter may be nil when event
// publishing is disabled.
func NewService(db Database, shows ShowRepository, seasons SeasonRepository, episodes EpisodeRepository, movies MovieRepository, emitter EventEmitter, logger ectologger.Logger) *Service {
	return &Service{
		db:       db,
		shows:    shows,
		seasons:  seasons,
		episodes: episodes,
		movies:   movies,
		emitter:  emitter,
		logger:   logger,
	}
}

// CreateShow inserts the show and every nested season and episode in one unit
// of work. The first failing step aborts everything already written.
func (s *Service) CreateShow(ctx context.Context, req models.CreateShowRequest) (models.ShowAggregate, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.CreateShow")
	defer span.End()

	ctx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return models.ShowAggregate{}, err
	}
	defer tx.Rollback(ctx)

	aggregate, err := s.createShowAggregate(ctx, req)
	if err != nil {
		return models.ShowAggregate{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.ShowAggregate{}, err
	}

	if s.emitter != nil {
		s.emitter.EmitShowCreated(ctx, aggregate.Show)
	}

	return aggregate, nil
}

// createShowAggregate performs the insert steps against whatever unit of work
// ctx carries. The nested view it returns is synthesized in memory; the rows
// are persisted flat.
func (s *Service) createShowAggregate(ctx context.Context, req models.CreateShowRequest) (models.ShowAggregate, error) {
	now := time.Now().UTC()

	show := models.Show{
		ID:                uuid.New().String(),
		Title:             req.Title,
		Description:       req.Description,
		Genres:            req.Genres,
		Rating:            req.Rating,
		ReleaseDate:       req.ReleaseDate,
		PosterURL:         req.PosterURL,
		TotalSeasonCount:  req.TotalSeasonCount,
		TotalEpisodeCount: req.TotalEpisodeCount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.shows.Insert(ctx, show); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"title": req.Title,
		}).Error("aggregate create failed inserting show")
		return models.ShowAggregate{}, catalogerrors.NewCatalogErrorf("failed to create show: %w", err).AddEntity(string(models.EntityKindShow)).AddTitle(req.Title).ToHTTPError()
	}

	aggregate := models.ShowAggregate{
		Show:    show,
		Seasons: make([]models.SeasonAggregate, 0, len(req.Seasons)),
	}

	for i, seasonReq := range req.Seasons {
		season := models.Season{
			ID:             uuid.New().String(),
			ShowID:         show.ID,
			Title:          seasonReq.Title,
			Description:    seasonReq.Description,
			SequenceNumber: seasonReq.SequenceNumber,
			ReleaseDate:    seasonReq.ReleaseDate,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := s.seasons.Insert(ctx, season); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"show_id": show.ID,
				"title":   seasonReq.Title,
			}).Error("aggregate create failed inserting season")
			return models.ShowAggregate{}, catalogerrors.NewCatalogErrorf("failed to create season: %w", err).AddEntity(string(models.EntityKindSeason)).AddTitle(seasonReq.Title).AddItemIndex(i).ToHTTPError()
		}

		seasonAggregate := models.SeasonAggregate{
			Season:   season,
			Episodes: make([]models.Episode, 0, len(seasonReq.Episodes)),
		}

		for j, episodeReq := range seasonReq.Episodes {
			episode := models.Episode{
				ID:              uuid.New().String(),
				SeasonID:        season.ID,
				Title:           episodeReq.Title,
				Description:     episodeReq.Description,
				SequenceNumber:  episodeReq.SequenceNumber,
				ReleaseDate:     episodeReq.ReleaseDate,
				DurationMinutes: episodeReq.DurationMinutes,
				CreatedAt:       now,
				UpdatedAt:       now,
			}

			if err := s.episodes.Insert(ctx, episode); err != nil {
				s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
					"season_id": season.ID,
					"title":     episodeReq.Title,
				}).Error("aggregate create failed inserting episode")
				return models.ShowAggregate{}, catalogerrors.NewCatalogErrorf("failed to create episode: %w", err).AddEntity(string(models.EntityKindEpisode)).AddTitle(episodeReq.Title).AddItemIndex(j).ToHTTPError()
			}

			seasonAggregate.Episodes = append(seasonAggregate.Episodes, episode)
		}

		aggregate.Seasons = append(aggregate.Seasons, seasonAggregate)
	}

	return aggregate, nil
}

// CreateSeason validates the show reference and inserts the season standalone.
// The existence check and the insert are separate store calls; the store has
// no cross-table constraint to close the gap between them.
func (s *Service) CreateSeason(ctx context.Context, req models.CreateSeasonRequest) (models.Season, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.CreateSeason")
	defer span.End()

	if err := s.requireShow(ctx, req.ShowID); err != nil {
		return models.Season{}, err
	}

	now := time.Now().UTC()
	season := models.Season{
		ID:             uuid.New().String(),
		ShowID:         req.ShowID,
		Title:          req.Title,
		Description:    req.Description,
		SequenceNumber: req.SequenceNumber,
		ReleaseDate:    req.ReleaseDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.seasons.Insert(ctx, season); err != nil {
		return models.Season{}, err
	}

	return season, nil
}

// CreateEpisode validates the season reference and inserts the episode
// standalone.
func (s *Service) CreateEpisode(ctx context.Context, req models.CreateEpisodeRequest) (models.Episode, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.CreateEpisode")
	defer span.End()

	if err := s.requireSeason(ctx, req.SeasonID); err != nil {
		return models.Episode{}, err
	}

	now := time.Now().UTC()
	episode := models.Episode{
		ID:              uuid.New().String(),
		SeasonID:        req.SeasonID,
		Title:           req.Title,
		Description:     req.Description,
		SequenceNumber:  req.SequenceNumber,
		ReleaseDate:     req.ReleaseDate,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.episodes.Insert(ctx, episode); err != nil {
		return models.Episode{}, err
	}

	return episode, nil
}

// requireShow is the single existence check for the season -> show reference.
func (s *Service) requireShow(ctx context.Context, showID string) error {
	exists, err := s.shows.Exists(ctx, showID)
	if err != nil {
		return err
	}
	if !exists {
		return catalogerrors.NotFound("show '%s' not found", showID)
	}
	return nil
}

// requireSeason is the single existence check for the episode -> season
// reference.
func (s *Service) requireSeason(ctx context.Context, seasonID string) error {
	exists, err := s.seasons.Exists(ctx, seasonID)
	if err != nil {
		return err
	}
	if !exists {
		return catalogerrors.NotFound("season '%s' not found", seasonID)
	}
	return nil
}

// GetShow returns the nested aggregate view for a show.
func (s *Service) GetShow(ctx context.Context, id string) (models.ShowAggregate, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.GetShow")
	defer span.End()

	show, err := s.shows.GetShow(ctx, id)
	if err != nil {
		return models.ShowAggregate{}, err
	}

	seasons, err := s.seasons.ListSeasonsByShow(ctx, id)
	if err != nil {
		return models.ShowAggregate{}, err
	}

	aggregate := models.ShowAggregate{
		Show:    show,
		Seasons: make([]models.SeasonAggregate, 0, len(seasons)),
	}

	for _, season := range seasons {
		episodes, err := s.episodes.ListEpisodesBySeason(ctx, season.ID)
		if err != nil {
			return models.ShowAggregate{}, err
		}
		aggregate.Seasons = append(aggregate.Seasons, models.SeasonAggregate{
			Season:   season,
			Episodes: episodes,
		})
	}

	return aggregate, nil
}

func (s *Service) ListShows(ctx context.Context, limit, offset int) (models.ShowListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.ListShows")
	defer span.End()

	shows, total, err := s.shows.ListShows(ctx, limit, offset)
	if err != nil {
		return models.ShowListResponse{}, err
	}

	return models.ShowListResponse{
		Items:      shows,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (s *Service) GetSeason(ctx context.Context, id string) (models.Season, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.GetSeason")
	defer span.End()

	return s.seasons.GetSeason(ctx, id)
}

func (s *Service) ListSeasons(ctx context.Context, showID string) (models.SeasonListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.ListSeasons")
	defer span.End()

	seasons, err := s.seasons.ListSeasonsByShow(ctx, showID)
	if err != nil {
		return models.SeasonListResponse{}, err
	}

	return models.SeasonListResponse{Items: seasons, TotalCount: len(seasons)}, nil
}

func (s *Service) GetEpisode(ctx context.Context, id string) (models.Episode, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.GetEpisode")
	defer span.End()

	return s.episodes.GetEpisode(ctx, id)
}

func (s *Service) ListEpisodes(ctx context.Context, seasonID string) (models.EpisodeListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.ListEpisodes")
	defer span.End()

	episodes, err := s.episodes.ListEpisodesBySeason(ctx, seasonID)
	if err != nil {
		return models.EpisodeListResponse{}, err
	}

	return models.EpisodeListResponse{Items: episodes, TotalCount: len(episodes)}, nil
}

func (s *Service) GetMovie(ctx context.Context, id string) (models.Movie, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.GetMovie")
	defer span.End()

	return s.movies.GetMovie(ctx, id)
}

func (s *Service) ListMovies(ctx context.Context, limit, offset int) (models.MovieListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.ListMovies")
	defer span.End()

	movies, total, err := s.movies.ListMovies(ctx, limit, offset)
	if err != nil {
		return models.MovieListResponse{}, err
	}

	return models.MovieListResponse{
		Items:      movies,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// CreateMovie inserts a single movie.
func (s *Service) CreateMovie(ctx context.Context, req models.CreateMovieRequest) (models.Movie, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.CreateMovie")
	defer span.End()

	movie := newMovie(req)
	if err := s.movies.Insert(ctx, movie); err != nil {
		return models.Movie{}, err
	}

	if s.emitter != nil {
		s.emitter.EmitMovieCreated(ctx, movie)
	}

	return movie, nil
}

func newMovie(req models.CreateMovieRequest) models.Movie {
	now := time.Now().UTC()
	return models.Movie{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Description:     req.Description,
		Genres:          req.Genres,
		Rating:          req.Rating,
		ReleaseDate:     req.ReleaseDate,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DeleteMovie removes a movie by id.
func (s *Service) DeleteMovie(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.DeleteMovie")
	defer span.End()

	affected, err := s.movies.DeleteMovie(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalogerrors.NotFound("movie '%s' not found", id)
	}
	return nil
}
