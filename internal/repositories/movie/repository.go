package movie

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	catalogerrors "github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

type MovieRepository interface {
	Insert(ctx context.Context, movie models.Movie) error
	GetMovie(ctx context.Context, id string) (models.Movie, error)
	ListMovies(ctx context.Context, limit, offset int) ([]models.Movie, int, error)
	DeleteMovie(ctx context.Context, id string) (int, error)
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new movie repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Insert returns a 409 when the title is already taken so the best-effort
// bulk path can classify each rejected item.
func (r *Repository) Insert(ctx context.Context, movie models.Movie) error {
	ctx, span := tracing.StartSpan(ctx, "MovieRepository.Insert")
	defer span.End()

	row := FromMovie(movie)
	ib := movieStruct.InsertInto(movieTable, row)
	sql, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":    movie.ID,
		"title": movie.Title,
	}).Info("Inserting movie")
	_, err = tx.ExecContext(ctx, sql, args...)
	if err != nil {
		if catalogerrors.IsUniqueViolation(err) {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"title": movie.Title,
			}).Warn("Movie title already exists")
			return catalogerrors.Conflict("movie '%s' already exists", movie.Title)
		}

		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id":    movie.ID,
			"title": movie.Title,
		}).Error("error inserting movie")
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetMovie(ctx context.Context, id string) (models.Movie, error) {
	ctx, span := tracing.StartSpan(ctx, "MovieRepository.GetMovie")
	defer span.End()

	sb := movieStruct.SelectFrom(movieTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row MovieRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"id": id,
			}).Warn("Movie not found")
			return models.Movie{}, httperror.NewHTTPError(http.StatusNotFound, "movie not found")
		}

		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id": id,
		}).Error("error getting movie")
		return models.Movie{}, httperror.NewHTTPError(http.StatusInternalServerError, "error getting movie")
	}

	return ToMovie(&row), nil
}

func (r *Repository) ListMovies(ctx context.Context, limit, offset int) ([]models.Movie, int, error) {
	ctx, span := tracing.StartSpan(ctx, "MovieRepository.ListMovies")
	defer span.End()

	sb := movieStruct.SelectFrom(movieTable)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)
	sb.Offset(offset)

	sql, args := sb.Build()

	var rows []MovieRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error listing movies")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "error listing movies")
	}

	var total int
	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)").From(movieTable)
	countSql, countArgs := countSb.Build()
	err = r.db.GetContext(ctx, &total, countSql, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error counting movies")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "error counting movies")
	}

	movies := make([]models.Movie, 0, len(rows))
	for i := range rows {
		movies = append(movies, ToMovie(&rows[i]))
	}

	return movies, total, nil
}

func (r *Repository) DeleteMovie(ctx context.Context, id string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "MovieRepository.DeleteMovie")
	defer span.End()

	db := movieStruct.DeleteFrom(movieTable)
	db.Where(db.Equal("id", id))
	sql, args := db.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	result, err := tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id": id,
		}).Error("error deleting movie")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "error deleting movie")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(affected), nil
}
