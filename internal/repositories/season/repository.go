package season

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

type SeasonRepository interface {
	Insert(ctx context.Context, season models.Season) error
	GetSeason(ctx context.Context, id string) (models.Season, error)
	ListSeasonsByShow(ctx context.Context, showID string) ([]models.Season, error)
	DeleteSeason(ctx context.Context, id string) (int, error)
	DeleteSeasonsByShow(ctx context.Context, showID string) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new season repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Insert(ctx context.Context, season models.Season) error {
	ctx, span := tracing.StartSpan(ctx, "SeasonRepository.Insert")
	defer span.End()

	row := FromSeason(season)
	ib := seasonStruct.InsertInto(seasonTable, row)
	sql, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":      season.ID,
		"show_id": season.ShowID,
		"title":   season.Title,
	}).Info("Inserting season")
	_, err = tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id":      season.ID,
			"show_id": season.ShowID,
			"title":   season.Title,
		}).Error("error inserting season")
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetSeason(ctx context.Context, id string) (models.Season, error) {
	ctx, span := tracing.StartSpan(ctx, "SeasonRepository.GetSeason")
	defer span.End()

	sb := seasonStruct.SelectFrom(seasonTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row SeasonRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"id": id,
			}).Warn("Season not found")
			return models.Season{}, httperror.NewHTTPError(http.StatusNotFound, "season not found")
		}

		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id": id,
		}).Error("error getting season")
		return models.Season{}, httperror.NewHTTPError(http.StatusInternalServerError, "error getting season")
	}

	return ToSeason(&row), nil
}

// ListSeasonsByShow joins the open unit of work when one is carried in ctx so
// the cascade reads its own uncommitted state.
func (r *Repository) ListSeasonsByShow(ctx context.Context, showID string) ([]models.Season, error) {
	ctx, span := tracing.StartSpan(ctx, "SeasonRepository.ListSeasonsByShow")
	defer span.End()

	sb := seasonStruct.SelectFrom(seasonTable)
	sb.Where(sb.Equal("show_id", showID))
	sb.OrderBy("sequence_number").Asc()

	sql, args := sb.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var rows []SeasonRow
	err = tx.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"show_id": showID,
		}).Error("error listing seasons")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "error listing seasons")
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	seasons := make([]models.Season, 0, len(rows))
	for i := range rows {
		seasons = append(seasons, ToSeason(&rows[i]))
	}

	return seasons, nil
}

func (r *Repository) DeleteSeason(ctx context.Context, id string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "SeasonRepository.DeleteSeason")
	defer span.End()

	db := seasonStruct.DeleteFrom(seasonTable)
	db.Where(db.Equal("id", id))
	sql, args := db.Build()

	return r.deleteRows(ctx, sql, args)
}

func (r *Repository) DeleteSeasonsByShow(ctx context.Context, showID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "SeasonRepository.DeleteSeasonsByShow")
	defer span.End()

	db := seasonStruct.DeleteFrom(seasonTable)
	db.Where(db.Equal("show_id", showID))
	sql, args := db.Build()

	return r.deleteRows(ctx, sql, args)
}

func (r *Repository) deleteRows(ctx context.Context, sql string, args []any) (int, error) {
	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	result, err := tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error deleting seasons")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "error deleting seasons")
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

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "SeasonRepository.Exists")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(seasonTable)
	sb.Where(sb.Equal("id", id))
	sql, args := sb.Build()

	var count int
	err := r.db.GetContext(ctx, &count, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id": id,
		}).Error("error checking season existence")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "error checking season existence")
	}

	return count > 0, nil
}
