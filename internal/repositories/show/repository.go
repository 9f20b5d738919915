package show

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

type ShowRepository interface {
	Insert(ctx context.Context, show models.Show) error
	GetShow(ctx context.Context, id string) (models.Show, error)
	ListShows(ctx context.Context, limit, offset int) ([]models.Show, int, error)
	DeleteShow(ctx context.Context, id string) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new show repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Insert(ctx context.Context, show models.Show) error {
	ctx, span := tracing.StartSpan(ctx, "ShowRepository.Insert")
	defer span.End()

	row := FromShow(show)
	ib := showStruct.InsertInto(showTable, row)
	sql, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":    show.ID,
		"title": show.Title,
	}).Info("Inserting show")
	_, err = tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id":    show.ID,
			"title": show.Title,
		}).Error("error inserting show")
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetShow(ctx context.Context, id string) (models.Show, error) {
	ctx, span := tracing.StartSpan(ctx, "ShowRepository.GetShow")
	defer span.End()

	sb := showStruct.SelectFrom(showTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row ShowRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"id": id,
			}).Warn("Show not found")
			return models.Show{}, httperror.NewHTTPError(http.StatusNotFound, "show not found")
		}

		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id": id,
		}).Error("error getting show")
		return models.Show{}, httperror.NewHTTPError(http.StatusInternalServerError, "error getting show")
	}

	return ToShow(&row), nil
}

func (r *Repository) ListShows(ctx context.Context, limit, offset int) ([]models.Show, int, error) {
	ctx, span := tracing.StartSpan(ctx, "ShowRepository.ListShows")
	defer span.End()

	sb := showStruct.SelectFrom(showTable)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)
	sb.Offset(offset)

	sql, args := sb.Build()

	var rows []ShowRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error listing shows")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "error listing shows")
	}

	var total int
	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)").From(showTable)
	countSql, countArgs := countSb.Build()
	err = r.db.GetContext(ctx, &total, countSql, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error counting shows")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "error counting shows")
	}

	shows := make([]models.Show, 0, len(rows))
	for i := range rows {
		shows = append(shows, ToShow(&rows[i]))
	}

	return shows, total, nil
}

// DeleteShow deletes the show row and returns the number of rows removed.
// The existence check the cascade relies on is this affected-row count.
func (r *Repository) DeleteShow(ctx context.Context, id string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "ShowRepository.DeleteShow")
	defer span.End()

	db := showStruct.DeleteFrom(showTable)
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
		}).Error("error deleting show")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "error deleting show")
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
	ctx, span := tracing.StartSpan(ctx, "ShowRepository.Exists")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(showTable)
	sb.Where(sb.Equal("id", id))
	sql, args := sb.Build()

	var count int
	err := r.db.GetContext(ctx, &count, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id": id,
		}).Error("error checking show existence")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "error checking show existence")
	}

	return count > 0, nil
}
