package episode

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

type EpisodeRepository interface {
	Insert(ctx context.Context, episode models.Episode) error
	GetEpisode(ctx context.Context, id string) (models.Episode, error)
	ListEpisodesBySeason(ctx context.Context, seasonID string) ([]models.Episode, error)
	DeleteEpisode(ctx context.Context, id string) (int, error)
	DeleteEpisodesBySeason(ctx context.Context, seasonID string) (int, error)
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new episode repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Insert(ctx context.Context, episode models.Episode) error {
	ctx, span := tracing.StartSpan(ctx, "EpisodeRepository.Insert")
	defer span.End()

	row := FromEpisode(episode)
	ib := episodeStruct.InsertInto(episodeTable, row)
	sql, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":        episode.ID,
		"season_id": episode.SeasonID,
		"title":     episode.Title,
	}).Info("Inserting episode")
	_, err = tx.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id":        episode.ID,
			"season_id": episode.SeasonID,
			"title":     episode.Title,
		}).Error("error inserting episode")
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetEpisode(ctx context.Context, id string) (models.Episode, error) {
	ctx, span := tracing.StartSpan(ctx, "EpisodeRepository.GetEpisode")
	defer span.End()

	sb := episodeStruct.SelectFrom(episodeTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row EpisodeRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"id": id,
			}).Warn("Episode not found")
			return models.Episode{}, httperror.NewHTTPError(http.StatusNotFound, "episode not found")
		}

		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"id": id,
		}).Error("error getting episode")
		return models.Episode{}, httperror.NewHTTPError(http.StatusInternalServerError, "error getting episode")
	}

	return ToEpisode(&row), nil
}

func (r *Repository) ListEpisodesBySeason(ctx context.Context, seasonID string) ([]models.Episode, error) {
	ctx, span := tracing.StartSpan(ctx, "EpisodeRepository.ListEpisodesBySeason")
	defer span.End()

	sb := episodeStruct.SelectFrom(episodeTable)
	sb.Where(sb.Equal("season_id", seasonID))
	sb.OrderBy("sequence_number").Asc()

	sql, args := sb.Build()

	var rows []EpisodeRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"season_id": seasonID,
		}).Error("error listing episodes")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "error listing episodes")
	}

	episodes := make([]models.Episode, 0, len(rows))
	for i := range rows {
		episodes = append(episodes, ToEpisode(&rows[i]))
	}

	return episodes, nil
}

func (r *Repository) DeleteEpisode(ctx context.Context, id string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "EpisodeRepository.DeleteEpisode")
	defer span.End()

	db := episodeStruct.DeleteFrom(episodeTable)
	db.Where(db.Equal("id", id))
	sql, args := db.Build()

	return r.deleteRows(ctx, sql, args)
}

func (r *Repository) DeleteEpisodesBySeason(ctx context.Context, seasonID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "EpisodeRepository.DeleteEpisodesBySeason")
	defer span.End()

	db := episodeStruct.DeleteFrom(episodeTable)
	db.Where(db.Equal("season_id", seasonID))
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
		r.logger.WithContext(ctx).WithError(err).Error("error deleting episodes")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "error deleting episodes")
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
