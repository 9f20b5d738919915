package catalog

import (
	"context"

	catalogerrors "github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// DeleteShow removes a show and every descendant season and episode in one
// unit of work, reporting per-level counts. A missing show aborts the whole
// cascade, so children removed before the final show delete reappear on
// rollback.
func (s *Service) DeleteShow(ctx context.Context, id string) (models.CascadeDeleteResult, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.DeleteShow")
	defer span.End()

	ctx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return models.CascadeDeleteResult{}, err
	}
	defer tx.Rollback(ctx)

	result, err := s.cascadeDelete(ctx, id)
	if err != nil {
		return models.CascadeDeleteResult{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.CascadeDeleteResult{}, err
	}

	metrics.CascadeDeletes.WithLabelValues(string(models.EntityKindShow)).Inc()

	if s.emitter != nil {
		s.emitter.EmitShowDeleted(ctx, id, result)
	}

	return result, nil
}

// DeleteShows cascades every id in one unit of work. Any failure, including a
// missing id mid-batch, aborts the entire batch and undoes cascades already
// performed for earlier ids in the same call.
func (s *Service) DeleteShows(ctx context.Context, ids []string) (models.CascadeDeleteResult, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.DeleteShows")
	defer span.End()

	ctx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return models.CascadeDeleteResult{}, err
	}
	defer tx.Rollback(ctx)

	var total models.CascadeDeleteResult
	for _, id := range ids {
		result, err := s.cascadeDelete(ctx, id)
		if err != nil {
			return models.CascadeDeleteResult{}, err
		}
		total.ShowsDeleted += result.ShowsDeleted
		total.SeasonsDeleted += result.SeasonsDeleted
		total.EpisodesDeleted += result.EpisodesDeleted
	}

	if err = tx.Commit(ctx); err != nil {
		return models.CascadeDeleteResult{}, err
	}

	metrics.CascadeDeletes.WithLabelValues(string(models.EntityKindShow)).Add(float64(total.ShowsDeleted))

	if s.emitter != nil {
		for _, id := range ids {
			s.emitter.EmitShowDeleted(ctx, id, total)
		}
	}

	return total, nil
}

// cascadeDelete runs the per-show delete steps against the unit of work
// carried in ctx: episodes per season first, then the seasons, then the show
// row itself. The show delete's affected-row count is the existence check; a
// count of zero fails the cascade after the children were already deleted,
// relying on the caller's rollback to undo them.
func (s *Service) cascadeDelete(ctx context.Context, showID string) (models.CascadeDeleteResult, error) {
	seasons, err := s.seasons.ListSeasonsByShow(ctx, showID)
	if err != nil {
		return models.CascadeDeleteResult{}, err
	}

	var result models.CascadeDeleteResult

	for _, season := range seasons {
		deleted, err := s.episodes.DeleteEpisodesBySeason(ctx, season.ID)
		if err != nil {
			return models.CascadeDeleteResult{}, catalogerrors.NewCatalogErrorf("failed to delete episodes: %w", err).AddEntity(string(models.EntityKindEpisode)).AddTitle(season.Title).ToHTTPError()
		}
		result.EpisodesDeleted += deleted
	}

	seasonsDeleted, err := s.seasons.DeleteSeasonsByShow(ctx, showID)
	if err != nil {
		return models.CascadeDeleteResult{}, catalogerrors.NewCatalogErrorf("failed to delete seasons: %w", err).AddEntity(string(models.EntityKindSeason)).ToHTTPError()
	}
	result.SeasonsDeleted = seasonsDeleted

	showsDeleted, err := s.shows.DeleteShow(ctx, showID)
	if err != nil {
		return models.CascadeDeleteResult{}, err
	}
	if showsDeleted == 0 {
		s.logger.WithContext(ctx).WithFields(map[string]any{
			"show_id": showID,
		}).Warn("cascade delete aborted, show not found")
		return models.CascadeDeleteResult{}, catalogerrors.NotFound("show '%s' not found", showID)
	}
	result.ShowsDeleted = showsDeleted

	return result, nil
}

// DeleteSeason removes a season and its episodes in one unit of work.
func (s *Service) DeleteSeason(ctx context.Context, id string) (models.SeasonDeleteResult, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.DeleteSeason")
	defer span.End()

	ctx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return models.SeasonDeleteResult{}, err
	}
	defer tx.Rollback(ctx)

	episodesDeleted, err := s.episodes.DeleteEpisodesBySeason(ctx, id)
	if err != nil {
		return models.SeasonDeleteResult{}, err
	}

	seasonsDeleted, err := s.seasons.DeleteSeason(ctx, id)
	if err != nil {
		return models.SeasonDeleteResult{}, err
	}
	if seasonsDeleted == 0 {
		return models.SeasonDeleteResult{}, catalogerrors.NotFound("season '%s' not found", id)
	}

	if err = tx.Commit(ctx); err != nil {
		return models.SeasonDeleteResult{}, err
	}

	metrics.CascadeDeletes.WithLabelValues(string(models.EntityKindSeason)).Inc()

	return models.SeasonDeleteResult{
		SeasonsDeleted:  seasonsDeleted,
		EpisodesDeleted: episodesDeleted,
	}, nil
}

// DeleteEpisode removes a single episode.
func (s *Service) DeleteEpisode(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.DeleteEpisode")
	defer span.End()

	affected, err := s.episodes.DeleteEpisode(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalogerrors.NotFound("episode '%s' not found", id)
	}
	return nil
}
