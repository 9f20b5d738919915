package catalog

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	catalogerrors "github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// CreateShows bulk-creates show aggregates under the policy registered for
// the show entity kind. Shows are batch-atomic: one unit of work spans every
// aggregate and the first failure aborts them all.
func (s *Service) CreateShows(ctx context.Context, reqs []models.CreateShowRequest) ([]models.ShowAggregate, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.CreateShows")
	defer span.End()

	policy := models.BulkPolicyFor(models.EntityKindShow)
	if policy != models.BulkPolicyAtomic {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "unsupported bulk policy for shows")
	}

	ctx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	aggregates := make([]models.ShowAggregate, 0, len(reqs))
	for i, req := range reqs {
		aggregate, err := s.createShowAggregate(ctx, req)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"item":  i,
				"title": req.Title,
			}).Error("bulk show create aborted")
			metrics.BulkItems.WithLabelValues(string(policy), "aborted").Add(float64(len(reqs)))
			return nil, catalogerrors.WrapCatalogError(err).AddItemIndex(i).ToHTTPError()
		}
		aggregates = append(aggregates, aggregate)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.BulkItems.WithLabelValues(string(policy), "added").Add(float64(len(aggregates)))

	if s.emitter != nil {
		for _, aggregate := range aggregates {
			s.emitter.EmitShowCreated(ctx, aggregate.Show)
		}
	}

	return aggregates, nil
}

// CreateMovies bulk-inserts movies under the best-effort policy: every item
// is an independent insert, failures are collected per item, and the batch
// never aborts the items that made it in.
func (s *Service) CreateMovies(ctx context.Context, reqs []models.CreateMovieRequest) (models.BulkMovieResult, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogService.CreateMovies")
	defer span.End()

	policy := models.BulkPolicyFor(models.EntityKindMovie)
	if policy != models.BulkPolicyBestEffort {
		return models.BulkMovieResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "unsupported bulk policy for movies")
	}

	result := models.BulkMovieResult{
		Added:    make([]models.Movie, 0, len(reqs)),
		NotAdded: make([]models.NotAddedMovie, 0),
	}

	conflicts := 0
	for _, req := range reqs {
		movie := newMovie(req)
		if err := s.movies.Insert(ctx, movie); err != nil {
			if catalogerrors.IsConflict(err) {
				conflicts++
			}
			result.NotAdded = append(result.NotAdded, models.NotAddedMovie{
				Title:  req.Title,
				Reason: err.Error(),
			})
			continue
		}
		result.Added = append(result.Added, movie)
	}

	metrics.BulkItems.WithLabelValues(string(policy), "added").Add(float64(len(result.Added)))
	metrics.BulkItems.WithLabelValues(string(policy), "not_added").Add(float64(len(result.NotAdded)))

	// none added is a single failure, not a partial result
	if len(result.Added) == 0 && len(reqs) > 0 {
		if conflicts == len(result.NotAdded) {
			return models.BulkMovieResult{}, catalogerrors.Conflict("movies already exist")
		}
		return models.BulkMovieResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to add movies")
	}

	if s.emitter != nil {
		for _, movie := range result.Added {
			s.emitter.EmitMovieCreated(ctx, movie)
		}
	}

	return result, nil
}
