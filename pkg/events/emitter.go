// Package events handles event emission for catalog lifecycle changes
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	appctx "github.com/Ramsey-B/dahlia/pkg/context"
	"github.com/Ramsey-B/dahlia/pkg/kafka"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// Emitter publishes catalog events best-effort after commit. Publish failures
// are logged and never surfaced to the mutation path.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitShowCreated emits a show created event
func (e *Emitter) EmitShowCreated(ctx context.Context, show models.Show) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitShowCreated")
	defer span.End()

	data, _ := json.Marshal(show)
	e.emit(ctx, &kafka.CatalogEvent{
		EventType:  "show.created",
		EntityKind: string(models.EntityKindShow),
		EntityID:   show.ID,
		Data:       data,
	})
}

// EmitShowDeleted emits a show deleted event carrying the cascade counts
func (e *Emitter) EmitShowDeleted(ctx context.Context, showID string, result models.CascadeDeleteResult) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitShowDeleted")
	defer span.End()

	data, _ := json.Marshal(result)
	e.emit(ctx, &kafka.CatalogEvent{
		EventType:  "show.deleted",
		EntityKind: string(models.EntityKindShow),
		EntityID:   showID,
		Data:       data,
	})
}

// EmitMovieCreated emits a movie created event
func (e *Emitter) EmitMovieCreated(ctx context.Context, movie models.Movie) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMovieCreated")
	defer span.End()

	data, _ := json.Marshal(movie)
	e.emit(ctx, &kafka.CatalogEvent{
		EventType:  "movie.created",
		EntityKind: string(models.EntityKindMovie),
		EntityID:   movie.ID,
		Data:       data,
	})
}

func (e *Emitter) emit(ctx context.Context, event *kafka.CatalogEvent) {
	event.ActorID = appctx.GetUserID(ctx)
	event.Timestamp = time.Now().UTC()

	if err := e.producer.PublishCatalogEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": event.EventType,
			"entity_id":  event.EntityID,
		}).Error("Failed to emit catalog event")
	}
}
