package kafka_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Ramsey-B/dahlia/pkg/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogEventKey(t *testing.T) {
	event := &kafka.CatalogEvent{
		EventType:  "show.created",
		EntityKind: "show",
		EntityID:   "abc-123",
	}

	assert.Equal(t, "show:abc-123", event.Key())
}

func TestCatalogEventToJSON(t *testing.T) {
	event := &kafka.CatalogEvent{
		EventType:  "movie.created",
		EntityKind: "movie",
		EntityID:   "m-1",
		ActorID:    "user-1",
		Data:       json.RawMessage(`{"title":"Dune"}`),
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "movie.created", decoded["event_type"])
	assert.Equal(t, "user-1", decoded["actor_id"])

	nested, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Dune", nested["title"])
}
