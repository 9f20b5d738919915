package database_test

import (
	"encoding/json"
	"testing"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBRoundTrip(t *testing.T) {
	original := database.JSONB[json.RawMessage]{Data: json.RawMessage(`{"title":"S1"}`)}

	value, err := original.Value()
	require.NoError(t, err)

	var scanned database.JSONB[json.RawMessage]
	require.NoError(t, scanned.Scan(value))
	assert.JSONEq(t, `{"title":"S1"}`, string(scanned.Data))
}

func TestJSONBScanNil(t *testing.T) {
	var scanned database.JSONB[json.RawMessage]
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned.Data)
}
