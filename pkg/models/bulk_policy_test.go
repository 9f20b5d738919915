package models_test

import (
	"testing"

	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestBulkPolicyFor(t *testing.T) {
	tests := []struct {
		kind models.EntityKind
		want models.BulkPolicy
	}{
		{models.EntityKindShow, models.BulkPolicyAtomic},
		{models.EntityKindSeason, models.BulkPolicyAtomic},
		{models.EntityKindEpisode, models.BulkPolicyAtomic},
		{models.EntityKindMovie, models.BulkPolicyBestEffort},
		// unknown kinds default to the stricter policy
		{models.EntityKind("unknown"), models.BulkPolicyAtomic},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, models.BulkPolicyFor(tt.kind))
		})
	}
}
