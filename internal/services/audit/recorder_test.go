package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	auditservice "github.com/Ramsey-B/dahlia/internal/services/audit"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

type captureRepo struct {
	mu      sync.Mutex
	records []models.AuditRecord
	failAll bool
}

func (r *captureRepo) Insert(ctx context.Context, record models.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errors.New("insert failed")
	}
	r.records = append(r.records, record)
	return nil
}

func (r *captureRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func newRecord() models.AuditRecord {
	now := time.Now().UTC()
	return models.AuditRecord{
		ID:         uuid.New().String(),
		ActorID:    "user-1",
		Action:     models.AuditActionCreate,
		EntityKind: models.EntityKindShow,
		Title:      "Added a new show",
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
	}
}

func TestRecorderPersistsEnqueuedRecords(t *testing.T) {
	repo := &captureRepo{}
	recorder := auditservice.NewRecorder(repo, auditservice.DefaultConfig(), getTestLogger())

	ctx := context.Background()
	require.NoError(t, recorder.Start(ctx))

	for i := 0; i < 5; i++ {
		assert.True(t, recorder.Enqueue(newRecord()))
	}

	// Stop drains whatever is still buffered
	require.NoError(t, recorder.Stop(ctx))
	assert.Equal(t, 5, repo.count())
}

func TestRecorderDropsWhenBufferFull(t *testing.T) {
	repo := &captureRepo{}
	recorder := auditservice.NewRecorder(repo, auditservice.Config{
		BufferSize:   1,
		WriteTimeout: time.Second,
		Retention:    time.Hour,
	}, getTestLogger())

	// worker not started, so the second record has nowhere to go
	assert.True(t, recorder.Enqueue(newRecord()))
	assert.False(t, recorder.Enqueue(newRecord()))
}

func TestRecorderSwallowsPersistFailures(t *testing.T) {
	repo := &captureRepo{failAll: true}
	recorder := auditservice.NewRecorder(repo, auditservice.DefaultConfig(), getTestLogger())

	ctx := context.Background()
	require.NoError(t, recorder.Start(ctx))

	assert.True(t, recorder.Enqueue(newRecord()))

	require.NoError(t, recorder.Stop(ctx))
	assert.Equal(t, 0, repo.count())
}

func TestRecorderRetention(t *testing.T) {
	recorder := auditservice.NewRecorder(&captureRepo{}, auditservice.Config{
		BufferSize:   8,
		WriteTimeout: time.Second,
		Retention:    48 * time.Hour,
	}, getTestLogger())

	assert.Equal(t, 48*time.Hour, recorder.Retention())
}
