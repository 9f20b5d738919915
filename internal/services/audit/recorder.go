package audit

import (
	"context"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/models"
)

const (
	// DefaultBufferSize is the default capacity of the record buffer
	DefaultBufferSize = 256

	// DefaultWriteTimeout bounds a single persist attempt
	DefaultWriteTimeout = 5 * time.Second

	// DefaultRetention is how long records are kept before the sweeper
	// removes them
	DefaultRetention = 30 * 24 * time.Hour
)

// Repository is the audit store slice the recorder needs.
type Repository interface {
	Insert(ctx context.Context, record models.AuditRecord) error
}

// Config holds configuration for the recorder
type Config struct {
	// BufferSize is the capacity of the in-memory record buffer
	BufferSize int

	// WriteTimeout bounds each persist attempt
	WriteTimeout time.Duration

	// Retention is the record time-to-live stamped at enqueue time
	Retention time.Duration
}

// DefaultConfig returns the default recorder configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:   DefaultBufferSize,
		WriteTimeout: DefaultWriteTimeout,
		Retention:    DefaultRetention,
	}
}

// Recorder persists audit records off the request path. Delivery is
// at-most-once: a full buffer or a failed insert drops the record with a log
// line and a metric, and nothing is retried or surfaced to the caller.
type Recorder struct {
	repo   Repository
	config Config
	logger ectologger.Logger

	records chan models.AuditRecord

	stopCh   chan struct{}
	stoppedC chan struct{}
	running  bool
	mu       sync.RWMutex
}

// NewRecorder creates a new audit recorder
func NewRecorder(repo Repository, config Config, logger ectologger.Logger) *Recorder {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}
	if config.Retention <= 0 {
		config.Retention = DefaultRetention
	}

	return &Recorder{
		repo:     repo,
		config:   config,
		logger:   logger,
		records:  make(chan models.AuditRecord, config.BufferSize),
		stopCh:   make(chan struct{}),
		stoppedC: make(chan struct{}),
	}
}

// Retention returns the configured record time-to-live.
func (r *Recorder) Retention() time.Duration {
	return r.config.Retention
}

// Enqueue hands a record to the worker without blocking. It reports whether
// the record was accepted; a full buffer drops it.
func (r *Recorder) Enqueue(record models.AuditRecord) bool {
	select {
	case r.records <- record:
		return true
	default:
		r.logger.WithFields(map[string]any{
			"action":      record.Action,
			"entity_kind": record.EntityKind,
		}).Warn("audit buffer full, dropping record")
		metrics.AuditRecordsDropped.WithLabelValues("buffer_full").Inc()
		return false
	}
}

func (r *Recorder) GetName() string {
	return "audit-recorder"
}

func (r *Recorder) DependsOn() []string {
	return []string{"database"}
}

// Start starts the recorder worker
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	r.logger.WithContext(ctx).Infof("Starting audit recorder: buffer_size=%d retention=%s",
		r.config.BufferSize, r.config.Retention)

	go r.run()

	return nil
}

// Stop drains the buffer and stops the worker.
func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)

	select {
	case <-r.stoppedC:
		r.logger.WithContext(ctx).Info("Audit recorder stopped")
	case <-ctx.Done():
		r.logger.WithContext(ctx).Warn("Audit recorder shutdown timed out")
		return ctx.Err()
	}

	return nil
}

func (r *Recorder) run() {
	defer close(r.stoppedC)

	for {
		select {
		case record := <-r.records:
			r.persist(record)
		case <-r.stopCh:
			// drain whatever is buffered before exiting
			for {
				select {
				case record := <-r.records:
					r.persist(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) persist(record models.AuditRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.repo.Insert(ctx, record); err != nil {
		r.logger.WithError(err).WithFields(map[string]any{
			"id":          record.ID,
			"action":      record.Action,
			"entity_kind": record.EntityKind,
		}).Error("failed to persist audit record")
		metrics.AuditRecordsDropped.WithLabelValues("persist_failed").Inc()
		return
	}

	metrics.AuditRecordsWritten.Inc()
}
