package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/redis"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

const (
	// DefaultSweepInterval is the default interval between retention sweeps
	DefaultSweepInterval = 1 * time.Hour

	// DefaultLockTTL is the default TTL for the sweep lock
	DefaultLockTTL = 5 * time.Minute

	// sweepLockKey guards the sweep so one replica runs it at a time
	sweepLockKey = "audit:sweep"
)

// SweeperRepository is the audit store slice the sweeper needs.
type SweeperRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// SweeperConfig holds configuration for the retention sweeper
type SweeperConfig struct {
	// SweepInterval is how often expired records are removed
	SweepInterval time.Duration

	// LockTTL is how long the sweep lock is held
	LockTTL time.Duration
}

// DefaultSweeperConfig returns the default sweeper configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		SweepInterval: DefaultSweepInterval,
		LockTTL:       DefaultLockTTL,
	}
}

// Sweeper periodically deletes audit records whose retention window has
// passed. A redis lock keeps concurrent replicas from sweeping at once.
type Sweeper struct {
	repo   SweeperRepository
	locker *redis.Locker
	config SweeperConfig
	logger ectologger.Logger

	stopCh   chan struct{}
	stoppedC chan struct{}
	running  bool
	mu       sync.RWMutex
}

// NewSweeper creates a new retention sweeper
func NewSweeper(repo SweeperRepository, locker *redis.Locker, config SweeperConfig, logger ectologger.Logger) *Sweeper {
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultSweepInterval
	}
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultLockTTL
	}

	return &Sweeper{
		repo:     repo,
		locker:   locker,
		config:   config,
		logger:   logger,
		stopCh:   make(chan struct{}),
		stoppedC: make(chan struct{}),
	}
}

func (s *Sweeper) GetName() string {
	return "audit-sweeper"
}

func (s *Sweeper) DependsOn() []string {
	return []string{"database"}
}

// Start starts the sweeper
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.logger.WithContext(ctx).Infof("Starting audit sweeper: sweep_interval=%s", s.config.SweepInterval)

	go s.pollLoop(ctx)

	return nil
}

// Stop stops the sweeper gracefully
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)

	select {
	case <-s.stoppedC:
		s.logger.WithContext(ctx).Info("Audit sweeper stopped")
	case <-ctx.Done():
		s.logger.WithContext(ctx).Warn("Audit sweeper shutdown timed out")
		return ctx.Err()
	}

	return nil
}

func (s *Sweeper) pollLoop(ctx context.Context) {
	defer close(s.stoppedC)

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	s.runSweepCycle(ctx)

	for {
		select {
		case <-s.stopCh:
			s.logger.WithContext(ctx).Debug("Audit sweeper poll loop stopping")
			return
		case <-ticker.C:
			s.runSweepCycle(ctx)
		}
	}
}

func (s *Sweeper) runSweepCycle(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, "AuditSweeper.runSweepCycle")
	defer span.End()

	lock, err := s.locker.Acquire(ctx, sweepLockKey, s.config.LockTTL)
	if err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			s.logger.WithContext(ctx).Debug("Audit sweep already running elsewhere")
			return
		}
		s.logger.WithContext(ctx).WithError(err).Error("Failed to acquire audit sweep lock")
		return
	}
	defer lock.Release(ctx)

	deleted, err := s.repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Audit sweep failed")
		return
	}

	if deleted > 0 {
		metrics.AuditRecordsExpired.Add(float64(deleted))
		s.logger.WithContext(ctx).Infof("Audit sweep removed %d expired records", deleted)
	}
}
