// Package scheduler runs periodic background maintenance.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	appinventory "github.com/medishare/backend/internal/application/inventory"
)

var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrRunInProgress       = errors.New("refresh already in progress")
	ErrInvalidConfig       = errors.New("invalid scheduler configuration")
)

// Refresher reclassifies stored inventory against the current date
type Refresher interface {
	Refresh(ctx context.Context) (*appinventory.RefreshStats, error)
}

// RefreshSchedulerConfig holds configuration for the status refresh loop
type RefreshSchedulerConfig struct {
	Enabled bool

	// Interval between passes. The first pass runs at Start.
	Interval time.Duration

	// RunTimeout bounds a single pass
	RunTimeout time.Duration
}

// DefaultRefreshSchedulerConfig returns default configuration
func DefaultRefreshSchedulerConfig() RefreshSchedulerConfig {
	return RefreshSchedulerConfig{
		Enabled:    true,
		Interval:   time.Hour,
		RunTimeout: 5 * time.Minute,
	}
}

// RefreshScheduler periodically moves inventory items into Expiring Soon
// and Expired as their dates approach. Passes never overlap.
type RefreshScheduler struct {
	refresher Refresher
	logger    *zap.Logger
	config    RefreshSchedulerConfig

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	running atomic.Bool
	runs    atomic.Int64
	lastRun atomic.Pointer[appinventory.RefreshStats]
}

// NewRefreshScheduler creates a new scheduler
func NewRefreshScheduler(refresher Refresher, logger *zap.Logger, config RefreshSchedulerConfig) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		logger:    logger.Named("refresh_scheduler"),
		config:    config,
	}
}

// Start launches the loop. Starting a disabled or running scheduler is a no-op.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		s.logger.Info("Inventory status refresh is disabled")
		return nil
	}
	if s.config.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if s.config.RunTimeout <= 0 {
		s.config.RunTimeout = s.config.Interval
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.isRunning = true

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Inventory status refresh started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("run_timeout", s.config.RunTimeout),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight pass, bounded by ctx
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Inventory status refresh stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Inventory status refresh stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *RefreshScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow performs a pass immediately, outside the ticker
func (s *RefreshScheduler) RunNow(ctx context.Context) (*appinventory.RefreshStats, error) {
	if !s.IsRunning() {
		return nil, ErrSchedulerNotRunning
	}
	return s.execute(ctx)
}

// Runs returns the number of completed passes
func (s *RefreshScheduler) Runs() int64 {
	return s.runs.Load()
}

// LastRun returns the stats of the most recent successful pass, or nil
func (s *RefreshScheduler) LastRun() *appinventory.RefreshStats {
	return s.lastRun.Load()
}

func (s *RefreshScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *RefreshScheduler) tick(ctx context.Context) {
	if _, err := s.execute(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("Inventory status refresh failed", zap.Error(err))
	}
}

func (s *RefreshScheduler) execute(ctx context.Context) (*appinventory.RefreshStats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	started := time.Now()
	stats, err := s.refresher.Refresh(runCtx)
	if err != nil {
		return nil, err
	}
	s.runs.Add(1)
	s.lastRun.Store(stats)
	s.logger.Debug("Inventory status refresh pass finished",
		zap.Int("scanned", stats.Scanned),
		zap.Int("changed", stats.Changed),
		zap.Duration("duration", time.Since(started)),
	)
	return stats, nil
}
