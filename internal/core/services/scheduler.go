package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
	"github.com/andina-labs/cierre-core/internal/core/ports/driving"
)

// Ensure Scheduler implements the driving port
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler enqueues one sync_all task per day once the configured local
// closing time has passed.
//
// For multi-worker deployments, configure a DistributedLock: the daily
// enqueue is guarded by a date-stamped lock, so only the first instance to
// reach the closing time enqueues the task.
type Scheduler struct {
	taskQueue driven.TaskQueue
	lock      driven.DistributedLock
	logger    *slog.Logger

	location *time.Location
	syncHour int
	syncMin  int
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	now func() time.Time
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	TaskQueue    driven.TaskQueue
	Lock         driven.DistributedLock // Optional: coordination across instances
	Logger       *slog.Logger
	SyncTime     string         // Local wall-clock time "HH:MM" to run the nightly sync (default: "23:55")
	Location     *time.Location // Timezone for SyncTime (default: time.Local)
	PollInterval time.Duration  // How often to check the clock (default: 30s)
}

// NewScheduler creates a new scheduler.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	syncTime := cfg.SyncTime
	if syncTime == "" {
		syncTime = "23:55"
	}
	parsed, err := time.Parse("15:04", syncTime)
	if err != nil {
		return nil, fmt.Errorf("sync time %q: %w", syncTime, domain.ErrInvalidInput)
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	interval := cfg.PollInterval
	if interval == 0 {
		interval = 30 * time.Second
	}

	return &Scheduler{
		taskQueue: cfg.TaskQueue,
		lock:      cfg.Lock,
		logger:    logger,
		location:  location,
		syncHour:  parsed.Hour(),
		syncMin:   parsed.Minute(),
		interval:  interval,
		now:       time.Now,
	}, nil
}

// Start begins the scheduler loop.
// It runs until Stop is called or context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("scheduler starting",
		"sync_time", fmt.Sprintf("%02d:%02d", s.syncHour, s.syncMin),
		"timezone", s.location.String(),
		"poll_interval", s.interval)

	go s.run(ctx)

	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	close(s.stopCh)
	s.mu.Unlock()

	select {
	case <-s.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
	return nil
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.checkAndEnqueue(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler context cancelled")
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.checkAndEnqueue(ctx)
		}
	}
}

// checkAndEnqueue enqueues today's sync_all once the closing time has passed.
// The date-stamped lock both deduplicates across instances and remembers
// that today's task was already enqueued; its TTL outlives the day.
func (s *Scheduler) checkAndEnqueue(ctx context.Context) {
	now := s.now().In(s.location)
	due := time.Date(now.Year(), now.Month(), now.Day(), s.syncHour, s.syncMin, 0, 0, s.location)
	if now.Before(due) {
		return
	}
	date := now.Format(dateLayout)

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, "scheduler:daily:"+date, 26*time.Hour)
		if err != nil {
			s.logger.Warn("failed to acquire scheduler lock", "date", date, "error", err)
			return
		}
		if !acquired {
			return
		}
		// Deliberately never released: the lock is the daily dedup marker.
	}

	task := domain.NewSyncAllTask()
	if err := s.taskQueue.Enqueue(ctx, task); err != nil {
		s.logger.Error("failed to enqueue nightly sync", "date", date, "error", err)
		if s.lock != nil {
			// Give another instance (or the next tick) a chance to retry.
			_ = s.lock.Release(ctx, "scheduler:daily:"+date)
		}
		return
	}

	s.logger.Info("enqueued nightly sync", "date", date, "task_id", task.ID)
}
