package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven/mocks"
)

func newTestScheduler(t *testing.T, queue *mocks.MockTaskQueue, lock *mocks.MockDistributedLock, clock time.Time) *Scheduler {
	t.Helper()
	s, err := NewScheduler(SchedulerConfig{
		TaskQueue: queue,
		Lock:      lock,
		Logger:    slog.New(slog.NewTextHandler(testWriter{t}, nil)),
		SyncTime:  "23:55",
		Location:  time.UTC,
	})
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.now = func() time.Time { return clock }
	return s
}

func TestSchedulerEnqueuesAfterSyncTime(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	lock := mocks.NewMockDistributedLock()
	s := newTestScheduler(t, queue, lock,
		time.Date(2024, 6, 1, 23, 56, 0, 0, time.UTC))

	s.checkAndEnqueue(context.Background())

	if queue.PendingCount() != 1 {
		t.Fatalf("pending = %d, want 1", queue.PendingCount())
	}
	task, err := queue.Dequeue(context.Background())
	if err != nil || task == nil {
		t.Fatalf("dequeue: %v %v", task, err)
	}
	if task.Type != domain.TaskTypeSyncAll {
		t.Errorf("task type = %q", task.Type)
	}
}

func TestSchedulerWaitsForSyncTime(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	s := newTestScheduler(t, queue, nil,
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	s.checkAndEnqueue(context.Background())

	if queue.PendingCount() != 0 {
		t.Errorf("pending = %d, want 0 before the closing time", queue.PendingCount())
	}
}

func TestSchedulerEnqueuesOncePerDay(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	lock := mocks.NewMockDistributedLock()
	s := newTestScheduler(t, queue, lock,
		time.Date(2024, 6, 1, 23, 56, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		s.checkAndEnqueue(context.Background())
	}
	if queue.PendingCount() != 1 {
		t.Errorf("pending = %d, want the daily task exactly once", queue.PendingCount())
	}

	// Next day, after the closing time again.
	s.now = func() time.Time { return time.Date(2024, 6, 2, 23, 56, 0, 0, time.UTC) }
	s.checkAndEnqueue(context.Background())
	if queue.PendingCount() != 2 {
		t.Errorf("pending = %d, want a new task the next day", queue.PendingCount())
	}
}

func TestSchedulerSkipsWhenLockHeld(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	lock := mocks.NewMockDistributedLock()
	lock.SetLockHeld("scheduler:daily:2024-06-01", time.Hour)
	s := newTestScheduler(t, queue, lock,
		time.Date(2024, 6, 1, 23, 56, 0, 0, time.UTC))

	s.checkAndEnqueue(context.Background())

	if queue.PendingCount() != 0 {
		t.Errorf("pending = %d, want 0 when another instance holds the day", queue.PendingCount())
	}
}

func TestSchedulerRejectsBadSyncTime(t *testing.T) {
	_, err := NewScheduler(SchedulerConfig{
		TaskQueue: mocks.NewMockTaskQueue(),
		SyncTime:  "25:99",
	})
	if err == nil {
		t.Fatal("want error for invalid sync time")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	s := newTestScheduler(t, queue, nil,
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// Stopping twice is a no-op.
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
