package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeSyncConnection syncs a specific connection for one date
	TaskTypeSyncConnection TaskType = "sync_connection"
	// TaskTypeSyncAll syncs all enabled connections
	TaskTypeSyncAll TaskType = "sync_all"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by workers
type Task struct {
	ID string `json:"id"`

	Type TaskType `json:"type"`

	// Payload contains task-specific data
	// For sync_connection: {"connection_id": "...", "date": "2006-01-02"}
	// For sync_all: {} (empty)
	Payload map[string]string `json:"payload"`

	Status TaskStatus `json:"status"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ScheduledFor is when the task should be processed (for delayed tasks)
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewTask creates a new task with default values
func NewTask(taskType TaskType, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:           uuid.NewString(),
		Type:         taskType,
		Payload:      payload,
		Status:       TaskStatusPending,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// NewSyncConnectionTask creates a task to sync one connection.
// An empty date means "sync today".
func NewSyncConnectionTask(connectionID, date string) *Task {
	payload := map[string]string{"connection_id": connectionID}
	if date != "" {
		payload["date"] = date
	}
	return NewTask(TaskTypeSyncConnection, payload)
}

// NewSyncAllTask creates a task to sync all enabled connections
func NewSyncAllTask() *Task {
	return NewTask(TaskTypeSyncAll, nil)
}

// ConnectionID extracts the connection_id from the payload
func (t *Task) ConnectionID() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload["connection_id"]
}

// Date extracts the target date from the payload, empty for "today"
func (t *Task) Date() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload["date"]
}

// MarkProcessing transitions the task to processing state
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.Attempts++
	t.StartedAt = &now
	t.UpdatedAt = now
}

// MarkCompleted transitions the task to completed state
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// CanRetry reports whether the task has attempts left
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// MarkFailed records a failure; the task goes back to pending until
// MaxAttempts is exhausted.
func (t *Task) MarkFailed(reason string) {
	t.Error = reason
	if t.Attempts >= t.MaxAttempts {
		t.Status = TaskStatusFailed
	} else {
		t.Status = TaskStatusPending
	}
	t.UpdatedAt = time.Now()
}
