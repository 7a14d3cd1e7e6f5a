package domain

import "testing"

func TestNewSyncConnectionTask(t *testing.T) {
	task := NewSyncConnectionTask("conn-1", "2024-06-01")

	if task.ID == "" {
		t.Error("expected non-empty task ID")
	}
	if task.Type != TaskTypeSyncConnection {
		t.Errorf("expected type %s, got %s", TaskTypeSyncConnection, task.Type)
	}
	if task.ConnectionID() != "conn-1" {
		t.Errorf("expected connection_id conn-1, got %s", task.ConnectionID())
	}
	if task.Date() != "2024-06-01" {
		t.Errorf("expected date 2024-06-01, got %s", task.Date())
	}
	if task.Status != TaskStatusPending {
		t.Errorf("expected status pending, got %s", task.Status)
	}
}

func TestNewSyncConnectionTask_EmptyDate(t *testing.T) {
	task := NewSyncConnectionTask("conn-1", "")

	if task.Date() != "" {
		t.Errorf("expected empty date, got %s", task.Date())
	}
	if _, ok := task.Payload["date"]; ok {
		t.Error("expected date key to be absent from payload")
	}
}

func TestTask_MarkFailed_Retry(t *testing.T) {
	task := NewSyncAllTask()
	task.MarkProcessing()
	task.MarkFailed("transient failure")

	if task.Status != TaskStatusPending {
		t.Errorf("expected task to return to pending, got %s", task.Status)
	}
	if task.Error != "transient failure" {
		t.Errorf("expected error message recorded, got %q", task.Error)
	}
}

func TestTask_MarkFailed_Exhausted(t *testing.T) {
	task := NewSyncAllTask()
	for i := 0; i < task.MaxAttempts; i++ {
		task.MarkProcessing()
	}
	task.MarkFailed("permanent failure")

	if task.Status != TaskStatusFailed {
		t.Errorf("expected task to fail after %d attempts, got %s", task.MaxAttempts, task.Status)
	}
}
