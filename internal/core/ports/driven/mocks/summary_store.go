package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// MockSummaryStore is a mock implementation of SummaryStore for testing.
// Summaries are keyed by (location_id, date) like the real store.
type MockSummaryStore struct {
	mu        sync.RWMutex
	summaries map[string]*domain.DailySummary

	// Custom behavior hooks (optional)
	UpsertFn func(summary *domain.DailySummary) error
}

// NewMockSummaryStore creates a new MockSummaryStore
func NewMockSummaryStore() *MockSummaryStore {
	return &MockSummaryStore{
		summaries: make(map[string]*domain.DailySummary),
	}
}

func summaryKey(locationID int64, date string) string {
	return fmt.Sprintf("%d|%s", locationID, date)
}

func (m *MockSummaryStore) Upsert(ctx context.Context, summary *domain.DailySummary) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(summary)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[summaryKey(summary.LocationID, summary.Date)] = summary
	return nil
}

func (m *MockSummaryStore) Get(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary, ok := m.summaries[summaryKey(locationID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return summary, nil
}

func (m *MockSummaryStore) ListByDate(ctx context.Context, date string) ([]*domain.DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DailySummary
	for _, summary := range m.summaries {
		if summary.Date == date {
			result = append(result, summary)
		}
	}
	return result, nil
}

func (m *MockSummaryStore) ListByConnection(ctx context.Context, connectionID, fromDate, toDate string) ([]*domain.DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DailySummary
	for _, summary := range m.summaries {
		if summary.ConnectionID != connectionID {
			continue
		}
		if fromDate != "" && summary.Date < fromDate {
			continue
		}
		if toDate != "" && summary.Date > toDate {
			continue
		}
		result = append(result, summary)
	}
	return result, nil
}

func (m *MockSummaryStore) SetDelivered(ctx context.Context, locationID int64, date string, delivered bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary, ok := m.summaries[summaryKey(locationID, date)]
	if !ok {
		return domain.ErrNotFound
	}
	summary.Delivered = delivered
	return nil
}

// Count returns the number of stored summaries (for test assertions).
func (m *MockSummaryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.summaries)
}

// MockSyncJobStore is a mock implementation of SyncJobStore for testing
type MockSyncJobStore struct {
	mu   sync.RWMutex
	jobs []*domain.SyncJob

	// Custom behavior hooks (optional)
	SaveFn func(job *domain.SyncJob) error
}

// NewMockSyncJobStore creates a new MockSyncJobStore
func NewMockSyncJobStore() *MockSyncJobStore {
	return &MockSyncJobStore{}
}

func (m *MockSyncJobStore) Save(ctx context.Context, job *domain.SyncJob) error {
	if m.SaveFn != nil {
		return m.SaveFn(job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *MockSyncJobStore) Get(ctx context.Context, id string) (*domain.SyncJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, job := range m.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSyncJobStore) List(ctx context.Context, limit int) ([]*domain.SyncJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SyncJob, 0, len(m.jobs))
	for i := len(m.jobs) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		result = append(result, m.jobs[i])
	}
	return result, nil
}

func (m *MockSyncJobStore) ListByConnection(ctx context.Context, connectionID string, limit int) ([]*domain.SyncJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.SyncJob
	for i := len(m.jobs) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		if m.jobs[i].ConnectionID == connectionID {
			result = append(result, m.jobs[i])
		}
	}
	return result, nil
}

// Jobs returns all saved jobs in insertion order (for test assertions).
func (m *MockSyncJobStore) Jobs() []*domain.SyncJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SyncJob, len(m.jobs))
	copy(result, m.jobs)
	return result
}
