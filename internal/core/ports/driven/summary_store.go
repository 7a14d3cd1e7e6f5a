package driven

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// SummaryStore handles daily closing summary persistence (PostgreSQL).
// Summaries are keyed by (location_id, date); re-syncing a day replaces
// the existing row for each location.
type SummaryStore interface {
	// Upsert creates or replaces the summary for its (location, date) key
	Upsert(ctx context.Context, summary *domain.DailySummary) error

	// Get retrieves one summary by location and date
	Get(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error)

	// ListByDate retrieves all location summaries for a date
	ListByDate(ctx context.Context, date string) ([]*domain.DailySummary, error)

	// ListByConnection retrieves summaries for a connection within a date range
	ListByConnection(ctx context.Context, connectionID, fromDate, toDate string) ([]*domain.DailySummary, error)

	// SetDelivered updates the delivered flag for a summary
	SetDelivered(ctx context.Context, locationID int64, date string, delivered bool) error
}

// SyncJobStore handles sync job audit record persistence (PostgreSQL)
type SyncJobStore interface {
	// Save records a finished sync run
	Save(ctx context.Context, job *domain.SyncJob) error

	// Get retrieves a sync job by ID
	Get(ctx context.Context, id string) (*domain.SyncJob, error)

	// List retrieves the most recent sync jobs, newest first
	List(ctx context.Context, limit int) ([]*domain.SyncJob, error)

	// ListByConnection retrieves recent sync jobs for a connection, newest first
	ListByConnection(ctx context.Context, connectionID string, limit int) ([]*domain.SyncJob, error)
}
