package driving

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// ClosingService exposes synced daily closings and sync job history
type ClosingService interface {
	// GetClosing retrieves one location's closing for a date
	GetClosing(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error)

	// ListClosings retrieves all location closings for a date
	ListClosings(ctx context.Context, date string) ([]*domain.DailySummary, error)

	// ListClosingsByConnection retrieves closings for a connection within
	// an inclusive date range; empty bounds are open
	ListClosingsByConnection(ctx context.Context, connectionID, fromDate, toDate string) ([]*domain.DailySummary, error)

	// MarkDelivered flags a closing as delivered to its recipients
	MarkDelivered(ctx context.Context, locationID int64, date string) error

	// ListJobs retrieves recent sync jobs, newest first
	ListJobs(ctx context.Context, limit int) ([]*domain.SyncJob, error)

	// ListJobsByConnection retrieves recent sync jobs for one connection
	ListJobsByConnection(ctx context.Context, connectionID string, limit int) ([]*domain.SyncJob, error)
}
