package services

import (
	"context"
	"fmt"
	"time"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
	"github.com/andina-labs/cierre-core/internal/core/ports/driving"
)

const defaultJobLimit = 50

// Ensure closingService implements ClosingService
var _ driving.ClosingService = (*closingService)(nil)

// closingService implements the ClosingService interface
type closingService struct {
	summaries driven.SummaryStore
	jobs      driven.SyncJobStore
}

// NewClosingService creates a new ClosingService
func NewClosingService(summaries driven.SummaryStore, jobs driven.SyncJobStore) driving.ClosingService {
	return &closingService{summaries: summaries, jobs: jobs}
}

// GetClosing retrieves one location's closing for a date
func (s *closingService) GetClosing(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.summaries.Get(ctx, locationID, date)
}

// ListClosings retrieves all location closings for a date
func (s *closingService) ListClosings(ctx context.Context, date string) ([]*domain.DailySummary, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.summaries.ListByDate(ctx, date)
}

// ListClosingsByConnection retrieves closings for a connection in a date range
func (s *closingService) ListClosingsByConnection(ctx context.Context, connectionID, fromDate, toDate string) ([]*domain.DailySummary, error) {
	if connectionID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, d := range []string{fromDate, toDate} {
		if d == "" {
			continue
		}
		if err := validateDate(d); err != nil {
			return nil, err
		}
	}
	return s.summaries.ListByConnection(ctx, connectionID, fromDate, toDate)
}

// MarkDelivered flags a closing as delivered to its recipients
func (s *closingService) MarkDelivered(ctx context.Context, locationID int64, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	return s.summaries.SetDelivered(ctx, locationID, date, true)
}

// ListJobs retrieves recent sync jobs, newest first
func (s *closingService) ListJobs(ctx context.Context, limit int) ([]*domain.SyncJob, error) {
	if limit <= 0 {
		limit = defaultJobLimit
	}
	return s.jobs.List(ctx, limit)
}

// ListJobsByConnection retrieves recent sync jobs for one connection
func (s *closingService) ListJobsByConnection(ctx context.Context, connectionID string, limit int) ([]*domain.SyncJob, error) {
	if connectionID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultJobLimit
	}
	return s.jobs.ListByConnection(ctx, connectionID, limit)
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("date %q: %w", date, domain.ErrInvalidInput)
	}
	return nil
}
