package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore implements driven.SummaryStore using PostgreSQL.
// The (location_id, date) primary key plus ON CONFLICT makes repeated syncs
// of the same date idempotent: the second run overwrites the first.
type SummaryStore struct {
	db *DB
}

// NewSummaryStore creates a new SummaryStore
func NewSummaryStore(db *DB) *SummaryStore {
	return &SummaryStore{db: db}
}

const summaryColumns = `location_id, to_char(date, 'YYYY-MM-DD'), location_name, connection_id, total, order_count, payments, top_products, delivered, updated_at`

// Upsert creates or replaces the summary for its (location, date) key
func (s *SummaryStore) Upsert(ctx context.Context, summary *domain.DailySummary) error {
	paymentsJSON, err := json.Marshal(summary.Payments)
	if err != nil {
		return err
	}
	productsJSON, err := json.Marshal(summary.TopProducts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO daily_summaries (location_id, date, location_name, connection_id, total, order_count, payments, top_products, delivered, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (location_id, date) DO UPDATE SET
			location_name = EXCLUDED.location_name,
			connection_id = EXCLUDED.connection_id,
			total = EXCLUDED.total,
			order_count = EXCLUDED.order_count,
			payments = EXCLUDED.payments,
			top_products = EXCLUDED.top_products,
			delivered = EXCLUDED.delivered,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		summary.LocationID,
		summary.Date,
		summary.LocationName,
		summary.ConnectionID,
		summary.Total,
		summary.OrderCount,
		paymentsJSON,
		productsJSON,
		summary.Delivered,
		summary.UpdatedAt,
	)
	return err
}

// Get retrieves one summary by location and date
func (s *SummaryStore) Get(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE location_id = $1 AND date = $2`
	return scanSummary(s.db.QueryRowContext(ctx, query, locationID, date))
}

// ListByDate retrieves all location summaries for a date
func (s *SummaryStore) ListByDate(ctx context.Context, date string) ([]*domain.DailySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE date = $1 ORDER BY location_name`
	return s.list(ctx, query, date)
}

// ListByConnection retrieves summaries for a connection within a date range
func (s *SummaryStore) ListByConnection(ctx context.Context, connectionID, fromDate, toDate string) ([]*domain.DailySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE connection_id = $1`
	args := []any{connectionID}
	if fromDate != "" {
		args = append(args, fromDate)
		query += ` AND date >= $2`
	}
	if toDate != "" {
		args = append(args, toDate)
		if fromDate != "" {
			query += ` AND date <= $3`
		} else {
			query += ` AND date <= $2`
		}
	}
	query += ` ORDER BY date DESC, location_name`
	return s.list(ctx, query, args...)
}

// SetDelivered updates the delivered flag for a summary
func (s *SummaryStore) SetDelivered(ctx context.Context, locationID int64, date string, delivered bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE daily_summaries SET delivered = $1 WHERE location_id = $2 AND date = $3`,
		delivered, locationID, date)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SummaryStore) list(ctx context.Context, query string, args ...any) ([]*domain.DailySummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.DailySummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func scanSummary(row rowScanner) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	var paymentsJSON, productsJSON []byte

	err := row.Scan(
		&summary.LocationID,
		&summary.Date,
		&summary.LocationName,
		&summary.ConnectionID,
		&summary.Total,
		&summary.OrderCount,
		&paymentsJSON,
		&productsJSON,
		&summary.Delivered,
		&summary.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(paymentsJSON, &summary.Payments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(productsJSON, &summary.TopProducts); err != nil {
		return nil, err
	}
	return &summary, nil
}
