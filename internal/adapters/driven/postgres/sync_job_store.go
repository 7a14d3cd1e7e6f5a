package postgres

import (
	"context"
	"database/sql"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SyncJobStore = (*SyncJobStore)(nil)

// SyncJobStore implements driven.SyncJobStore using PostgreSQL.
// Jobs are append-only audit records; there is no update path.
type SyncJobStore struct {
	db *DB
}

// NewSyncJobStore creates a new SyncJobStore
func NewSyncJobStore(db *DB) *SyncJobStore {
	return &SyncJobStore{db: db}
}

const syncJobColumns = `id, connection_id, status, message, to_char(date, 'YYYY-MM-DD'), created_at`

// Save records a finished sync run
func (s *SyncJobStore) Save(ctx context.Context, job *domain.SyncJob) error {
	query := `
		INSERT INTO sync_jobs (id, connection_id, status, message, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.ConnectionID,
		string(job.Status),
		job.Message,
		job.Date,
		job.CreatedAt,
	)
	return err
}

// Get retrieves a sync job by ID
func (s *SyncJobStore) Get(ctx context.Context, id string) (*domain.SyncJob, error) {
	query := `SELECT ` + syncJobColumns + ` FROM sync_jobs WHERE id = $1`
	return scanSyncJob(s.db.QueryRowContext(ctx, query, id))
}

// List retrieves the most recent sync jobs, newest first
func (s *SyncJobStore) List(ctx context.Context, limit int) ([]*domain.SyncJob, error) {
	query := `SELECT ` + syncJobColumns + ` FROM sync_jobs ORDER BY created_at DESC LIMIT $1`
	return s.list(ctx, query, limit)
}

// ListByConnection retrieves recent sync jobs for a connection, newest first
func (s *SyncJobStore) ListByConnection(ctx context.Context, connectionID string, limit int) ([]*domain.SyncJob, error) {
	query := `SELECT ` + syncJobColumns + ` FROM sync_jobs WHERE connection_id = $1 ORDER BY created_at DESC LIMIT $2`
	return s.list(ctx, query, connectionID, limit)
}

func (s *SyncJobStore) list(ctx context.Context, query string, args ...any) ([]*domain.SyncJob, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.SyncJob
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanSyncJob(row rowScanner) (*domain.SyncJob, error) {
	var job domain.SyncJob
	var status string
	err := row.Scan(
		&job.ID,
		&job.ConnectionID,
		&status,
		&job.Message,
		&job.Date,
		&job.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	job.Status = domain.SyncJobStatus(status)
	return &job, nil
}
