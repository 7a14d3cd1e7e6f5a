package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConnectionStore = (*ConnectionStore)(nil)

// ConnectionStore implements driven.ConnectionStore using PostgreSQL
type ConnectionStore struct {
	db *DB
}

// NewConnectionStore creates a new ConnectionStore
func NewConnectionStore(db *DB) *ConnectionStore {
	return &ConnectionStore{db: db}
}

const connectionColumns = `id, name, base_url, database, username, api_key, version, company_ids, enabled, created_at, updated_at, created_by`

// Save creates or updates a connection
func (s *ConnectionStore) Save(ctx context.Context, conn *domain.Connection) error {
	query := `
		INSERT INTO connections (` + connectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			base_url = EXCLUDED.base_url,
			database = EXCLUDED.database,
			username = EXCLUDED.username,
			api_key = EXCLUDED.api_key,
			version = EXCLUDED.version,
			company_ids = EXCLUDED.company_ids,
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		conn.ID,
		conn.Name,
		conn.BaseURL,
		conn.Database,
		conn.Username,
		conn.APIKeyBlob,
		conn.Version,
		pq.Array(conn.CompanyIDs),
		conn.Enabled,
		conn.CreatedAt,
		conn.UpdatedAt,
		sql.NullString{String: conn.CreatedBy, Valid: conn.CreatedBy != ""},
	)
	return err
}

// Get retrieves a connection by ID
func (s *ConnectionStore) Get(ctx context.Context, id string) (*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a connection by name
func (s *ConnectionStore) GetByName(ctx context.Context, name string) (*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE name = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, name))
}

// List retrieves all connections
func (s *ConnectionStore) List(ctx context.Context) ([]*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections ORDER BY name`
	return s.list(ctx, query)
}

// ListEnabled retrieves all enabled connections
func (s *ConnectionStore) ListEnabled(ctx context.Context) ([]*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE enabled ORDER BY name`
	return s.list(ctx, query)
}

// Delete deletes a connection
func (s *ConnectionStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
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

// SetEnabled updates the enabled status
func (s *ConnectionStore) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE connections SET enabled = $1, updated_at = NOW() WHERE id = $2`, enabled, id)
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

func (s *ConnectionStore) list(ctx context.Context, query string, args ...any) ([]*domain.Connection, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []*domain.Connection
	for rows.Next() {
		conn, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *ConnectionStore) scanOne(row rowScanner) (*domain.Connection, error) {
	var conn domain.Connection
	var companyIDs pq.Int64Array
	var createdBy sql.NullString

	err := row.Scan(
		&conn.ID,
		&conn.Name,
		&conn.BaseURL,
		&conn.Database,
		&conn.Username,
		&conn.APIKeyBlob,
		&conn.Version,
		&companyIDs,
		&conn.Enabled,
		&conn.CreatedAt,
		&conn.UpdatedAt,
		&createdBy,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	conn.CompanyIDs = companyIDs
	conn.CreatedBy = createdBy.String
	return &conn, nil
}
