package driven

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// ConnectionStore handles ERP connection persistence (PostgreSQL)
type ConnectionStore interface {
	// Save creates or updates a connection
	Save(ctx context.Context, conn *domain.Connection) error

	// Get retrieves a connection by ID
	Get(ctx context.Context, id string) (*domain.Connection, error)

	// GetByName retrieves a connection by name
	GetByName(ctx context.Context, name string) (*domain.Connection, error)

	// List retrieves all connections
	List(ctx context.Context) ([]*domain.Connection, error)

	// ListEnabled retrieves all enabled connections
	ListEnabled(ctx context.Context) ([]*domain.Connection, error)

	// Delete deletes a connection
	Delete(ctx context.Context, id string) error

	// SetEnabled updates the enabled status
	SetEnabled(ctx context.Context, id string, enabled bool) error
}
