package driving

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// CreateConnectionRequest represents a request to register an ERP connection
type CreateConnectionRequest struct {
	Name       string  `json:"name"`
	BaseURL    string  `json:"base_url"`
	Database   string  `json:"database"`
	Username   string  `json:"username"`
	APIKey     string  `json:"api_key"`
	Version    string  `json:"version,omitempty"`
	CompanyIDs []int64 `json:"company_ids,omitempty"`
}

// UpdateConnectionRequest represents a request to update a connection.
// Nil fields are left unchanged; a non-nil APIKey re-encrypts the secret.
type UpdateConnectionRequest struct {
	Name       *string  `json:"name,omitempty"`
	BaseURL    *string  `json:"base_url,omitempty"`
	Database   *string  `json:"database,omitempty"`
	Username   *string  `json:"username,omitempty"`
	APIKey     *string  `json:"api_key,omitempty"`
	Version    *string  `json:"version,omitempty"`
	CompanyIDs *[]int64 `json:"company_ids,omitempty"`
	Enabled    *bool    `json:"enabled,omitempty"`
}

// ConnectionService manages ERP connections (admin operations)
type ConnectionService interface {
	// Create registers a new connection, encrypting the API key (admin only)
	Create(ctx context.Context, creatorID string, req CreateConnectionRequest) (*domain.Connection, error)

	// Get retrieves a connection by ID
	Get(ctx context.Context, id string) (*domain.Connection, error)

	// List retrieves all connections
	List(ctx context.Context) ([]*domain.Connection, error)

	// Update updates a connection (admin only)
	Update(ctx context.Context, id string, req UpdateConnectionRequest) (*domain.Connection, error)

	// Delete deletes a connection (admin only)
	Delete(ctx context.Context, id string) error

	// Enable enables a connection for scheduled syncs
	Enable(ctx context.Context, id string) error

	// Disable disables a connection
	Disable(ctx context.Context, id string) error

	// Test verifies credentials against the ERP without storing anything,
	// returning the authenticated user id and visible companies
	Test(ctx context.Context, params domain.ConnectionParams) (*domain.TestResult, error)

	// TestStored verifies the stored credentials of an existing connection
	TestStored(ctx context.Context, id string) (*domain.TestResult, error)
}
