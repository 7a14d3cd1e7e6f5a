package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
	"github.com/andina-labs/cierre-core/internal/core/ports/driving"
)

// Ensure connectionService implements ConnectionService
var _ driving.ConnectionService = (*connectionService)(nil)

// connectionService implements the ConnectionService interface
type connectionService struct {
	store      driven.ConnectionStore
	cipher     driven.SecretCipher
	erpFactory driven.ERPClientFactory
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	store driven.ConnectionStore,
	cipher driven.SecretCipher,
	erpFactory driven.ERPClientFactory,
) driving.ConnectionService {
	return &connectionService{
		store:      store,
		cipher:     cipher,
		erpFactory: erpFactory,
	}
}

// Create registers a new connection, encrypting the API key
func (s *connectionService) Create(ctx context.Context, creatorID string, req driving.CreateConnectionRequest) (*domain.Connection, error) {
	if req.Name == "" || req.BaseURL == "" || req.Database == "" || req.Username == "" || req.APIKey == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.store.GetByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("connection %q: %w", req.Name, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	blob, err := s.cipher.EncryptString(req.APIKey)
	if err != nil {
		return nil, fmt.Errorf("encrypting api key: %w", err)
	}

	now := time.Now()
	conn := &domain.Connection{
		ID:         uuid.NewString(),
		Name:       req.Name,
		BaseURL:    req.BaseURL,
		Database:   req.Database,
		Username:   req.Username,
		APIKeyBlob: blob,
		Version:    req.Version,
		CompanyIDs: req.CompanyIDs,
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
		CreatedBy:  creatorID,
	}
	if err := s.store.Save(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Get retrieves a connection by ID
func (s *connectionService) Get(ctx context.Context, id string) (*domain.Connection, error) {
	return s.store.Get(ctx, id)
}

// List retrieves all connections
func (s *connectionService) List(ctx context.Context) ([]*domain.Connection, error) {
	return s.store.List(ctx)
}

// Update updates a connection
func (s *connectionService) Update(ctx context.Context, id string, req driving.UpdateConnectionRequest) (*domain.Connection, error) {
	conn, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		conn.Name = *req.Name
	}
	if req.BaseURL != nil {
		conn.BaseURL = *req.BaseURL
	}
	if req.Database != nil {
		conn.Database = *req.Database
	}
	if req.Username != nil {
		conn.Username = *req.Username
	}
	if req.APIKey != nil {
		blob, err := s.cipher.EncryptString(*req.APIKey)
		if err != nil {
			return nil, fmt.Errorf("encrypting api key: %w", err)
		}
		conn.APIKeyBlob = blob
	}
	if req.Version != nil {
		conn.Version = *req.Version
	}
	if req.CompanyIDs != nil {
		conn.CompanyIDs = *req.CompanyIDs
	}
	if req.Enabled != nil {
		conn.Enabled = *req.Enabled
	}
	conn.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Delete deletes a connection
func (s *connectionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Enable enables a connection for scheduled syncs
func (s *connectionService) Enable(ctx context.Context, id string) error {
	return s.store.SetEnabled(ctx, id, true)
}

// Disable disables a connection
func (s *connectionService) Disable(ctx context.Context, id string) error {
	return s.store.SetEnabled(ctx, id, false)
}

// Test verifies credentials against the ERP without storing anything. It
// authenticates and lists the companies visible to the authenticated user,
// which the UI uses to let the operator scope a connection.
func (s *connectionService) Test(ctx context.Context, params domain.ConnectionParams) (*domain.TestResult, error) {
	if params.BaseURL == "" || params.Database == "" || params.Username == "" || params.APIKey == "" {
		return nil, domain.ErrInvalidInput
	}

	client := s.erpFactory.New(params)
	uid, err := client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	records, err := client.SearchRead(ctx, uid, "res.company", nil, []string{"id", "name"})
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}

	companies := make([]domain.Company, 0, len(records))
	for _, record := range records {
		id, _ := record["id"].(int64)
		name, _ := record["name"].(string)
		companies = append(companies, domain.Company{ID: id, Name: name})
	}
	return &domain.TestResult{UserID: uid, Companies: companies}, nil
}

// TestStored verifies the stored credentials of an existing connection
func (s *connectionService) TestStored(ctx context.Context, id string) (*domain.TestResult, error) {
	conn, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apiKey := s.cipher.DecryptString(conn.APIKeyBlob)
	if apiKey == "" {
		return nil, fmt.Errorf("connection %s: %w", id, domain.ErrCredentialUnavailable)
	}
	return s.Test(ctx, domain.ConnectionParams{
		BaseURL:  conn.BaseURL,
		Database: conn.Database,
		Username: conn.Username,
		APIKey:   apiKey,
	})
}
