package mocks

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
)

// MockERPClient is a mock implementation of ERPClient for testing
type MockERPClient struct {
	AuthenticateFn func(ctx context.Context) (int64, error)
	ExecuteKwFn    func(ctx context.Context, uid int64, model, method string, args []any, kwargs map[string]any) (any, error)
	SearchReadFn   func(ctx context.Context, uid int64, model string, filter []any, fields []string) ([]map[string]any, error)
}

func NewMockERPClient() *MockERPClient {
	return &MockERPClient{}
}

func (m *MockERPClient) Authenticate(ctx context.Context) (int64, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx)
	}
	return 1, nil
}

func (m *MockERPClient) ExecuteKw(ctx context.Context, uid int64, model, method string, args []any, kwargs map[string]any) (any, error) {
	if m.ExecuteKwFn != nil {
		return m.ExecuteKwFn(ctx, uid, model, method, args, kwargs)
	}
	return nil, nil
}

func (m *MockERPClient) SearchRead(ctx context.Context, uid int64, model string, filter []any, fields []string) ([]map[string]any, error) {
	if m.SearchReadFn != nil {
		return m.SearchReadFn(ctx, uid, model, filter, fields)
	}
	return nil, nil
}

// MockERPClientFactory is a mock implementation of ERPClientFactory for testing
type MockERPClientFactory struct {
	NewFn  func(params domain.ConnectionParams) driven.ERPClient
	client *MockERPClient

	// Params records the parameters of every New call (for test assertions).
	Params []domain.ConnectionParams
}

func NewMockERPClientFactory() *MockERPClientFactory {
	return &MockERPClientFactory{
		client: NewMockERPClient(),
	}
}

func (m *MockERPClientFactory) New(params domain.ConnectionParams) driven.ERPClient {
	m.Params = append(m.Params, params)
	if m.NewFn != nil {
		return m.NewFn(params)
	}
	return m.client
}

// SetClient sets the client returned by New
func (m *MockERPClientFactory) SetClient(c *MockERPClient) {
	m.client = c
}
