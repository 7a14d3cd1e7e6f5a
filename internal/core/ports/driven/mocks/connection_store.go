package mocks

import (
	"context"
	"sync"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// MockConnectionStore is a mock implementation of ConnectionStore for testing
type MockConnectionStore struct {
	mu          sync.RWMutex
	connections map[string]*domain.Connection
	byName      map[string]*domain.Connection

	// Custom behavior hooks (optional)
	GetFn func(id string) (*domain.Connection, error)
}

// NewMockConnectionStore creates a new MockConnectionStore
func NewMockConnectionStore() *MockConnectionStore {
	return &MockConnectionStore{
		connections: make(map[string]*domain.Connection),
		byName:      make(map[string]*domain.Connection),
	}
}

func (m *MockConnectionStore) Save(ctx context.Context, conn *domain.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID] = conn
	m.byName[conn.Name] = conn
	return nil
}

func (m *MockConnectionStore) Get(ctx context.Context, id string) (*domain.Connection, error) {
	if m.GetFn != nil {
		return m.GetFn(id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.connections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conn, nil
}

func (m *MockConnectionStore) GetByName(ctx context.Context, name string) (*domain.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conn, nil
}

func (m *MockConnectionStore) List(ctx context.Context) ([]*domain.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Connection
	for _, conn := range m.connections {
		result = append(result, conn)
	}
	return result, nil
}

func (m *MockConnectionStore) ListEnabled(ctx context.Context) ([]*domain.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Connection
	for _, conn := range m.connections {
		if conn.Enabled {
			result = append(result, conn)
		}
	}
	return result, nil
}

func (m *MockConnectionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.connections[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byName, conn.Name)
	delete(m.connections, id)
	return nil
}

func (m *MockConnectionStore) SetEnabled(ctx context.Context, id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.connections[id]
	if !ok {
		return domain.ErrNotFound
	}
	conn.Enabled = enabled
	return nil
}
