package mocks

import (
	"sync"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// Hashing and tokens are trivially reversible so tests stay readable.
type MockAuthAdapter struct {
	mu     sync.Mutex
	tokens map[string]*domain.TokenClaims

	// Custom behavior hooks (optional)
	HashPasswordFn   func(password string) (string, error)
	VerifyPasswordFn func(password, hash string) bool
	GenerateTokenFn  func(claims *domain.TokenClaims) (string, error)
	ParseTokenFn     func(token string) (*domain.TokenClaims, error)
}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{
		tokens: make(map[string]*domain.TokenClaims),
	}
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	if m.HashPasswordFn != nil {
		return m.HashPasswordFn(password)
	}
	return "hashed:" + password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	if m.VerifyPasswordFn != nil {
		return m.VerifyPasswordFn(password, hash)
	}
	return hash == "hashed:"+password
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(claims)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	token := "token-" + claims.SessionID
	m.tokens[token] = claims
	return token, nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	if m.ParseTokenFn != nil {
		return m.ParseTokenFn(token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	claims, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
