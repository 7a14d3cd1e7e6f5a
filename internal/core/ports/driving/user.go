package driving

import (
	"context"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

// CreateUserRequest represents a request to create an operator account
type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

// UserService manages operator accounts (admin operations)
type UserService interface {
	// Create creates a new user (admin only)
	Create(ctx context.Context, req CreateUserRequest) (*domain.UserSummary, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.UserSummary, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.UserSummary, error)

	// Delete deletes a user (admin only)
	Delete(ctx context.Context, id string) error
}
