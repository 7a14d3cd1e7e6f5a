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

// Ensure userService implements UserService
var _ driving.UserService = (*userService)(nil)

// userService implements the UserService interface
type userService struct {
	store       driven.UserStore
	authAdapter driven.AuthAdapter
}

// NewUserService creates a new UserService
func NewUserService(store driven.UserStore, authAdapter driven.AuthAdapter) driving.UserService {
	return &userService{store: store, authAdapter: authAdapter}
}

// Create creates a new user
func (s *userService) Create(ctx context.Context, req driving.CreateUserRequest) (*domain.UserSummary, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleViewer {
		return nil, fmt.Errorf("role %q: %w", req.Role, domain.ErrInvalidInput)
	}

	if _, err := s.store.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user %q: %w", req.Email, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.authAdapter.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user.ToSummary(), nil
}

// Get retrieves a user by ID
func (s *userService) Get(ctx context.Context, id string) (*domain.UserSummary, error) {
	user, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToSummary(), nil
}

// List retrieves all users
func (s *userService) List(ctx context.Context) ([]*domain.UserSummary, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]*domain.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.ToSummary())
	}
	return summaries, nil
}

// Delete deletes a user
func (s *userService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
