package repository

import (
	"context"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// UserRepository defines the persistence operations for users. Every call is
// scoped to a single tenant.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, tenantID, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error)

	// GetAll retrieves all users for a tenant.
	GetAll(ctx context.Context, tenantID string) ([]*domain.User, error)

	// UpdateStatus sets the account status.
	UpdateStatus(ctx context.Context, tenantID, id string, status domain.UserStatus) error
}
