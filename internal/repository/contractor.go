package repository

import (
	"context"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// ContractorRepository defines the persistence operations for contractors.
type ContractorRepository interface {
	// Create persists a new contractor profile.
	Create(ctx context.Context, contractor *domain.Contractor) error

	// GetByID retrieves a contractor by ID.
	GetByID(ctx context.Context, tenantID, id string) (*domain.Contractor, error)

	// GetByUserID retrieves the contractor profile owned by a user.
	GetByUserID(ctx context.Context, tenantID, userID string) (*domain.Contractor, error)

	// GetAll retrieves all contractors for a tenant.
	GetAll(ctx context.Context, tenantID string) ([]*domain.Contractor, error)

	// UpdateApproval sets the admin approval status.
	UpdateApproval(ctx context.Context, tenantID, id string, status domain.ApprovalStatus) error

	// UpdatePresence sets the online flag.
	UpdatePresence(ctx context.Context, tenantID, id string, online bool) error

	// UpdateLocation records the latest reported position (last-write-wins).
	UpdateLocation(ctx context.Context, tenantID, id string, lat, lng float64) error

	// UpdateStats sets the aggregate rating and completed-job count.
	UpdateStats(ctx context.Context, tenantID, id string, avgRating float64, totalJobs int) error
}
