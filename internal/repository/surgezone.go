package repository

import (
	"context"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// SurgeZoneRepository defines the persistence operations for surge zones.
type SurgeZoneRepository interface {
	// Create persists a new zone.
	Create(ctx context.Context, zone *domain.SurgeZone) error

	// GetByID retrieves a zone by ID.
	GetByID(ctx context.Context, tenantID, id string) (*domain.SurgeZone, error)

	// GetAll retrieves zones for a tenant; activeOnly filters to active.
	GetAll(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.SurgeZone, error)

	// Update persists boundary, multiplier, schedule, and active flag.
	Update(ctx context.Context, zone *domain.SurgeZone) error
}
