package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// SurgeResolver determines the active surge multiplier for a point in space
// and time from the tenant's configured zones.
type SurgeResolver struct {
	zoneRepo repository.SurgeZoneRepository
}

// NewSurgeResolver creates a new SurgeResolver.
func NewSurgeResolver(zoneRepo repository.SurgeZoneRepository) *SurgeResolver {
	return &SurgeResolver{zoneRepo: zoneRepo}
}

// Resolve returns the surge multiplier applicable at the given coordinate
// and instant. When several zones overlap, the maximum multiplier wins; when
// none match, the multiplier is 1.00.
func (s *SurgeResolver) Resolve(ctx context.Context, tenantID string, lat, lng float64, at time.Time) (float64, error) {
	zones, err := s.zoneRepo.GetAll(ctx, tenantID, true)
	if err != nil {
		return 1.0, err
	}

	multiplier := 1.0
	for _, zone := range zones {
		if !zone.AppliesAt(at) {
			continue
		}
		if !zone.Contains(lat, lng) {
			continue
		}
		if zone.Multiplier > multiplier {
			multiplier = zone.Multiplier
		}
	}
	return multiplier, nil
}

// CreateZone adds a surge zone.
func (s *SurgeResolver) CreateZone(ctx context.Context, zone *domain.SurgeZone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	if zone.ID == "" {
		zone.ID = uuid.NewString()
	}
	now := time.Now()
	zone.CreatedAt = now
	zone.UpdatedAt = now
	return s.zoneRepo.Create(ctx, zone)
}

// UpdateZone persists changes to an existing zone.
func (s *SurgeResolver) UpdateZone(ctx context.Context, zone *domain.SurgeZone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	zone.UpdatedAt = time.Now()
	return s.zoneRepo.Update(ctx, zone)
}

// GetZone retrieves a zone by ID.
func (s *SurgeResolver) GetZone(ctx context.Context, tenantID, id string) (*domain.SurgeZone, error) {
	return s.zoneRepo.GetByID(ctx, tenantID, id)
}

// ListZones retrieves the tenant's zones; activeOnly filters to active.
func (s *SurgeResolver) ListZones(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.SurgeZone, error) {
	return s.zoneRepo.GetAll(ctx, tenantID, activeOnly)
}

func validateZone(zone *domain.SurgeZone) error {
	if zone.Multiplier < 1.0 {
		return ErrInvalidMultiplier
	}
	if len(zone.Boundary) < 3 {
		return ErrInvalidBoundary
	}
	return nil
}
