package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/redis"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// ContractorService manages contractor profiles, presence, and location.
// Location reports are last-write-wins: the newest report overwrites both the
// database row and the geo index, with no version check.
type ContractorService struct {
	contractorRepo repository.ContractorRepository
	locationStore  redis.LocationStoreInterface
	cacheStore     *redis.CacheStore
	log            *logrus.Logger
}

// NewContractorService creates a new ContractorService.
func NewContractorService(
	contractorRepo repository.ContractorRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore *redis.CacheStore,
	log *logrus.Logger,
) *ContractorService {
	return &ContractorService{
		contractorRepo: contractorRepo,
		locationStore:  locationStore,
		cacheStore:     cacheStore,
		log:            log,
	}
}

// RegisterContractorRequest contains the parameters for creating a contractor
// profile.
type RegisterContractorRequest struct {
	TenantID      string
	UserID        string
	TruckType     string
	TruckCapacity float64
}

// Register creates a contractor profile in the pending approval state. The
// contractor cannot receive jobs until an admin approves it.
func (s *ContractorService) Register(ctx context.Context, req RegisterContractorRequest) (*domain.Contractor, error) {
	now := time.Now()
	contractor := &domain.Contractor{
		ID:             uuid.NewString(),
		TenantID:       req.TenantID,
		UserID:         req.UserID,
		TruckType:      req.TruckType,
		TruckCapacity:  req.TruckCapacity,
		ApprovalStatus: domain.ApprovalStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.contractorRepo.Create(ctx, contractor); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id":     contractor.TenantID,
		"contractor_id": contractor.ID,
	}).Info("contractor registered")

	return contractor, nil
}

// Get retrieves a contractor by ID.
func (s *ContractorService) Get(ctx context.Context, tenantID, contractorID string) (*domain.Contractor, error) {
	return s.contractorRepo.GetByID(ctx, tenantID, contractorID)
}

// GetByUser retrieves the contractor profile owned by a user.
func (s *ContractorService) GetByUser(ctx context.Context, tenantID, userID string) (*domain.Contractor, error) {
	return s.contractorRepo.GetByUserID(ctx, tenantID, userID)
}

// List retrieves all contractors for a tenant.
func (s *ContractorService) List(ctx context.Context, tenantID string) ([]*domain.Contractor, error) {
	return s.contractorRepo.GetAll(ctx, tenantID)
}

// SetPresence toggles a contractor's online flag. Going offline removes the
// contractor from the geo index so dispatch stops seeing them immediately.
func (s *ContractorService) SetPresence(ctx context.Context, tenantID, contractorID string, online bool) error {
	contractor, err := s.contractorRepo.GetByID(ctx, tenantID, contractorID)
	if err != nil {
		return err
	}
	if online && contractor.ApprovalStatus != domain.ApprovalStatusApproved {
		return ErrContractorNotApproved
	}

	if err := s.contractorRepo.UpdatePresence(ctx, tenantID, contractorID, online); err != nil {
		return err
	}

	if !online {
		if err := s.locationStore.RemoveLocation(ctx, tenantID, contractorID); err != nil {
			s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to remove contractor from geo index")
		}
	} else if contractor.HasLocation {
		if err := s.locationStore.UpdateLocation(ctx, tenantID, contractorID, contractor.CurrentLat, contractor.CurrentLng); err != nil {
			s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to seed geo index")
		}
	}

	s.invalidate(ctx, contractorID)
	return nil
}

// ReportLocation records a contractor's latest position.
func (s *ContractorService) ReportLocation(ctx context.Context, tenantID, contractorID string, lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidLocation
	}

	contractor, err := s.contractorRepo.GetByID(ctx, tenantID, contractorID)
	if err != nil {
		return err
	}

	if err := s.contractorRepo.UpdateLocation(ctx, tenantID, contractorID, lat, lng); err != nil {
		return err
	}

	// Only online contractors belong in the geo index.
	if contractor.IsOnline {
		if err := s.locationStore.UpdateLocation(ctx, tenantID, contractorID, lat, lng); err != nil {
			s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to update geo index")
		}
	}
	return nil
}

// SetApproval sets a contractor's approval status. Suspending or rejecting an
// online contractor pulls them out of the dispatch pool.
func (s *ContractorService) SetApproval(ctx context.Context, tenantID, contractorID string, status domain.ApprovalStatus) error {
	if err := s.contractorRepo.UpdateApproval(ctx, tenantID, contractorID, status); err != nil {
		return err
	}

	if status != domain.ApprovalStatusApproved {
		if err := s.locationStore.RemoveLocation(ctx, tenantID, contractorID); err != nil {
			s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to remove contractor from geo index")
		}
	}

	s.invalidate(ctx, contractorID)

	s.log.WithFields(logrus.Fields{
		"tenant_id":     tenantID,
		"contractor_id": contractorID,
		"status":        status,
	}).Info("contractor approval updated")

	return nil
}

func (s *ContractorService) invalidate(ctx context.Context, contractorID string) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.InvalidateContractor(ctx, contractorID); err != nil {
		s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to invalidate contractor cache")
	}
}
