package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// RatingService handles post-job star ratings. Only participants of a
// completed job may rate, once per direction.
type RatingService struct {
	ratingRepo     repository.RatingRepository
	jobRepo        repository.JobRepository
	contractorRepo repository.ContractorRepository
	log            *logrus.Logger
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	ratingRepo repository.RatingRepository,
	jobRepo repository.JobRepository,
	contractorRepo repository.ContractorRepository,
	log *logrus.Logger,
) *RatingService {
	return &RatingService{
		ratingRepo:     ratingRepo,
		jobRepo:        jobRepo,
		contractorRepo: contractorRepo,
		log:            log,
	}
}

// RateRequest contains the parameters for submitting a rating. RaterUserID
// identifies the acting user; the direction is derived from which side of the
// job they were on.
type RateRequest struct {
	TenantID    string
	JobID       string
	RaterUserID string
	Stars       int
	Comment     string
}

// Rate validates and records a rating on a completed job.
func (s *RatingService) Rate(ctx context.Context, req RateRequest) (*domain.Rating, error) {
	if req.Stars < 1 || req.Stars > 5 {
		return nil, ErrInvalidStars
	}

	job, err := s.jobRepo.GetByID(ctx, req.TenantID, req.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusCompleted {
		return nil, ErrJobNotCompleted
	}

	driverUserID := ""
	if job.DriverID != "" {
		contractor, err := s.contractorRepo.GetByID(ctx, req.TenantID, job.DriverID)
		if err != nil {
			return nil, err
		}
		driverUserID = contractor.UserID
	}

	var direction domain.RatingDirection
	var toUserID string
	switch req.RaterUserID {
	case job.CustomerID:
		direction = domain.RatingCustomerToDriver
		toUserID = driverUserID
	case driverUserID:
		direction = domain.RatingDriverToCustomer
		toUserID = job.CustomerID
	default:
		return nil, ErrNotJobParticipant
	}

	rating := &domain.Rating{
		ID:         uuid.NewString(),
		TenantID:   req.TenantID,
		JobID:      req.JobID,
		Direction:  direction,
		FromUserID: req.RaterUserID,
		ToUserID:   toUserID,
		Stars:      req.Stars,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	if direction == domain.RatingCustomerToDriver && job.DriverID != "" {
		s.refreshContractorRating(ctx, req.TenantID, job.DriverID, driverUserID)
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": rating.TenantID,
		"job_id":    rating.JobID,
		"direction": rating.Direction,
		"stars":     rating.Stars,
	}).Info("rating recorded")

	return rating, nil
}

// ListForUser retrieves ratings received by a user, newest first.
func (s *RatingService) ListForUser(ctx context.Context, tenantID, userID string) ([]*domain.Rating, error) {
	return s.ratingRepo.ListForUser(ctx, tenantID, userID)
}

// AverageForUser returns the mean stars received by a user and the count.
func (s *RatingService) AverageForUser(ctx context.Context, tenantID, userID string) (float64, int, error) {
	return s.ratingRepo.AverageForUser(ctx, tenantID, userID)
}

// refreshContractorRating recomputes the contractor's cached average after a
// new customer rating. Best effort.
func (s *RatingService) refreshContractorRating(ctx context.Context, tenantID, contractorID, driverUserID string) {
	avg, _, err := s.ratingRepo.AverageForUser(ctx, tenantID, driverUserID)
	if err != nil {
		s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to compute contractor average")
		return
	}
	contractor, err := s.contractorRepo.GetByID(ctx, tenantID, contractorID)
	if err != nil {
		s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to load contractor for rating refresh")
		return
	}
	if err := s.contractorRepo.UpdateStats(ctx, tenantID, contractorID, round2(avg), contractor.TotalJobs); err != nil {
		s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to update contractor rating")
	}
}
