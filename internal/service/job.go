package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/redis"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// JobService owns the job lifecycle. Every mutation of a job goes through
// Transition under a per-job Redis lock, so at most one transition commits at
// a time; the version column catches anything that slips past the lock.
type JobService struct {
	jobRepo        repository.JobRepository
	contractorRepo repository.ContractorRepository
	lockStore      redis.LockStoreInterface
	cacheStore     *redis.CacheStore
	pricing        *PricingEngine
	surge          *SurgeResolver
	matcher        *DispatchMatcher
	settlement     *SettlementService
	notifier       *NotificationService
	log            *logrus.Logger
}

// NewJobService creates a new JobService.
func NewJobService(
	jobRepo repository.JobRepository,
	contractorRepo repository.ContractorRepository,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	pricing *PricingEngine,
	surge *SurgeResolver,
	matcher *DispatchMatcher,
	settlement *SettlementService,
	notifier *NotificationService,
	log *logrus.Logger,
) *JobService {
	return &JobService{
		jobRepo:        jobRepo,
		contractorRepo: contractorRepo,
		lockStore:      lockStore,
		cacheStore:     cacheStore,
		pricing:        pricing,
		surge:          surge,
		matcher:        matcher,
		settlement:     settlement,
		notifier:       notifier,
		log:            log,
	}
}

// BookRequest contains the parameters for booking a job.
type BookRequest struct {
	TenantID       string
	CustomerID     string
	Address        string
	Lat            float64
	Lng            float64
	Items          []ItemRequest
	VolumeEstimate float64
	VolumeAdj      float64
	Photos         []string
	ScheduledAt    time.Time // zero means as soon as possible
}

// Book prices and persists a new job in the pending state. The quote is
// frozen onto the job; later rule or zone changes never reprice it.
func (s *JobService) Book(ctx context.Context, req BookRequest) (*domain.Job, error) {
	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrInvalidAddress
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return nil, ErrInvalidLocation
	}

	scheduledAt := req.ScheduledAt
	if scheduledAt.IsZero() {
		scheduledAt = time.Now()
	}

	multiplier, err := s.surge.Resolve(ctx, req.TenantID, req.Lat, req.Lng, scheduledAt)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricing.Quote(ctx, QuoteRequest{
		TenantID:        req.TenantID,
		Items:           req.Items,
		VolumeAdj:       req.VolumeAdj,
		SurgeMultiplier: multiplier,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &domain.Job{
		ID:               uuid.NewString(),
		TenantID:         req.TenantID,
		CustomerID:       req.CustomerID,
		Status:           domain.JobStatusPending,
		Address:          req.Address,
		Lat:              req.Lat,
		Lng:              req.Lng,
		Items:            quote.Items,
		VolumeEstimate:   req.VolumeEstimate,
		Photos:           req.Photos,
		ConfirmationCode: newConfirmationCode(),
		ScheduledAt:      scheduledAt,
		PriceItems:       quote.PriceItems,
		PriceVolumeAdj:   quote.PriceVolumeAdj,
		PriceSurge:       quote.PriceSurge,
		PriceServiceFee:  quote.PriceServiceFee,
		PriceTotal:       quote.PriceTotal,
		SurgeMultiplier:  quote.SurgeMultiplier,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": job.TenantID,
		"job_id":    job.ID,
		"total":     job.PriceTotal,
		"surge":     job.SurgeMultiplier,
	}).Info("job booked")

	return job, nil
}

// Get retrieves a job.
func (s *JobService) Get(ctx context.Context, tenantID, jobID string) (*domain.Job, error) {
	return s.jobRepo.GetByID(ctx, tenantID, jobID)
}

// List retrieves jobs matching the filter.
func (s *JobService) List(ctx context.Context, tenantID string, filter repository.JobFilter) ([]*domain.Job, error) {
	return s.jobRepo.List(ctx, tenantID, filter)
}

// TransitionRequest contains the parameters for a lifecycle transition.
type TransitionRequest struct {
	TenantID string
	JobID    string
	Target   domain.JobStatus

	// DriverID is the contractor to assign (required when Target is
	// assigned). For driver-progress transitions it is the acting driver
	// and must match the job's assignment when set.
	DriverID string

	// Reason is required when Target is cancelled.
	Reason string
}

// Transition moves a job to the target status under the per-job lock. On any
// error the job is left unchanged.
func (s *JobService) Transition(ctx context.Context, req TransitionRequest) (*domain.Job, error) {
	locked, err := s.lockStore.AcquireJobLock(ctx, req.TenantID, req.JobID, jobLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrConcurrentModification
	}
	defer func() {
		if err := s.lockStore.ReleaseJobLock(context.Background(), req.TenantID, req.JobID); err != nil {
			s.log.WithError(err).WithField("job_id", req.JobID).Warn("failed to release job lock")
		}
	}()

	job, err := s.jobRepo.GetByID(ctx, req.TenantID, req.JobID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransitionJob(job.Status, req.Target) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()

	switch req.Target {
	case domain.JobStatusConfirmed:
		if job.Status == domain.JobStatusAssigned {
			// Unassign: the job returns to the dispatch pool.
			s.invalidateContractor(ctx, job.DriverID)
			job.DriverID = ""
			job.AcceptedAt = time.Time{}
		}

	case domain.JobStatusAssigned:
		if req.DriverID == "" {
			return nil, ErrDriverRequired
		}
		if !job.AcceptedAt.IsZero() {
			return nil, ErrDuplicateTransition
		}
		if _, err := s.matcher.Revalidate(ctx, req.TenantID, req.DriverID); err != nil {
			return nil, err
		}
		clocked, err := s.lockStore.AcquireContractorLock(ctx, req.TenantID, req.DriverID, contractorLockTTL)
		if err != nil {
			return nil, err
		}
		if !clocked {
			return nil, ErrCandidateUnavailable
		}
		defer func() {
			_ = s.lockStore.ReleaseContractorLock(context.Background(), req.TenantID, req.DriverID)
		}()
		job.DriverID = req.DriverID
		job.AcceptedAt = now
		s.invalidateContractor(ctx, req.DriverID)

	case domain.JobStatusEnRoute, domain.JobStatusArrived:
		if req.DriverID != "" && req.DriverID != job.DriverID {
			return nil, ErrDriverNotAssignedToJob
		}

	case domain.JobStatusInProgress:
		if req.DriverID != "" && req.DriverID != job.DriverID {
			return nil, ErrDriverNotAssignedToJob
		}
		if !job.StartedAt.IsZero() {
			return nil, ErrDuplicateTransition
		}
		job.StartedAt = now

	case domain.JobStatusCompleted:
		if req.DriverID != "" && req.DriverID != job.DriverID {
			return nil, ErrDriverNotAssignedToJob
		}
		if !job.CompletedAt.IsZero() {
			return nil, ErrDuplicateTransition
		}
		job.CompletedAt = now
		payout, commission := s.settlement.Split(job.PriceTotal, job.PriceServiceFee)
		job.DriverPayout = payout
		job.PlatformCommission = commission

	case domain.JobStatusCancelled:
		if strings.TrimSpace(req.Reason) == "" {
			return nil, ErrCancellationReasonRequired
		}
		if !job.CancelledAt.IsZero() {
			return nil, ErrDuplicateTransition
		}
		job.CancelledAt = now
		job.CancellationReason = req.Reason
	}

	job.Status = req.Target
	job.UpdatedAt = now

	if err := s.jobRepo.Update(ctx, job); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": job.TenantID,
		"job_id":    job.ID,
		"status":    job.Status,
	}).Info("job transitioned")

	s.afterTransition(ctx, job)

	return job, nil
}

// afterTransition runs the side effects that follow a committed transition.
// They are best effort; failures are logged and never roll the job back.
func (s *JobService) afterTransition(ctx context.Context, job *domain.Job) {
	switch job.Status {
	case domain.JobStatusAssigned:
		s.notifier.NotifyDriverAssigned(ctx, job)
	case domain.JobStatusCompleted:
		if err := s.settlement.Settle(ctx, job); err != nil {
			s.log.WithError(err).WithField("job_id", job.ID).Error("settlement failed")
		}
		s.bumpContractorStats(ctx, job)
		s.notifier.NotifyJobCompleted(ctx, job)
	case domain.JobStatusCancelled:
		s.notifier.NotifyJobCancelled(ctx, job)
	}
}

// bumpContractorStats refreshes the assigned contractor's completed-job count.
func (s *JobService) bumpContractorStats(ctx context.Context, job *domain.Job) {
	if job.DriverID == "" {
		return
	}
	contractor, err := s.contractorRepo.GetByID(ctx, job.TenantID, job.DriverID)
	if err != nil {
		s.log.WithError(err).WithField("driver_id", job.DriverID).Warn("failed to load contractor for stats")
		return
	}
	if err := s.contractorRepo.UpdateStats(ctx, job.TenantID, job.DriverID, contractor.AvgRating, contractor.TotalJobs+1); err != nil {
		s.log.WithError(err).WithField("driver_id", job.DriverID).Warn("failed to update contractor stats")
	}
	s.invalidateContractor(ctx, job.DriverID)
}

// AutoAssign walks the ranked candidate list and assigns the first contractor
// that survives revalidation. Candidates that went offline or got locked by a
// competing assignment are skipped.
func (s *JobService) AutoAssign(ctx context.Context, tenantID, jobID string, radiusKm float64) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.matcher.FindCandidates(ctx, CandidateRequest{
		TenantID: tenantID,
		Lat:      job.Lat,
		Lng:      job.Lng,
		RadiusKm: radiusKm,
	})
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		assigned, err := s.Transition(ctx, TransitionRequest{
			TenantID: tenantID,
			JobID:    jobID,
			Target:   domain.JobStatusAssigned,
			DriverID: candidate.ContractorID,
		})
		if err != nil {
			if errors.Is(err, ErrCandidateUnavailable) {
				continue
			}
			return nil, err
		}
		return assigned, nil
	}

	return nil, ErrNoCandidatesFound
}

func (s *JobService) invalidateContractor(ctx context.Context, contractorID string) {
	if s.cacheStore == nil || contractorID == "" {
		return
	}
	if err := s.cacheStore.InvalidateContractor(ctx, contractorID); err != nil {
		s.log.WithError(err).WithField("contractor_id", contractorID).Warn("failed to invalidate contractor cache")
	}
}

// newConfirmationCode returns a short customer-facing booking code.
func newConfirmationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
