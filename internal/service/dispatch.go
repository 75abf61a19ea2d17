package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/redis"
	"github.com/cvsper/junkos-backend/internal/repository"
)

const (
	defaultSearchRadiusKm = 15.0
	contractorLockTTL     = 10 * time.Second
	jobLockTTL            = 30 * time.Second
)

// DispatchConfig contains the tunable matching parameters.
type DispatchConfig struct {
	DefaultRadiusKm float64
	MaxCandidates   int
}

// DefaultDispatchConfig returns the default dispatch configuration.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		DefaultRadiusKm: defaultSearchRadiusKm,
		MaxCandidates:   10,
	}
}

// DispatchMatcher finds contractors for open jobs. The Redis geo index is the
// source of truth for position; eligibility (online, approved) is always
// re-checked against the contractor record because the index can lag a
// presence change.
type DispatchMatcher struct {
	locationStore  redis.LocationStoreInterface
	cacheStore     *redis.CacheStore
	contractorRepo repository.ContractorRepository
	jobRepo        repository.JobRepository
	config         DispatchConfig
	log            *logrus.Logger
}

// NewDispatchMatcher creates a new DispatchMatcher.
func NewDispatchMatcher(
	locationStore redis.LocationStoreInterface,
	cacheStore *redis.CacheStore,
	contractorRepo repository.ContractorRepository,
	jobRepo repository.JobRepository,
	config DispatchConfig,
	log *logrus.Logger,
) *DispatchMatcher {
	if config.DefaultRadiusKm <= 0 {
		config.DefaultRadiusKm = defaultSearchRadiusKm
	}
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = 10
	}
	return &DispatchMatcher{
		locationStore:  locationStore,
		cacheStore:     cacheStore,
		contractorRepo: contractorRepo,
		jobRepo:        jobRepo,
		config:         config,
		log:            log,
	}
}

// Candidate is one dispatchable contractor ranked for a job.
type Candidate struct {
	ContractorID string  `json:"contractor_id"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	DistanceKm   float64 `json:"distance_km"`
	OpenJobs     int     `json:"open_jobs"`
	AvgRating    float64 `json:"avg_rating"`
}

// CandidateRequest contains the parameters for a candidate search.
type CandidateRequest struct {
	TenantID string
	Lat      float64
	Lng      float64
	RadiusKm float64 // 0 uses the configured default
}

// FindCandidates returns dispatchable contractors near the pickup point,
// closest first; ties break toward the contractor with fewer open jobs.
// Returns ErrNoCandidatesFound when nobody qualifies.
func (m *DispatchMatcher) FindCandidates(ctx context.Context, req CandidateRequest) ([]Candidate, error) {
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return nil, ErrInvalidLocation
	}

	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = m.config.DefaultRadiusKm
	}

	locations, err := m.locationStore.FindNearby(ctx, req.TenantID, req.Lat, req.Lng, radiusKm)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, loc := range locations {
		contractor, err := m.loadContractor(ctx, req.TenantID, loc.ContractorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Stale geo entry, e.g. a deleted contractor. Drop it.
				_ = m.locationStore.RemoveLocation(ctx, req.TenantID, loc.ContractorID)
				continue
			}
			return nil, err
		}
		if !contractor.Dispatchable() {
			continue
		}

		openJobs, err := m.jobRepo.CountOpenByDriver(ctx, req.TenantID, loc.ContractorID)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, Candidate{
			ContractorID: loc.ContractorID,
			Lat:          loc.Lat,
			Lng:          loc.Lng,
			DistanceKm:   loc.DistanceKm,
			OpenJobs:     openJobs,
			AvgRating:    contractor.AvgRating,
		})
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidatesFound
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].OpenJobs < candidates[j].OpenJobs
	})

	if len(candidates) > m.config.MaxCandidates {
		candidates = candidates[:m.config.MaxCandidates]
	}

	m.log.WithFields(logrus.Fields{
		"tenant_id":  req.TenantID,
		"radius_km":  radiusKm,
		"candidates": len(candidates),
	}).Debug("dispatch candidate search")

	return candidates, nil
}

// Revalidate confirms a candidate is still dispatchable at commit time. The
// cache is bypassed so the check reflects the current record.
func (m *DispatchMatcher) Revalidate(ctx context.Context, tenantID, contractorID string) (*domain.Contractor, error) {
	contractor, err := m.contractorRepo.GetByID(ctx, tenantID, contractorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCandidateUnavailable
		}
		return nil, err
	}
	if !contractor.Dispatchable() {
		return nil, ErrCandidateUnavailable
	}
	return contractor, nil
}

// loadContractor resolves a contractor through the short-lived cache, falling
// back to the repository on a miss.
func (m *DispatchMatcher) loadContractor(ctx context.Context, tenantID, contractorID string) (*domain.Contractor, error) {
	if m.cacheStore != nil {
		cached, err := m.cacheStore.GetContractor(ctx, contractorID)
		if err == nil && cached != nil && cached.TenantID == tenantID {
			return &domain.Contractor{
				ID:             cached.ID,
				TenantID:       cached.TenantID,
				IsOnline:       cached.IsOnline,
				ApprovalStatus: domain.ApprovalStatus(cached.ApprovalStatus),
				AvgRating:      cached.AvgRating,
			}, nil
		}
	}

	contractor, err := m.contractorRepo.GetByID(ctx, tenantID, contractorID)
	if err != nil {
		return nil, err
	}

	if m.cacheStore != nil {
		_ = m.cacheStore.SetContractor(ctx, &redis.CachedContractor{
			ID:             contractor.ID,
			TenantID:       contractor.TenantID,
			IsOnline:       contractor.IsOnline,
			ApprovalStatus: string(contractor.ApprovalStatus),
			AvgRating:      contractor.AvgRating,
		})
	}
	return contractor, nil
}
