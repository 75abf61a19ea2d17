package tests

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/service"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newMatcher(locStore *MockLocationStore, contractorRepo *MockContractorRepository, jobRepo *MockJobRepository) *service.DispatchMatcher {
	return service.NewDispatchMatcher(locStore, nil, contractorRepo, jobRepo, service.DispatchConfig{
		DefaultRadiusKm: 15,
		MaxCandidates:   10,
	}, testLogger())
}

func addDispatchableContractor(repo *MockContractorRepository, locStore *MockLocationStore, id string, lat, lng float64) {
	repo.AddContractor(&domain.Contractor{
		ID:             id,
		TenantID:       testTenant,
		UserID:         "user-" + id,
		IsOnline:       true,
		ApprovalStatus: domain.ApprovalStatusApproved,
	})
	_ = locStore.UpdateLocation(context.Background(), testTenant, id, lat, lng)
}

// ──────────────────────────────────────────────
// 6. DISPATCH MATCHING
// ──────────────────────────────────────────────

func TestFindCandidates_NoneAvailable(t *testing.T) {
	t.Parallel()

	matcher := newMatcher(NewMockLocationStore(), NewMockContractorRepository(), NewMockJobRepository())

	_, err := matcher.FindCandidates(context.Background(), service.CandidateRequest{
		TenantID: testTenant,
		Lat:      37.77,
		Lng:      -122.42,
	})
	if !errors.Is(err, service.ErrNoCandidatesFound) {
		t.Errorf("expected ErrNoCandidatesFound, got %v", err)
	}
}

func TestFindCandidates_RankedByDistance(t *testing.T) {
	t.Parallel()

	locStore := NewMockLocationStore()
	contractorRepo := NewMockContractorRepository()
	jobRepo := NewMockJobRepository()
	matcher := newMatcher(locStore, contractorRepo, jobRepo)

	// far is ~5.5km north, near is ~1.1km north of the pickup.
	addDispatchableContractor(contractorRepo, locStore, "far", 37.82, -122.42)
	addDispatchableContractor(contractorRepo, locStore, "near", 37.78, -122.42)

	candidates, err := matcher.FindCandidates(context.Background(), service.CandidateRequest{
		TenantID: testTenant,
		Lat:      37.77,
		Lng:      -122.42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ContractorID != "near" || candidates[1].ContractorID != "far" {
		t.Errorf("expected [near far], got [%s %s]", candidates[0].ContractorID, candidates[1].ContractorID)
	}
	if candidates[0].DistanceKm >= candidates[1].DistanceKm {
		t.Errorf("expected ascending distances, got %.2f then %.2f", candidates[0].DistanceKm, candidates[1].DistanceKm)
	}
}

func TestFindCandidates_DistanceTieBrokenByLoad(t *testing.T) {
	t.Parallel()

	locStore := NewMockLocationStore()
	contractorRepo := NewMockContractorRepository()
	jobRepo := NewMockJobRepository()
	matcher := newMatcher(locStore, contractorRepo, jobRepo)

	// Same position, so identical distance.
	addDispatchableContractor(contractorRepo, locStore, "busy", 37.78, -122.42)
	addDispatchableContractor(contractorRepo, locStore, "idle", 37.78, -122.42)

	jobRepo.AddJob(&domain.Job{
		ID:       "job-open",
		TenantID: testTenant,
		DriverID: "busy",
		Status:   domain.JobStatusEnRoute,
	})

	candidates, err := matcher.FindCandidates(context.Background(), service.CandidateRequest{
		TenantID: testTenant,
		Lat:      37.77,
		Lng:      -122.42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ContractorID != "idle" {
		t.Errorf("expected idle contractor first on a distance tie, got %s", candidates[0].ContractorID)
	}
}

func TestFindCandidates_FiltersOfflineAndUnapproved(t *testing.T) {
	t.Parallel()

	locStore := NewMockLocationStore()
	contractorRepo := NewMockContractorRepository()
	matcher := newMatcher(locStore, contractorRepo, NewMockJobRepository())

	addDispatchableContractor(contractorRepo, locStore, "good", 37.78, -122.42)

	contractorRepo.AddContractor(&domain.Contractor{
		ID: "offline", TenantID: testTenant, IsOnline: false,
		ApprovalStatus: domain.ApprovalStatusApproved,
	})
	_ = locStore.UpdateLocation(context.Background(), testTenant, "offline", 37.78, -122.42)

	contractorRepo.AddContractor(&domain.Contractor{
		ID: "unapproved", TenantID: testTenant, IsOnline: true,
		ApprovalStatus: domain.ApprovalStatusPending,
	})
	_ = locStore.UpdateLocation(context.Background(), testTenant, "unapproved", 37.78, -122.42)

	candidates, err := matcher.FindCandidates(context.Background(), service.CandidateRequest{
		TenantID: testTenant,
		Lat:      37.77,
		Lng:      -122.42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ContractorID != "good" {
		t.Errorf("expected only the dispatchable contractor, got %+v", candidates)
	}
}

func TestFindCandidates_OutsideRadiusExcluded(t *testing.T) {
	t.Parallel()

	locStore := NewMockLocationStore()
	contractorRepo := NewMockContractorRepository()
	matcher := newMatcher(locStore, contractorRepo, NewMockJobRepository())

	// ~110km away, outside any sane radius.
	addDispatchableContractor(contractorRepo, locStore, "remote", 38.77, -122.42)

	_, err := matcher.FindCandidates(context.Background(), service.CandidateRequest{
		TenantID: testTenant,
		Lat:      37.77,
		Lng:      -122.42,
		RadiusKm: 10,
	})
	if !errors.Is(err, service.ErrNoCandidatesFound) {
		t.Errorf("expected ErrNoCandidatesFound, got %v", err)
	}
}

func TestFindCandidates_StaleGeoEntryDropped(t *testing.T) {
	t.Parallel()

	locStore := NewMockLocationStore()
	contractorRepo := NewMockContractorRepository()
	matcher := newMatcher(locStore, contractorRepo, NewMockJobRepository())

	// A geo entry with no contractor record behind it.
	_ = locStore.UpdateLocation(context.Background(), testTenant, "ghost", 37.78, -122.42)

	_, err := matcher.FindCandidates(context.Background(), service.CandidateRequest{
		TenantID: testTenant,
		Lat:      37.77,
		Lng:      -122.42,
	})
	if !errors.Is(err, service.ErrNoCandidatesFound) {
		t.Errorf("expected ErrNoCandidatesFound, got %v", err)
	}
	if locStore.HasLocation(testTenant, "ghost") {
		t.Error("expected the stale geo entry to be removed")
	}
}

func TestFindCandidates_InvalidLocationRejected(t *testing.T) {
	t.Parallel()

	matcher := newMatcher(NewMockLocationStore(), NewMockContractorRepository(), NewMockJobRepository())

	_, err := matcher.FindCandidates(context.Background(), service.CandidateRequest{
		TenantID: testTenant,
		Lat:      91,
		Lng:      0,
	})
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 7. COMMIT-TIME REVALIDATION
// ──────────────────────────────────────────────

func TestRevalidate_ContractorWentOffline(t *testing.T) {
	t.Parallel()

	contractorRepo := NewMockContractorRepository()
	contractorRepo.AddContractor(&domain.Contractor{
		ID: "c1", TenantID: testTenant, IsOnline: false,
		ApprovalStatus: domain.ApprovalStatusApproved,
	})
	matcher := newMatcher(NewMockLocationStore(), contractorRepo, NewMockJobRepository())

	_, err := matcher.Revalidate(context.Background(), testTenant, "c1")
	if !errors.Is(err, service.ErrCandidateUnavailable) {
		t.Errorf("expected ErrCandidateUnavailable, got %v", err)
	}
}

func TestRevalidate_ContractorSuspended(t *testing.T) {
	t.Parallel()

	contractorRepo := NewMockContractorRepository()
	contractorRepo.AddContractor(&domain.Contractor{
		ID: "c1", TenantID: testTenant, IsOnline: true,
		ApprovalStatus: domain.ApprovalStatusSuspended,
	})
	matcher := newMatcher(NewMockLocationStore(), contractorRepo, NewMockJobRepository())

	_, err := matcher.Revalidate(context.Background(), testTenant, "c1")
	if !errors.Is(err, service.ErrCandidateUnavailable) {
		t.Errorf("expected ErrCandidateUnavailable, got %v", err)
	}
}
