package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
	"github.com/cvsper/junkos-backend/internal/service"
)

type ratingHarness struct {
	ratingRepo     *MockRatingRepository
	jobRepo        *MockJobRepository
	contractorRepo *MockContractorRepository
	ratingService  *service.RatingService
}

func newRatingHarness() *ratingHarness {
	h := &ratingHarness{
		ratingRepo:     NewMockRatingRepository(),
		jobRepo:        NewMockJobRepository(),
		contractorRepo: NewMockContractorRepository(),
	}
	h.ratingService = service.NewRatingService(h.ratingRepo, h.jobRepo, h.contractorRepo, testLogger())

	h.contractorRepo.AddContractor(&domain.Contractor{
		ID:             "driver-1",
		TenantID:       testTenant,
		UserID:         "driver-user-1",
		ApprovalStatus: domain.ApprovalStatusApproved,
	})
	h.jobRepo.AddJob(&domain.Job{
		ID:         "job-1",
		TenantID:   testTenant,
		CustomerID: "customer-1",
		DriverID:   "driver-1",
		Status:     domain.JobStatusCompleted,
	})
	return h
}

// ──────────────────────────────────────────────
// 16. RATINGS
// ──────────────────────────────────────────────

func TestRate_CustomerRatesDriver(t *testing.T) {
	t.Parallel()

	h := newRatingHarness()

	rating, err := h.ratingService.Rate(context.Background(), service.RateRequest{
		TenantID:    testTenant,
		JobID:       "job-1",
		RaterUserID: "customer-1",
		Stars:       5,
		Comment:     "fast and careful",
	})
	if err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if rating.Direction != domain.RatingCustomerToDriver {
		t.Errorf("expected customer_to_driver, got %s", rating.Direction)
	}
	if rating.ToUserID != "driver-user-1" {
		t.Errorf("expected the driver's user as ratee, got %s", rating.ToUserID)
	}

	// The contractor's aggregate rating was refreshed.
	if h.contractorRepo.GetContractor("driver-1").AvgRating != 5.0 {
		t.Errorf("expected avg rating 5.0, got %.2f", h.contractorRepo.GetContractor("driver-1").AvgRating)
	}
}

func TestRate_DriverRatesCustomer(t *testing.T) {
	t.Parallel()

	h := newRatingHarness()

	rating, err := h.ratingService.Rate(context.Background(), service.RateRequest{
		TenantID:    testTenant,
		JobID:       "job-1",
		RaterUserID: "driver-user-1",
		Stars:       4,
	})
	if err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if rating.Direction != domain.RatingDriverToCustomer {
		t.Errorf("expected driver_to_customer, got %s", rating.Direction)
	}
	if rating.ToUserID != "customer-1" {
		t.Errorf("expected the customer as ratee, got %s", rating.ToUserID)
	}
}

func TestRate_StarsOutOfRange(t *testing.T) {
	t.Parallel()

	h := newRatingHarness()

	for _, stars := range []int{0, 6, -1} {
		_, err := h.ratingService.Rate(context.Background(), service.RateRequest{
			TenantID:    testTenant,
			JobID:       "job-1",
			RaterUserID: "customer-1",
			Stars:       stars,
		})
		if !errors.Is(err, service.ErrInvalidStars) {
			t.Errorf("stars=%d: expected ErrInvalidStars, got %v", stars, err)
		}
	}
}

func TestRate_JobNotCompleted(t *testing.T) {
	t.Parallel()

	h := newRatingHarness()
	h.jobRepo.AddJob(&domain.Job{
		ID:         "job-2",
		TenantID:   testTenant,
		CustomerID: "customer-1",
		DriverID:   "driver-1",
		Status:     domain.JobStatusInProgress,
	})

	_, err := h.ratingService.Rate(context.Background(), service.RateRequest{
		TenantID:    testTenant,
		JobID:       "job-2",
		RaterUserID: "customer-1",
		Stars:       3,
	})
	if !errors.Is(err, service.ErrJobNotCompleted) {
		t.Errorf("expected ErrJobNotCompleted, got %v", err)
	}
}

func TestRate_NonParticipantRejected(t *testing.T) {
	t.Parallel()

	h := newRatingHarness()

	_, err := h.ratingService.Rate(context.Background(), service.RateRequest{
		TenantID:    testTenant,
		JobID:       "job-1",
		RaterUserID: "stranger",
		Stars:       1,
	})
	if !errors.Is(err, service.ErrNotJobParticipant) {
		t.Errorf("expected ErrNotJobParticipant, got %v", err)
	}
}

func TestRate_OncePerDirection(t *testing.T) {
	t.Parallel()

	h := newRatingHarness()

	_, err := h.ratingService.Rate(context.Background(), service.RateRequest{
		TenantID:    testTenant,
		JobID:       "job-1",
		RaterUserID: "customer-1",
		Stars:       5,
	})
	if err != nil {
		t.Fatalf("first rating failed: %v", err)
	}

	_, err = h.ratingService.Rate(context.Background(), service.RateRequest{
		TenantID:    testTenant,
		JobID:       "job-1",
		RaterUserID: "customer-1",
		Stars:       2,
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	// The opposite direction is still open.
	_, err = h.ratingService.Rate(context.Background(), service.RateRequest{
		TenantID:    testTenant,
		JobID:       "job-1",
		RaterUserID: "driver-user-1",
		Stars:       4,
	})
	if err != nil {
		t.Errorf("expected the opposite direction to succeed, got %v", err)
	}
}

func TestAverageForUser_MeanOfReceivedStars(t *testing.T) {
	t.Parallel()

	h := newRatingHarness()
	h.jobRepo.AddJob(&domain.Job{
		ID:         "job-2",
		TenantID:   testTenant,
		CustomerID: "customer-2",
		DriverID:   "driver-1",
		Status:     domain.JobStatusCompleted,
	})

	for _, r := range []service.RateRequest{
		{TenantID: testTenant, JobID: "job-1", RaterUserID: "customer-1", Stars: 5},
		{TenantID: testTenant, JobID: "job-2", RaterUserID: "customer-2", Stars: 4},
	} {
		if _, err := h.ratingService.Rate(context.Background(), r); err != nil {
			t.Fatalf("rate failed: %v", err)
		}
	}

	avg, count, err := h.ratingService.AverageForUser(context.Background(), testTenant, "driver-user-1")
	if err != nil {
		t.Fatalf("average failed: %v", err)
	}
	if count != 2 || avg != 4.5 {
		t.Errorf("expected average 4.5 over 2 ratings, got %.2f over %d", avg, count)
	}
}
