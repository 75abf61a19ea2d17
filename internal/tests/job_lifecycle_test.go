package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
	"github.com/cvsper/junkos-backend/internal/service"
)

// jobHarness wires a JobService against mocks. Payouts run synchronously so
// assertions never race the settlement goroutine.
type jobHarness struct {
	jobRepo        *MockJobRepository
	contractorRepo *MockContractorRepository
	paymentRepo    *MockPaymentRepository
	ruleRepo       *MockPricingRuleRepository
	zoneRepo       *MockSurgeZoneRepository
	locStore       *MockLocationStore
	lockStore      *MockLockStore
	gateway        *MockPayoutGateway

	matcher    *service.DispatchMatcher
	settlement *service.SettlementService
	jobService *service.JobService
}

func newJobHarness() *jobHarness {
	h := &jobHarness{
		jobRepo:        NewMockJobRepository(),
		contractorRepo: NewMockContractorRepository(),
		paymentRepo:    NewMockPaymentRepository(),
		ruleRepo:       newRuleRepoWithDefaults(),
		zoneRepo:       NewMockSurgeZoneRepository(),
		locStore:       NewMockLocationStore(),
		lockStore:      NewMockLockStore(),
		gateway:        NewMockPayoutGateway(),
	}

	logger := testLogger()
	pricing := service.NewPricingEngine(h.ruleRepo, service.PricingConfig{ServiceFeeRate: 0.10})
	surge := service.NewSurgeResolver(h.zoneRepo)
	h.matcher = service.NewDispatchMatcher(h.locStore, nil, h.contractorRepo, h.jobRepo, service.DispatchConfig{
		DefaultRadiusKm: 15,
		MaxCandidates:   10,
	}, logger)
	h.settlement = service.NewSettlementService(h.paymentRepo, h.gateway, service.SettlementConfig{
		CommissionRate: 0.20,
		AsyncPayouts:   false,
	}, logger)
	h.jobService = service.NewJobService(
		h.jobRepo, h.contractorRepo, h.lockStore, nil,
		pricing, surge, h.matcher, h.settlement,
		service.NewNotificationService(logger), logger,
	)
	return h
}

func (h *jobHarness) addDriver(id string) {
	h.contractorRepo.AddContractor(&domain.Contractor{
		ID:             id,
		TenantID:       testTenant,
		UserID:         "user-" + id,
		IsOnline:       true,
		ApprovalStatus: domain.ApprovalStatusApproved,
	})
}

func (h *jobHarness) book(t *testing.T) *domain.Job {
	t.Helper()
	job, err := h.jobService.Book(context.Background(), service.BookRequest{
		TenantID:   testTenant,
		CustomerID: "customer-1",
		Address:    "123 Main St",
		Lat:        37.77,
		Lng:        -122.42,
		Items:      []service.ItemRequest{{ItemType: "couch_sofa", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	return job
}

func (h *jobHarness) mustTransition(t *testing.T, jobID string, target domain.JobStatus, driverID string) *domain.Job {
	t.Helper()
	job, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    jobID,
		Target:   target,
		DriverID: driverID,
		Reason:   "because",
	})
	if err != nil {
		t.Fatalf("transition to %s failed: %v", target, err)
	}
	return job
}

// ──────────────────────────────────────────────
// 8. BOOKING
// ──────────────────────────────────────────────

func TestBook_CreatesPendingJobWithFrozenQuote(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)

	if job.Status != domain.JobStatusPending {
		t.Errorf("expected pending, got %s", job.Status)
	}
	if job.PriceItems != 75.00 || job.PriceServiceFee != 7.50 || job.PriceTotal != 82.50 {
		t.Errorf("unexpected price breakdown: %+v", job)
	}
	if job.ConfirmationCode == "" {
		t.Error("expected a confirmation code")
	}
	if job.Version != 1 {
		t.Errorf("expected version 1, got %d", job.Version)
	}

	// Rule changes after booking never touch the frozen quote.
	h.ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-1", TenantID: testTenant, ItemType: "couch_sofa", BasePrice: 500.00, IsActive: true,
	})
	stored := h.jobRepo.GetJob(job.ID)
	if stored.PriceTotal != 82.50 {
		t.Errorf("expected frozen total 82.50, got %.2f", stored.PriceTotal)
	}
}

func TestBook_ValidationErrors(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	ctx := context.Background()

	_, err := h.jobService.Book(ctx, service.BookRequest{
		TenantID: testTenant, CustomerID: "c", Address: " ",
		Items: []service.ItemRequest{{ItemType: "mattress", Quantity: 1}},
	})
	if !errors.Is(err, service.ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}

	_, err = h.jobService.Book(ctx, service.BookRequest{
		TenantID: testTenant, CustomerID: "c", Address: "123 Main St", Lat: 95,
		Items: []service.ItemRequest{{ItemType: "mattress", Quantity: 1}},
	})
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	_, err = h.jobService.Book(ctx, service.BookRequest{
		TenantID: testTenant, CustomerID: "c", Address: "123 Main St",
		Items: []service.ItemRequest{{ItemType: "piano", Quantity: 1}},
	})
	if !errors.Is(err, service.ErrUnknownItemType) {
		t.Errorf("expected ErrUnknownItemType, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 9. LIFECYCLE HAPPY PATH
// ──────────────────────────────────────────────

func TestLifecycle_FullHappyPath(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	h.addDriver("driver-1")
	job := h.book(t)

	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")
	assigned := h.mustTransition(t, job.ID, domain.JobStatusAssigned, "driver-1")
	if assigned.DriverID != "driver-1" {
		t.Errorf("expected driver-1 assigned, got %q", assigned.DriverID)
	}
	if assigned.AcceptedAt.IsZero() {
		t.Error("expected accepted_at to be set on assignment")
	}

	h.mustTransition(t, job.ID, domain.JobStatusEnRoute, "driver-1")
	h.mustTransition(t, job.ID, domain.JobStatusArrived, "driver-1")
	started := h.mustTransition(t, job.ID, domain.JobStatusInProgress, "driver-1")
	if started.StartedAt.IsZero() {
		t.Error("expected started_at to be set")
	}

	completed := h.mustTransition(t, job.ID, domain.JobStatusCompleted, "driver-1")
	if completed.CompletedAt.IsZero() {
		t.Error("expected completed_at to be set")
	}

	// Payout split: total 82.50, fee 7.50, net 75.00 -> 15.00 / 60.00.
	if completed.PlatformCommission != 15.00 {
		t.Errorf("expected commission 15.00, got %.2f", completed.PlatformCommission)
	}
	if completed.DriverPayout != 60.00 {
		t.Errorf("expected payout 60.00, got %.2f", completed.DriverPayout)
	}
	net := completed.PriceTotal - completed.PriceServiceFee
	if completed.DriverPayout+completed.PlatformCommission != net {
		t.Errorf("payout %.2f + commission %.2f does not equal net %.2f",
			completed.DriverPayout, completed.PlatformCommission, net)
	}

	// Settlement recorded exactly one payment and ran the payout.
	if h.paymentRepo.CountPayments() != 1 {
		t.Fatalf("expected 1 payment, got %d", h.paymentRepo.CountPayments())
	}
	payment := h.paymentRepo.GetPaymentByJob(job.ID)
	if payment.PayoutStatus != domain.PayoutStatusCompleted {
		t.Errorf("expected payout completed, got %s", payment.PayoutStatus)
	}
	if h.gateway.PayoutCallCount != 1 {
		t.Errorf("expected 1 gateway call, got %d", h.gateway.PayoutCallCount)
	}

	// The contractor's completed-job count was bumped.
	if h.contractorRepo.GetContractor("driver-1").TotalJobs != 1 {
		t.Errorf("expected total_jobs 1, got %d", h.contractorRepo.GetContractor("driver-1").TotalJobs)
	}
}

// ──────────────────────────────────────────────
// 10. INVALID AND TERMINAL TRANSITIONS
// ──────────────────────────────────────────────

func TestLifecycle_SkippingStatesRejected(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	h.addDriver("driver-1")
	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")
	h.mustTransition(t, job.ID, domain.JobStatusAssigned, "driver-1")

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    job.ID,
		Target:   domain.JobStatusCompleted,
		DriverID: "driver-1",
	})
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// State and timestamps untouched by the failed attempt.
	stored := h.jobRepo.GetJob(job.ID)
	if stored.Status != domain.JobStatusAssigned {
		t.Errorf("expected status unchanged at assigned, got %s", stored.Status)
	}
	if !stored.CompletedAt.IsZero() {
		t.Error("expected completed_at to remain unset")
	}
}

func TestLifecycle_TerminalStatesFrozen(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusCancelled, "")

	for _, target := range []domain.JobStatus{
		domain.JobStatusConfirmed, domain.JobStatusAssigned, domain.JobStatusCompleted, domain.JobStatusCancelled,
	} {
		_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
			TenantID: testTenant,
			JobID:    job.ID,
			Target:   target,
			Reason:   "again",
		})
		if !errors.Is(err, service.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition from cancelled to %s, got %v", target, err)
		}
	}
}

func TestLifecycle_CancelMatrix(t *testing.T) {
	t.Parallel()

	cancellable := []domain.JobStatus{
		domain.JobStatusPending,
		domain.JobStatusConfirmed,
		domain.JobStatusAssigned,
		domain.JobStatusEnRoute,
		domain.JobStatusArrived,
	}
	for _, from := range cancellable {
		if !domain.CanTransitionJob(from, domain.JobStatusCancelled) {
			t.Errorf("expected %s to be cancellable", from)
		}
	}
	for _, from := range []domain.JobStatus{domain.JobStatusInProgress, domain.JobStatusCompleted, domain.JobStatusCancelled} {
		if domain.CanTransitionJob(from, domain.JobStatusCancelled) {
			t.Errorf("expected %s not to be cancellable", from)
		}
	}
}

func TestLifecycle_CancelRequiresReason(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    job.ID,
		Target:   domain.JobStatusCancelled,
	})
	if !errors.Is(err, service.ErrCancellationReasonRequired) {
		t.Errorf("expected ErrCancellationReasonRequired, got %v", err)
	}
}

func TestLifecycle_DuplicateTimestampRejected(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	// Seed a job whose started_at is already set while it sits in arrived;
	// a second in_progress transition must not overwrite the timestamp.
	h.jobRepo.AddJob(&domain.Job{
		ID:         "job-1",
		TenantID:   testTenant,
		CustomerID: "customer-1",
		DriverID:   "driver-1",
		Status:     domain.JobStatusArrived,
		StartedAt:  time.Now().Add(-time.Hour),
	})

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    "job-1",
		Target:   domain.JobStatusInProgress,
	})
	if !errors.Is(err, service.ErrDuplicateTransition) {
		t.Errorf("expected ErrDuplicateTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 11. ASSIGNMENT AND UNASSIGNMENT
// ──────────────────────────────────────────────

func TestAssign_RevalidatesContractorAtCommit(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	h.contractorRepo.AddContractor(&domain.Contractor{
		ID: "driver-1", TenantID: testTenant, IsOnline: false,
		ApprovalStatus: domain.ApprovalStatusApproved,
	})
	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    job.ID,
		Target:   domain.JobStatusAssigned,
		DriverID: "driver-1",
	})
	if !errors.Is(err, service.ErrCandidateUnavailable) {
		t.Errorf("expected ErrCandidateUnavailable, got %v", err)
	}
	if h.jobRepo.GetJob(job.ID).Status != domain.JobStatusConfirmed {
		t.Error("expected job to stay confirmed after failed assignment")
	}
}

func TestAssign_RequiresDriver(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    job.ID,
		Target:   domain.JobStatusAssigned,
	})
	if !errors.Is(err, service.ErrDriverRequired) {
		t.Errorf("expected ErrDriverRequired, got %v", err)
	}
}

func TestUnassign_ReturnsJobToPool(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	h.addDriver("driver-1")
	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")
	h.mustTransition(t, job.ID, domain.JobStatusAssigned, "driver-1")

	unassigned := h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")
	if unassigned.DriverID != "" {
		t.Errorf("expected driver cleared, got %q", unassigned.DriverID)
	}
	if !unassigned.AcceptedAt.IsZero() {
		t.Error("expected accepted_at cleared on unassign")
	}

	// The job can be assigned again afterwards.
	h.addDriver("driver-2")
	reassigned := h.mustTransition(t, job.ID, domain.JobStatusAssigned, "driver-2")
	if reassigned.DriverID != "driver-2" {
		t.Errorf("expected driver-2, got %q", reassigned.DriverID)
	}
}

func TestProgress_WrongDriverRejected(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	h.addDriver("driver-1")
	h.addDriver("driver-2")
	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")
	h.mustTransition(t, job.ID, domain.JobStatusAssigned, "driver-1")

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    job.ID,
		Target:   domain.JobStatusEnRoute,
		DriverID: "driver-2",
	})
	if !errors.Is(err, service.ErrDriverNotAssignedToJob) {
		t.Errorf("expected ErrDriverNotAssignedToJob, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 12. CONCURRENCY
// ──────────────────────────────────────────────

func TestTransition_LockHeldByConcurrentRequest(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)

	// Another request already holds the per-job lock.
	if !h.lockStore.HoldJobLock(testTenant, job.ID) {
		t.Fatal("failed to seed the job lock")
	}

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    job.ID,
		Target:   domain.JobStatusConfirmed,
	})
	if !errors.Is(err, service.ErrConcurrentModification) {
		t.Errorf("expected ErrConcurrentModification, got %v", err)
	}
	if h.jobRepo.GetJob(job.ID).Status != domain.JobStatusPending {
		t.Error("expected job unchanged while locked")
	}
}

func TestTransition_VersionConflictSurfacesAsConcurrentModification(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)

	h.jobRepo.UpdateError = repository.ErrVersionConflict

	_, err := h.jobService.Transition(context.Background(), service.TransitionRequest{
		TenantID: testTenant,
		JobID:    job.ID,
		Target:   domain.JobStatusConfirmed,
	})
	if !errors.Is(err, service.ErrConcurrentModification) {
		t.Errorf("expected ErrConcurrentModification, got %v", err)
	}
}

func TestTransition_VersionIncrementsPerCommit(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)

	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")
	if v := h.jobRepo.GetJob(job.ID).Version; v != 2 {
		t.Errorf("expected version 2 after one transition, got %d", v)
	}
}

// ──────────────────────────────────────────────
// 13. AUTO ASSIGNMENT
// ──────────────────────────────────────────────

func TestAutoAssign_PicksNearestCandidate(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	h.addDriver("near")
	h.addDriver("far")
	_ = h.locStore.UpdateLocation(context.Background(), testTenant, "near", 37.78, -122.42)
	_ = h.locStore.UpdateLocation(context.Background(), testTenant, "far", 37.85, -122.42)

	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")

	assigned, err := h.jobService.AutoAssign(context.Background(), testTenant, job.ID, 0)
	if err != nil {
		t.Fatalf("auto assign failed: %v", err)
	}
	if assigned.DriverID != "near" {
		t.Errorf("expected nearest driver, got %q", assigned.DriverID)
	}
}

func TestAutoAssign_SkipsLockedCandidate(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	h.addDriver("near")
	h.addDriver("far")
	_ = h.locStore.UpdateLocation(context.Background(), testTenant, "near", 37.78, -122.42)
	_ = h.locStore.UpdateLocation(context.Background(), testTenant, "far", 37.85, -122.42)

	// The nearest contractor is mid-assignment on another job.
	locked, err := h.lockStore.AcquireContractorLock(context.Background(), testTenant, "near", time.Minute)
	if err != nil || !locked {
		t.Fatal("failed to seed the contractor lock")
	}

	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")

	assigned, err := h.jobService.AutoAssign(context.Background(), testTenant, job.ID, 0)
	if err != nil {
		t.Fatalf("auto assign failed: %v", err)
	}
	if assigned.DriverID != "far" {
		t.Errorf("expected fallback to the next candidate, got %q", assigned.DriverID)
	}
}

func TestAutoAssign_NoCandidates(t *testing.T) {
	t.Parallel()

	h := newJobHarness()
	job := h.book(t)
	h.mustTransition(t, job.ID, domain.JobStatusConfirmed, "")

	_, err := h.jobService.AutoAssign(context.Background(), testTenant, job.ID, 0)
	if !errors.Is(err, service.ErrNoCandidatesFound) {
		t.Errorf("expected ErrNoCandidatesFound, got %v", err)
	}
}
