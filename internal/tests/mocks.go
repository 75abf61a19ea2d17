package tests

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/redis"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateCallCount int32

	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok || user.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.TenantID == tenantID && u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context, tenantID string) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if u.TenantID == tenantID {
			copy := *u
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, tenantID, id string, status domain.UserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.TenantID != tenantID {
		return repository.ErrNotFound
	}
	user.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK CONTRACTOR REPOSITORY
// ──────────────────────────────────────────────

// MockContractorRepository is a mock implementation of ContractorRepository.
type MockContractorRepository struct {
	mu          sync.RWMutex
	contractors map[string]*domain.Contractor

	// Counters for verification
	UpdateStatsCallCount int32
	GetByIDCallCount     int32

	// Error injection
	CreateError error
	GetError    error
}

// NewMockContractorRepository creates a new mock contractor repository.
func NewMockContractorRepository() *MockContractorRepository {
	return &MockContractorRepository{contractors: make(map[string]*domain.Contractor)}
}

// AddContractor adds a contractor to the mock repository.
func (m *MockContractorRepository) AddContractor(contractor *domain.Contractor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contractors[contractor.ID] = contractor
}

func (m *MockContractorRepository) Create(ctx context.Context, contractor *domain.Contractor) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contractors[contractor.ID] = contractor
	return nil
}

func (m *MockContractorRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Contractor, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	contractor, ok := m.contractors[id]
	if !ok || contractor.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *contractor
	return &copy, nil
}

func (m *MockContractorRepository) GetByUserID(ctx context.Context, tenantID, userID string) (*domain.Contractor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.contractors {
		if c.TenantID == tenantID && c.UserID == userID {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockContractorRepository) GetAll(ctx context.Context, tenantID string) ([]*domain.Contractor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Contractor, 0, len(m.contractors))
	for _, c := range m.contractors {
		if c.TenantID == tenantID {
			copy := *c
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockContractorRepository) UpdateApproval(ctx context.Context, tenantID, id string, status domain.ApprovalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	contractor, ok := m.contractors[id]
	if !ok || contractor.TenantID != tenantID {
		return repository.ErrNotFound
	}
	contractor.ApprovalStatus = status
	return nil
}

func (m *MockContractorRepository) UpdatePresence(ctx context.Context, tenantID, id string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	contractor, ok := m.contractors[id]
	if !ok || contractor.TenantID != tenantID {
		return repository.ErrNotFound
	}
	contractor.IsOnline = online
	return nil
}

func (m *MockContractorRepository) UpdateLocation(ctx context.Context, tenantID, id string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	contractor, ok := m.contractors[id]
	if !ok || contractor.TenantID != tenantID {
		return repository.ErrNotFound
	}
	contractor.CurrentLat = lat
	contractor.CurrentLng = lng
	contractor.HasLocation = true
	return nil
}

func (m *MockContractorRepository) UpdateStats(ctx context.Context, tenantID, id string, avgRating float64, totalJobs int) error {
	atomic.AddInt32(&m.UpdateStatsCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	contractor, ok := m.contractors[id]
	if !ok || contractor.TenantID != tenantID {
		return repository.ErrNotFound
	}
	contractor.AvgRating = avgRating
	contractor.TotalJobs = totalJobs
	return nil
}

// GetContractor returns the contractor by ID (for test assertions).
func (m *MockContractorRepository) GetContractor(id string) *domain.Contractor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contractors[id]
}

// ──────────────────────────────────────────────
// MOCK JOB REPOSITORY
// ──────────────────────────────────────────────

// MockJobRepository is a mock implementation of JobRepository. Update applies
// the same optimistic version check as the real implementation.
type MockJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockJobRepository creates a new mock job repository.
func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{jobs: make(map[string]*domain.Job)}
}

// AddJob adds a job to the mock repository.
func (m *MockJobRepository) AddJob(job *domain.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job.Version == 0 {
		job.Version = 1
	}
	copy := *job
	m.jobs[job.ID] = &copy
}

func (m *MockJobRepository) Create(ctx context.Context, job *domain.Job) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job.Version = 1
	copy := *job
	m.jobs[job.ID] = &copy
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok || job.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *job
	return &copy, nil
}

func (m *MockJobRepository) List(ctx context.Context, tenantID string, filter repository.JobFilter) ([]*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		if j.TenantID != tenantID {
			continue
		}
		if filter.CustomerID != "" && j.CustomerID != filter.CustomerID {
			continue
		}
		if filter.DriverID != "" && j.DriverID != filter.DriverID {
			continue
		}
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		copy := *j
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.After(result[k].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *domain.Job) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[job.ID]
	if !ok || stored.TenantID != job.TenantID {
		return repository.ErrNotFound
	}
	if stored.Version != job.Version {
		return repository.ErrVersionConflict
	}
	job.Version++
	copy := *job
	m.jobs[job.ID] = &copy
	return nil
}

func (m *MockJobRepository) CountOpenByDriver(ctx context.Context, tenantID, driverID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, j := range m.jobs {
		if j.TenantID == tenantID && j.DriverID == driverID && !j.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

// GetJob returns the job by ID (for test assertions).
func (m *MockJobRepository) GetJob(id string) *domain.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TenantID == payment.TenantID && p.JobID == payment.JobID {
			return repository.ErrDuplicate
		}
	}
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok || payment.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByJobID(ctx context.Context, tenantID, jobID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.TenantID == tenantID && p.JobID == jobID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, tenantID, id string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok || payment.TenantID != tenantID {
		return repository.ErrNotFound
	}
	payment.PaymentStatus = status
	return nil
}

func (m *MockPaymentRepository) UpdatePayoutStatus(ctx context.Context, tenantID, id string, status domain.PayoutStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok || payment.TenantID != tenantID {
		return repository.ErrNotFound
	}
	payment.PayoutStatus = status
	return nil
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetPaymentByJob returns the payment for a job (for test assertions).
func (m *MockPaymentRepository) GetPaymentByJob(jobID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.JobID == jobID {
			return p
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mu      sync.RWMutex
	ratings []*domain.Rating
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{}
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.TenantID == rating.TenantID && r.JobID == rating.JobID && r.Direction == rating.Direction {
			return repository.ErrDuplicate
		}
	}
	copy := *rating
	m.ratings = append(m.ratings, &copy)
	return nil
}

func (m *MockRatingRepository) GetByJobAndDirection(ctx context.Context, tenantID, jobID string, direction domain.RatingDirection) (*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.ratings {
		if r.TenantID == tenantID && r.JobID == jobID && r.Direction == direction {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRatingRepository) ListForUser(ctx context.Context, tenantID, userID string) ([]*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Rating
	for _, r := range m.ratings {
		if r.TenantID == tenantID && r.ToUserID == userID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRatingRepository) AverageForUser(ctx context.Context, tenantID, userID string) (float64, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum, count := 0, 0
	for _, r := range m.ratings {
		if r.TenantID == tenantID && r.ToUserID == userID {
			sum += r.Stars
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// ──────────────────────────────────────────────
// MOCK PRICING RULE REPOSITORY
// ──────────────────────────────────────────────

// MockPricingRuleRepository is a mock implementation of PricingRuleRepository.
type MockPricingRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.PricingRule
}

// NewMockPricingRuleRepository creates a new mock rule repository.
func NewMockPricingRuleRepository() *MockPricingRuleRepository {
	return &MockPricingRuleRepository{rules: make(map[string]*domain.PricingRule)}
}

// AddRule adds a rule to the mock repository.
func (m *MockPricingRuleRepository) AddRule(rule *domain.PricingRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
}

func (m *MockPricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockPricingRuleRepository) GetActiveByItemType(ctx context.Context, tenantID, itemType string) (*domain.PricingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rules {
		if r.TenantID == tenantID && r.ItemType == itemType && r.IsActive {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPricingRuleRepository) GetAll(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.PricingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PricingRule, 0, len(m.rules))
	for _, r := range m.rules {
		if r.TenantID != tenantID {
			continue
		}
		if activeOnly && !r.IsActive {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[rule.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rules[rule.ID] = rule
	return nil
}

// ──────────────────────────────────────────────
// MOCK SURGE ZONE REPOSITORY
// ──────────────────────────────────────────────

// MockSurgeZoneRepository is a mock implementation of SurgeZoneRepository.
type MockSurgeZoneRepository struct {
	mu    sync.RWMutex
	zones map[string]*domain.SurgeZone
}

// NewMockSurgeZoneRepository creates a new mock zone repository.
func NewMockSurgeZoneRepository() *MockSurgeZoneRepository {
	return &MockSurgeZoneRepository{zones: make(map[string]*domain.SurgeZone)}
}

// AddZone adds a zone to the mock repository.
func (m *MockSurgeZoneRepository) AddZone(zone *domain.SurgeZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[zone.ID] = zone
}

func (m *MockSurgeZoneRepository) Create(ctx context.Context, zone *domain.SurgeZone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[zone.ID] = zone
	return nil
}

func (m *MockSurgeZoneRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SurgeZone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	zone, ok := m.zones[id]
	if !ok || zone.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	copy := *zone
	return &copy, nil
}

func (m *MockSurgeZoneRepository) GetAll(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.SurgeZone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SurgeZone, 0, len(m.zones))
	for _, z := range m.zones {
		if z.TenantID != tenantID {
			continue
		}
		if activeOnly && !z.IsActive {
			continue
		}
		copy := *z
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockSurgeZoneRepository) Update(ctx context.Context, zone *domain.SurgeZone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.zones[zone.ID]; !ok {
		return repository.ErrNotFound
	}
	m.zones[zone.ID] = zone
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

type storedLocation struct {
	lat, lng float64
}

// MockLocationStore is an in-memory implementation of LocationStoreInterface.
// FindNearby computes real haversine distances so ranking tests are exact.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]map[string]storedLocation // tenant -> contractor -> position

	FindNearbyError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{locations: make(map[string]map[string]storedLocation)}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, tenantID, contractorID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locations[tenantID] == nil {
		m.locations[tenantID] = make(map[string]storedLocation)
	}
	m.locations[tenantID][contractorID] = storedLocation{lat: lat, lng: lng}
	return nil
}

func (m *MockLocationStore) FindNearby(ctx context.Context, tenantID string, lat, lng, radiusKm float64) ([]redis.ContractorLocation, error) {
	if m.FindNearbyError != nil {
		return nil, m.FindNearbyError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []redis.ContractorLocation
	for id, loc := range m.locations[tenantID] {
		dist := haversineKm(lat, lng, loc.lat, loc.lng)
		if dist <= radiusKm {
			result = append(result, redis.ContractorLocation{
				ContractorID: id,
				Lat:          loc.lat,
				Lng:          loc.lng,
				DistanceKm:   dist,
			})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, tenantID, contractorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations[tenantID], contractorID)
	return nil
}

// HasLocation reports whether a contractor is in the index (for assertions).
func (m *MockLocationStore) HasLocation(tenantID, contractorID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locations[tenantID][contractorID]
	return ok
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface with
// SetNX semantics.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireJobLockError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) acquire(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[key] {
		return false
	}
	m.locks[key] = true
	return true
}

func (m *MockLockStore) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
}

func (m *MockLockStore) AcquireJobLock(ctx context.Context, tenantID, jobID string, ttl time.Duration) (bool, error) {
	if m.AcquireJobLockError != nil {
		return false, m.AcquireJobLockError
	}
	return m.acquire("job:" + tenantID + ":" + jobID), nil
}

func (m *MockLockStore) ReleaseJobLock(ctx context.Context, tenantID, jobID string) error {
	m.release("job:" + tenantID + ":" + jobID)
	return nil
}

func (m *MockLockStore) AcquireContractorLock(ctx context.Context, tenantID, contractorID string, ttl time.Duration) (bool, error) {
	return m.acquire("contractor:" + tenantID + ":" + contractorID), nil
}

func (m *MockLockStore) ReleaseContractorLock(ctx context.Context, tenantID, contractorID string) error {
	m.release("contractor:" + tenantID + ":" + contractorID)
	return nil
}

// HoldJobLock acquires a job lock out of band to simulate a concurrent
// holder.
func (m *MockLockStore) HoldJobLock(tenantID, jobID string) bool {
	return m.acquire("job:" + tenantID + ":" + jobID)
}

// ──────────────────────────────────────────────
// MOCK PAYOUT GATEWAY
// ──────────────────────────────────────────────

// MockPayoutGateway records payout calls and supports error injection.
type MockPayoutGateway struct {
	PayoutCallCount int32
	PayoutError     error
}

// NewMockPayoutGateway creates a new mock payout gateway.
func NewMockPayoutGateway() *MockPayoutGateway {
	return &MockPayoutGateway{}
}

func (m *MockPayoutGateway) Payout(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.PayoutCallCount, 1)
	return m.PayoutError
}
