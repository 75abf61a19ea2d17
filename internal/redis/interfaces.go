package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for contractor location
// operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, tenantID, contractorID string, lat, lng float64) error
	FindNearby(ctx context.Context, tenantID string, lat, lng, radiusKm float64) ([]ContractorLocation, error)
	RemoveLocation(ctx context.Context, tenantID, contractorID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireJobLock(ctx context.Context, tenantID, jobID string, ttl time.Duration) (bool, error)
	ReleaseJobLock(ctx context.Context, tenantID, jobID string) error
	AcquireContractorLock(ctx context.Context, tenantID, contractorID string, ttl time.Duration) (bool, error)
	ReleaseContractorLock(ctx context.Context, tenantID, contractorID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
