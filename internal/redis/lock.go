package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func (s *LockStore) acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, "1", ttl).Result()
}

// AcquireJobLock attempts to acquire the lifecycle lock for a job. Returns
// true if the lock was acquired, false if another transition holds it.
func (s *LockStore) AcquireJobLock(ctx context.Context, tenantID, jobID string, ttl time.Duration) (bool, error) {
	return s.acquire(ctx, fmt.Sprintf("lock:tenant:%s:job:%s", tenantID, jobID), ttl)
}

// ReleaseJobLock releases the lifecycle lock for a job.
func (s *LockStore) ReleaseJobLock(ctx context.Context, tenantID, jobID string) error {
	return s.client.Del(ctx, fmt.Sprintf("lock:tenant:%s:job:%s", tenantID, jobID)).Err()
}

// AcquireContractorLock attempts to acquire the assignment lock for a
// contractor, preventing two jobs from committing the same candidate.
func (s *LockStore) AcquireContractorLock(ctx context.Context, tenantID, contractorID string, ttl time.Duration) (bool, error) {
	return s.acquire(ctx, fmt.Sprintf("lock:tenant:%s:contractor:%s", tenantID, contractorID), ttl)
}

// ReleaseContractorLock releases the assignment lock for a contractor.
func (s *LockStore) ReleaseContractorLock(ctx context.Context, tenantID, contractorID string) error {
	return s.client.Del(ctx, fmt.Sprintf("lock:tenant:%s:contractor:%s", tenantID, contractorID)).Err()
}
