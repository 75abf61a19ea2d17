package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Contractor state changes frequently (online flag, approval), so the cache
// is short-lived.
const contractorCacheTTL = 30 * time.Second

const contractorCachePrefix = "cache:contractor:"

// CachedContractor represents a cached contractor entity, enough to filter
// dispatch candidates without a DB round trip.
type CachedContractor struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenant_id"`
	IsOnline       bool    `json:"is_online"`
	ApprovalStatus string  `json:"approval_status"`
	AvgRating      float64 `json:"avg_rating"`
}

// GetContractor retrieves a contractor from cache. A nil result with nil
// error is a cache miss.
func (s *CacheStore) GetContractor(ctx context.Context, contractorID string) (*CachedContractor, error) {
	data, err := s.client.Get(ctx, contractorCachePrefix+contractorID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var c CachedContractor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetContractor stores a contractor in cache.
func (s *CacheStore) SetContractor(ctx context.Context, c *CachedContractor) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, contractorCachePrefix+c.ID, data, contractorCacheTTL).Err()
}

// InvalidateContractor removes a contractor's cache entry, e.g. after an
// assignment or approval change.
func (s *CacheStore) InvalidateContractor(ctx context.Context, contractorID string) error {
	return s.client.Del(ctx, contractorCachePrefix+contractorID).Err()
}
