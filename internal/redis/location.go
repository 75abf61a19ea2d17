package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ContractorLocation represents a contractor's position relative to a query
// point.
type ContractorLocation struct {
	ContractorID string
	Lat          float64
	Lng          float64
	DistanceKm   float64
}

// LocationStore handles contractor location operations in Redis. Each tenant
// gets its own geo index so dispatch queries never cross tenants.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

func locationKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s:contractors:geo", tenantID)
}

// UpdateLocation stores a contractor's location using GEOADD. Last write
// wins; location updates are advisory for dispatch.
func (s *LocationStore) UpdateLocation(ctx context.Context, tenantID, contractorID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, locationKey(tenantID), &redis.GeoLocation{
		Name:      contractorID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearby returns contractors within the given radius (in kilometers),
// nearest first.
func (s *LocationStore) FindNearby(ctx context.Context, tenantID string, lat, lng, radiusKm float64) ([]ContractorLocation, error) {
	results, err := s.client.GeoRadius(ctx, locationKey(tenantID), lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]ContractorLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, ContractorLocation{
			ContractorID: r.Name,
			Lat:          r.Latitude,
			Lng:          r.Longitude,
			DistanceKm:   r.Dist,
		})
	}
	return locations, nil
}

// RemoveLocation removes a contractor from the geo index, e.g. when they go
// offline.
func (s *LocationStore) RemoveLocation(ctx context.Context, tenantID, contractorID string) error {
	return s.client.ZRem(ctx, locationKey(tenantID), contractorID).Err()
}
