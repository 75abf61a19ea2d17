package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/service"
)

// squareZone returns a zone covering a half-degree box centered on the point.
func squareZone(id string, multiplier, centerLat, centerLng float64) *domain.SurgeZone {
	d := 0.25
	return &domain.SurgeZone{
		ID:       id,
		TenantID: testTenant,
		Name:     id,
		Boundary: []domain.LatLng{
			{Lat: centerLat - d, Lng: centerLng - d},
			{Lat: centerLat - d, Lng: centerLng + d},
			{Lat: centerLat + d, Lng: centerLng + d},
			{Lat: centerLat + d, Lng: centerLng - d},
		},
		Multiplier: multiplier,
		IsActive:   true,
	}
}

// ──────────────────────────────────────────────
// 4. SURGE RESOLUTION
// ──────────────────────────────────────────────

func TestSurgeResolve_NoZonesDefaultsToOne(t *testing.T) {
	t.Parallel()

	resolver := service.NewSurgeResolver(NewMockSurgeZoneRepository())

	multiplier, err := resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.0 {
		t.Errorf("expected multiplier 1.0, got %.2f", multiplier)
	}
}

func TestSurgeResolve_PointInsideZone(t *testing.T) {
	t.Parallel()

	zoneRepo := NewMockSurgeZoneRepository()
	zoneRepo.AddZone(squareZone("zone-1", 1.5, 37.77, -122.42))
	resolver := service.NewSurgeResolver(zoneRepo)

	multiplier, err := resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.5 {
		t.Errorf("expected multiplier 1.5, got %.2f", multiplier)
	}
}

func TestSurgeResolve_PointOutsideZone(t *testing.T) {
	t.Parallel()

	zoneRepo := NewMockSurgeZoneRepository()
	zoneRepo.AddZone(squareZone("zone-1", 1.5, 37.77, -122.42))
	resolver := service.NewSurgeResolver(zoneRepo)

	multiplier, err := resolver.Resolve(context.Background(), testTenant, 40.71, -74.00, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.0 {
		t.Errorf("expected multiplier 1.0 outside the zone, got %.2f", multiplier)
	}
}

func TestSurgeResolve_OverlappingZonesPickMaximum(t *testing.T) {
	t.Parallel()

	zoneRepo := NewMockSurgeZoneRepository()
	zoneRepo.AddZone(squareZone("zone-low", 1.2, 37.77, -122.42))
	zoneRepo.AddZone(squareZone("zone-high", 1.8, 37.77, -122.42))
	zoneRepo.AddZone(squareZone("zone-mid", 1.5, 37.77, -122.42))
	resolver := service.NewSurgeResolver(zoneRepo)

	multiplier, err := resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.8 {
		t.Errorf("expected maximum multiplier 1.8, got %.2f", multiplier)
	}
}

func TestSurgeResolve_InactiveZoneIgnored(t *testing.T) {
	t.Parallel()

	zone := squareZone("zone-1", 2.0, 37.77, -122.42)
	zone.IsActive = false
	zoneRepo := NewMockSurgeZoneRepository()
	zoneRepo.AddZone(zone)
	resolver := service.NewSurgeResolver(zoneRepo)

	multiplier, err := resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.0 {
		t.Errorf("expected inactive zone to be ignored, got %.2f", multiplier)
	}
}

func TestSurgeResolve_TimeWindow(t *testing.T) {
	t.Parallel()

	zone := squareZone("zone-evening", 1.6, 37.77, -122.42)
	zone.StartTime = "18:00"
	zone.EndTime = "22:00"
	zoneRepo := NewMockSurgeZoneRepository()
	zoneRepo.AddZone(zone)
	resolver := service.NewSurgeResolver(zoneRepo)

	evening := time.Date(2026, 8, 28, 19, 30, 0, 0, time.UTC)
	morning := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

	multiplier, err := resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, evening)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.6 {
		t.Errorf("expected 1.6 inside the window, got %.2f", multiplier)
	}

	multiplier, err = resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, morning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.0 {
		t.Errorf("expected 1.0 outside the window, got %.2f", multiplier)
	}
}

func TestSurgeResolve_DaysOfWeek(t *testing.T) {
	t.Parallel()

	// Weekend-only zone: Saturday=5, Sunday=6 (Monday=0).
	zone := squareZone("zone-weekend", 1.4, 37.77, -122.42)
	zone.DaysOfWeek = []int{5, 6}
	zoneRepo := NewMockSurgeZoneRepository()
	zoneRepo.AddZone(zone)
	resolver := service.NewSurgeResolver(zoneRepo)

	saturday := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	multiplier, err := resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, saturday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.4 {
		t.Errorf("expected 1.4 on Saturday, got %.2f", multiplier)
	}

	multiplier, err = resolver.Resolve(context.Background(), testTenant, 37.77, -122.42, wednesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if multiplier != 1.0 {
		t.Errorf("expected 1.0 on Wednesday, got %.2f", multiplier)
	}
}

// ──────────────────────────────────────────────
// 5. ZONE ADMINISTRATION
// ──────────────────────────────────────────────

func TestCreateZone_Validation(t *testing.T) {
	t.Parallel()

	resolver := service.NewSurgeResolver(NewMockSurgeZoneRepository())

	err := resolver.CreateZone(context.Background(), &domain.SurgeZone{
		TenantID:   testTenant,
		Name:       "bad multiplier",
		Boundary:   squareZone("x", 1.5, 0, 0).Boundary,
		Multiplier: 0.9,
	})
	if !errors.Is(err, service.ErrInvalidMultiplier) {
		t.Errorf("expected ErrInvalidMultiplier, got %v", err)
	}

	err = resolver.CreateZone(context.Background(), &domain.SurgeZone{
		TenantID:   testTenant,
		Name:       "bad boundary",
		Boundary:   []domain.LatLng{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
		Multiplier: 1.5,
	})
	if !errors.Is(err, service.ErrInvalidBoundary) {
		t.Errorf("expected ErrInvalidBoundary, got %v", err)
	}
}
