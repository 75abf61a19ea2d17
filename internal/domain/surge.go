package domain

import "time"

// LatLng is a geographic point.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SurgeZone is a named polygon with a pricing multiplier, optionally limited
// to a time-of-day window ("HH:MM", inclusive) and a set of weekdays
// (0=Monday .. 6=Sunday). Zones may overlap; the resolver picks the maximum
// matching multiplier.
type SurgeZone struct {
	ID         string
	TenantID   string
	Name       string
	Boundary   []LatLng
	Multiplier float64
	IsActive   bool
	StartTime  string // "" means no window start
	EndTime    string // "" means no window end
	DaysOfWeek []int  // empty means every day
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contains reports whether the point lies inside the zone boundary, using a
// ray-casting point-in-polygon test. Polygons with fewer than three vertices
// match nothing.
func (z *SurgeZone) Contains(lat, lng float64) bool {
	n := len(z.Boundary)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := z.Boundary[i]
		vj := z.Boundary[j]
		if (vi.Lng > lng) != (vj.Lng > lng) &&
			lat < (vj.Lat-vi.Lat)*(lng-vi.Lng)/(vj.Lng-vi.Lng)+vi.Lat {
			inside = !inside
		}
		j = i
	}
	return inside
}

// AppliesAt reports whether the zone's schedule covers the given instant.
// The boundary check is separate; this only evaluates the time window and
// weekday set.
func (z *SurgeZone) AppliesAt(at time.Time) bool {
	if len(z.DaysOfWeek) > 0 {
		// time.Weekday is Sunday=0; zone days are Monday=0.
		day := (int(at.Weekday()) + 6) % 7
		found := false
		for _, d := range z.DaysOfWeek {
			if d == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	clock := at.Format("15:04")
	if z.StartTime != "" && clock < z.StartTime {
		return false
	}
	if z.EndTime != "" && clock > z.EndTime {
		return false
	}
	return true
}
