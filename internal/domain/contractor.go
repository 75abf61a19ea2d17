package domain

import "time"

// ApprovalStatus represents the admin approval state of a contractor.
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "pending"
	ApprovalStatusApproved  ApprovalStatus = "approved"
	ApprovalStatusSuspended ApprovalStatus = "suspended"
	ApprovalStatusRejected  ApprovalStatus = "rejected"
)

// Contractor extends a driver-role user with vehicle info and live state.
// Location and the online flag are owned by the contractor's own session
// (last-write-wins); approval status is owned by admins.
type Contractor struct {
	ID             string
	TenantID       string
	UserID         string
	TruckType      string
	TruckCapacity  float64 // cubic yards
	IsOnline       bool
	CurrentLat     float64
	CurrentLng     float64
	HasLocation    bool
	AvgRating      float64
	TotalJobs      int
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Dispatchable reports whether the contractor may receive new jobs.
func (c *Contractor) Dispatchable() bool {
	return c.IsOnline && c.ApprovalStatus == ApprovalStatusApproved
}
