package domain

import "time"

// JobStatus represents the lifecycle state of a job. Values are persisted
// verbatim in the jobs.status enum column.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusConfirmed  JobStatus = "confirmed"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusEnRoute    JobStatus = "en_route"
	JobStatusArrived    JobStatus = "arrived"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// jobTransitions enumerates the permitted lifecycle moves. Cancellation is
// allowed from every state up to and including arrived; in_progress and
// completed are terminal against cancellation.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusConfirmed, JobStatusCancelled},
	JobStatusConfirmed:  {JobStatusAssigned, JobStatusCancelled},
	JobStatusAssigned:   {JobStatusEnRoute, JobStatusConfirmed, JobStatusCancelled},
	JobStatusEnRoute:    {JobStatusArrived, JobStatusCancelled},
	JobStatusArrived:    {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted},
}

// CanTransitionJob reports whether a job may move from one status to
// another. The assigned -> confirmed edge is the explicit unassign path.
func CanTransitionJob(from, to JobStatus) bool {
	for _, s := range jobTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// JobItem is one requested line item on a job.
type JobItem struct {
	ItemType string  `json:"item_type"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // frozen unit base price at quote time
}

// Job is the central transactional entity. It is the aggregate root for its
// lifecycle; the price breakdown and surge multiplier are frozen at creation
// and never recomputed.
type Job struct {
	ID               string
	TenantID         string
	CustomerID       string
	DriverID         string // empty until status reaches assigned
	Status           JobStatus
	Address          string
	Lat              float64
	Lng              float64
	Items            []JobItem
	VolumeEstimate   float64
	Photos           []string
	ConfirmationCode string

	ScheduledAt time.Time
	AcceptedAt  time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	CancelledAt time.Time

	CancellationReason string

	// Price breakdown. PriceTotal always equals the sum of the four
	// components.
	PriceItems      float64
	PriceVolumeAdj  float64
	PriceSurge      float64
	PriceServiceFee float64
	PriceTotal      float64
	SurgeMultiplier float64

	// Payout split, computed at settlement. DriverPayout plus
	// PlatformCommission equals PriceTotal minus PriceServiceFee.
	DriverPayout       float64
	PlatformCommission float64

	// Version guards concurrent lifecycle transitions (optimistic locking).
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}
