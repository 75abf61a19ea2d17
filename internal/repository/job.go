package repository

import (
	"context"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// JobFilter narrows job listings.
type JobFilter struct {
	CustomerID string
	DriverID   string
	Status     domain.JobStatus
	Limit      int
}

// JobRepository defines the persistence operations for jobs.
type JobRepository interface {
	// Create persists a new job.
	Create(ctx context.Context, job *domain.Job) error

	// GetByID retrieves a job by ID.
	GetByID(ctx context.Context, tenantID, id string) (*domain.Job, error)

	// List retrieves jobs matching the filter, newest first.
	List(ctx context.Context, tenantID string, filter JobFilter) ([]*domain.Job, error)

	// Update persists all mutable fields of the job, guarded by the job's
	// version: the write succeeds only when the stored version matches
	// job.Version, and increments it. Returns ErrVersionConflict when a
	// concurrent writer got there first.
	Update(ctx context.Context, job *domain.Job) error

	// CountOpenByDriver returns the number of non-terminal jobs currently
	// assigned to the driver.
	CountOpenByDriver(ctx context.Context, tenantID, driverID string) (int, error)
}
