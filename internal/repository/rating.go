package repository

import (
	"context"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// Create persists a new rating. Returns ErrDuplicate if a rating
	// already exists for the same job and direction.
	Create(ctx context.Context, rating *domain.Rating) error

	// GetByJobAndDirection retrieves a job's rating in one direction.
	GetByJobAndDirection(ctx context.Context, tenantID, jobID string, direction domain.RatingDirection) (*domain.Rating, error)

	// ListForUser retrieves ratings received by a user, newest first.
	ListForUser(ctx context.Context, tenantID, userID string) ([]*domain.Rating, error)

	// AverageForUser returns the mean stars received by a user and the
	// number of ratings counted.
	AverageForUser(ctx context.Context, tenantID, userID string) (float64, int, error)
}
