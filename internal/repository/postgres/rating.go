package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

// NewRatingRepositoryWithTx creates a rating repository using a transaction.
func NewRatingRepositoryWithTx(tx *sql.Tx) *RatingRepository {
	return &RatingRepository{q: tx}
}

// Create persists a new rating. The (job_id, direction) unique constraint
// maps onto ErrDuplicate.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, tenant_id, job_id, direction, from_user_id, to_user_id, stars, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.TenantID,
		rating.JobID,
		rating.Direction,
		rating.FromUserID,
		rating.ToUserID,
		rating.Stars,
		nullString(rating.Comment),
		rating.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

const ratingColumns = `id, tenant_id, job_id, direction, from_user_id, to_user_id, stars, comment, created_at`

func scanRating(row interface{ Scan(...any) error }) (*domain.Rating, error) {
	var rating domain.Rating
	var comment sql.NullString

	err := row.Scan(
		&rating.ID,
		&rating.TenantID,
		&rating.JobID,
		&rating.Direction,
		&rating.FromUserID,
		&rating.ToUserID,
		&rating.Stars,
		&comment,
		&rating.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if comment.Valid {
		rating.Comment = comment.String
	}
	return &rating, nil
}

// GetByJobAndDirection retrieves a job's rating in one direction.
func (r *RatingRepository) GetByJobAndDirection(ctx context.Context, tenantID, jobID string, direction domain.RatingDirection) (*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE tenant_id = $1 AND job_id = $2 AND direction = $3`
	return scanRating(r.q.QueryRowContext(ctx, query, tenantID, jobID, direction))
}

// ListForUser retrieves ratings received by a user, newest first.
func (r *RatingRepository) ListForUser(ctx context.Context, tenantID, userID string) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE tenant_id = $1 AND to_user_id = $2 ORDER BY created_at DESC LIMIT 200`

	rows, err := r.q.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// AverageForUser returns the mean stars received by a user and the number of
// ratings counted.
func (r *RatingRepository) AverageForUser(ctx context.Context, tenantID, userID string) (float64, int, error) {
	query := `SELECT COALESCE(AVG(stars), 0), COUNT(*) FROM ratings WHERE tenant_id = $1 AND to_user_id = $2`

	var avg float64
	var count int
	if err := r.q.QueryRowContext(ctx, query, tenantID, userID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
