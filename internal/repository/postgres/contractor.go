package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// ContractorRepository is a PostgreSQL implementation of repository.ContractorRepository.
type ContractorRepository struct {
	q Querier
}

// NewContractorRepository creates a new PostgreSQL contractor repository.
func NewContractorRepository(db *sql.DB) *ContractorRepository {
	return &ContractorRepository{q: db}
}

// NewContractorRepositoryWithTx creates a contractor repository using a transaction.
func NewContractorRepositoryWithTx(tx *sql.Tx) *ContractorRepository {
	return &ContractorRepository{q: tx}
}

// Create persists a new contractor profile.
func (r *ContractorRepository) Create(ctx context.Context, contractor *domain.Contractor) error {
	query := `
		INSERT INTO contractors (id, tenant_id, user_id, truck_type, truck_capacity, is_online, current_lat, current_lng, avg_rating, total_jobs, approval_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var lat, lng sql.NullFloat64
	if contractor.HasLocation {
		lat = sql.NullFloat64{Float64: contractor.CurrentLat, Valid: true}
		lng = sql.NullFloat64{Float64: contractor.CurrentLng, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		contractor.ID,
		contractor.TenantID,
		contractor.UserID,
		contractor.TruckType,
		contractor.TruckCapacity,
		contractor.IsOnline,
		lat,
		lng,
		contractor.AvgRating,
		contractor.TotalJobs,
		contractor.ApprovalStatus,
		contractor.CreatedAt,
		contractor.UpdatedAt,
	)
	return err
}

const contractorColumns = `id, tenant_id, user_id, truck_type, truck_capacity, is_online, current_lat, current_lng, avg_rating, total_jobs, approval_status, created_at, updated_at`

func scanContractor(row interface{ Scan(...any) error }) (*domain.Contractor, error) {
	var c domain.Contractor
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.UserID,
		&c.TruckType,
		&c.TruckCapacity,
		&c.IsOnline,
		&lat,
		&lng,
		&c.AvgRating,
		&c.TotalJobs,
		&c.ApprovalStatus,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if lat.Valid && lng.Valid {
		c.CurrentLat = lat.Float64
		c.CurrentLng = lng.Float64
		c.HasLocation = true
	}
	return &c, nil
}

// GetByID retrieves a contractor by ID.
func (r *ContractorRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Contractor, error) {
	query := `SELECT ` + contractorColumns + ` FROM contractors WHERE tenant_id = $1 AND id = $2`
	return scanContractor(r.q.QueryRowContext(ctx, query, tenantID, id))
}

// GetByUserID retrieves the contractor profile owned by a user.
func (r *ContractorRepository) GetByUserID(ctx context.Context, tenantID, userID string) (*domain.Contractor, error) {
	query := `SELECT ` + contractorColumns + ` FROM contractors WHERE tenant_id = $1 AND user_id = $2`
	return scanContractor(r.q.QueryRowContext(ctx, query, tenantID, userID))
}

// GetAll retrieves all contractors for a tenant.
func (r *ContractorRepository) GetAll(ctx context.Context, tenantID string) ([]*domain.Contractor, error) {
	query := `SELECT ` + contractorColumns + ` FROM contractors WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT 500`

	rows, err := r.q.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contractors []*domain.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}

func (r *ContractorRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateApproval sets the admin approval status.
func (r *ContractorRepository) UpdateApproval(ctx context.Context, tenantID, id string, status domain.ApprovalStatus) error {
	query := `UPDATE contractors SET approval_status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	return r.exec(ctx, query, status, tenantID, id)
}

// UpdatePresence sets the online flag.
func (r *ContractorRepository) UpdatePresence(ctx context.Context, tenantID, id string, online bool) error {
	query := `UPDATE contractors SET is_online = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	return r.exec(ctx, query, online, tenantID, id)
}

// UpdateLocation records the latest reported position (last-write-wins, no
// version check: location is advisory for dispatch).
func (r *ContractorRepository) UpdateLocation(ctx context.Context, tenantID, id string, lat, lng float64) error {
	query := `UPDATE contractors SET current_lat = $1, current_lng = $2, updated_at = NOW() WHERE tenant_id = $3 AND id = $4`
	return r.exec(ctx, query, lat, lng, tenantID, id)
}

// UpdateStats sets the aggregate rating and completed-job count.
func (r *ContractorRepository) UpdateStats(ctx context.Context, tenantID, id string, avgRating float64, totalJobs int) error {
	query := `UPDATE contractors SET avg_rating = $1, total_jobs = $2, updated_at = NOW() WHERE tenant_id = $3 AND id = $4`
	return r.exec(ctx, query, avgRating, totalJobs, tenantID, id)
}
