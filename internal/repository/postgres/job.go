package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// JobRepository is a PostgreSQL implementation of repository.JobRepository.
type JobRepository struct {
	q Querier
}

// NewJobRepository creates a new PostgreSQL job repository.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{q: db}
}

// NewJobRepositoryWithTx creates a job repository using a transaction.
func NewJobRepositoryWithTx(tx *sql.Tx) *JobRepository {
	return &JobRepository{q: tx}
}

// Create persists a new job at version 1.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (id, tenant_id, customer_id, driver_id, status, address, lat, lng, items, volume_estimate, photos, confirmation_code,
			scheduled_at, accepted_at, started_at, completed_at, cancelled_at, cancellation_reason,
			price_items, price_volume_adj, price_surge, price_service_fee, price_total, surge_multiplier,
			driver_payout, platform_commission, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)
	`

	items, err := json.Marshal(job.Items)
	if err != nil {
		return err
	}
	photos, err := json.Marshal(job.Photos)
	if err != nil {
		return err
	}

	job.Version = 1

	_, err = r.q.ExecContext(ctx, query,
		job.ID,
		job.TenantID,
		job.CustomerID,
		nullString(job.DriverID),
		job.Status,
		job.Address,
		job.Lat,
		job.Lng,
		items,
		job.VolumeEstimate,
		photos,
		nullString(job.ConfirmationCode),
		nullTime(job.ScheduledAt),
		nullTime(job.AcceptedAt),
		nullTime(job.StartedAt),
		nullTime(job.CompletedAt),
		nullTime(job.CancelledAt),
		nullString(job.CancellationReason),
		job.PriceItems,
		job.PriceVolumeAdj,
		job.PriceSurge,
		job.PriceServiceFee,
		job.PriceTotal,
		job.SurgeMultiplier,
		job.DriverPayout,
		job.PlatformCommission,
		job.Version,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

const jobColumns = `id, tenant_id, customer_id, driver_id, status, address, lat, lng, items, volume_estimate, photos, confirmation_code,
	scheduled_at, accepted_at, started_at, completed_at, cancelled_at, cancellation_reason,
	price_items, price_volume_adj, price_surge, price_service_fee, price_total, surge_multiplier,
	driver_payout, platform_commission, version, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*domain.Job, error) {
	var job domain.Job
	var driverID, confirmationCode, cancellationReason sql.NullString
	var scheduledAt, acceptedAt, startedAt, completedAt, cancelledAt sql.NullTime
	var items, photos []byte

	err := row.Scan(
		&job.ID,
		&job.TenantID,
		&job.CustomerID,
		&driverID,
		&job.Status,
		&job.Address,
		&job.Lat,
		&job.Lng,
		&items,
		&job.VolumeEstimate,
		&photos,
		&confirmationCode,
		&scheduledAt,
		&acceptedAt,
		&startedAt,
		&completedAt,
		&cancelledAt,
		&cancellationReason,
		&job.PriceItems,
		&job.PriceVolumeAdj,
		&job.PriceSurge,
		&job.PriceServiceFee,
		&job.PriceTotal,
		&job.SurgeMultiplier,
		&job.DriverPayout,
		&job.PlatformCommission,
		&job.Version,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if driverID.Valid {
		job.DriverID = driverID.String
	}
	if confirmationCode.Valid {
		job.ConfirmationCode = confirmationCode.String
	}
	if cancellationReason.Valid {
		job.CancellationReason = cancellationReason.String
	}
	if scheduledAt.Valid {
		job.ScheduledAt = scheduledAt.Time
	}
	if acceptedAt.Valid {
		job.AcceptedAt = acceptedAt.Time
	}
	if startedAt.Valid {
		job.StartedAt = startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = completedAt.Time
	}
	if cancelledAt.Valid {
		job.CancelledAt = cancelledAt.Time
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &job.Items); err != nil {
			return nil, err
		}
	}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &job.Photos); err != nil {
			return nil, err
		}
	}
	return &job, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE tenant_id = $1 AND id = $2`
	return scanJob(r.q.QueryRowContext(ctx, query, tenantID, id))
}

// List retrieves jobs matching the filter, newest first.
func (r *JobRepository) List(ctx context.Context, tenantID string, filter repository.JobFilter) ([]*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE tenant_id = $1`
	args := []any{tenantID}

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += ` AND customer_id = $` + itoa(len(args))
	}
	if filter.DriverID != "" {
		args = append(args, filter.DriverID)
		query += ` AND driver_id = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + itoa(len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Update persists the job's mutable fields guarded by its version. The row
// is written only when the stored version still matches job.Version; losers
// of the race get ErrVersionConflict.
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET driver_id = $1, status = $2, accepted_at = $3, started_at = $4, completed_at = $5, cancelled_at = $6,
			cancellation_reason = $7, driver_payout = $8, platform_commission = $9, photos = $10,
			version = version + 1, updated_at = NOW()
		WHERE tenant_id = $11 AND id = $12 AND version = $13
	`

	photos, err := json.Marshal(job.Photos)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		nullString(job.DriverID),
		job.Status,
		nullTime(job.AcceptedAt),
		nullTime(job.StartedAt),
		nullTime(job.CompletedAt),
		nullTime(job.CancelledAt),
		nullString(job.CancellationReason),
		job.DriverPayout,
		job.PlatformCommission,
		photos,
		job.TenantID,
		job.ID,
		job.Version,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Distinguish a lost race from a missing row.
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM jobs WHERE tenant_id = $1 AND id = $2)`
		if err := r.q.QueryRowContext(ctx, checkQuery, job.TenantID, job.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repository.ErrVersionConflict
		}
		return repository.ErrNotFound
	}

	job.Version++
	return nil
}

// CountOpenByDriver returns the number of non-terminal jobs currently
// assigned to the driver.
func (r *JobRepository) CountOpenByDriver(ctx context.Context, tenantID, driverID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM jobs
		WHERE tenant_id = $1 AND driver_id = $2 AND status NOT IN ('completed', 'cancelled')
	`

	var count int
	if err := r.q.QueryRowContext(ctx, query, tenantID, driverID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
