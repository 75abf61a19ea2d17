package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment. The (tenant_id, job_id) unique constraint
// maps onto ErrDuplicate so concurrent settlements of the same job collapse
// into one payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, tenant_id, job_id, amount, service_fee, platform_commission, driver_payout, payment_status, payout_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.TenantID,
		payment.JobID,
		payment.Amount,
		payment.ServiceFee,
		payment.PlatformCommission,
		payment.DriverPayout,
		payment.PaymentStatus,
		payment.PayoutStatus,
		payment.CreatedAt,
		payment.UpdatedAt,
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

const paymentColumns = `id, tenant_id, job_id, amount, service_fee, platform_commission, driver_payout, payment_status, payout_status, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.JobID,
		&p.Amount,
		&p.ServiceFee,
		&p.PlatformCommission,
		&p.DriverPayout,
		&p.PaymentStatus,
		&p.PayoutStatus,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND id = $2`
	return scanPayment(r.q.QueryRowContext(ctx, query, tenantID, id))
}

// GetByJobID retrieves the payment for a job.
func (r *PaymentRepository) GetByJobID(ctx context.Context, tenantID, jobID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND job_id = $2`
	return scanPayment(r.q.QueryRowContext(ctx, query, tenantID, jobID))
}

func (r *PaymentRepository) exec(ctx context.Context, query string, args ...any) error {
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

// UpdatePaymentStatus sets the charge status.
func (r *PaymentRepository) UpdatePaymentStatus(ctx context.Context, tenantID, id string, status domain.PaymentStatus) error {
	query := `UPDATE payments SET payment_status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	return r.exec(ctx, query, status, tenantID, id)
}

// UpdatePayoutStatus sets the payout status.
func (r *PaymentRepository) UpdatePayoutStatus(ctx context.Context, tenantID, id string, status domain.PayoutStatus) error {
	query := `UPDATE payments SET payout_status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	return r.exec(ctx, query, status, tenantID, id)
}
