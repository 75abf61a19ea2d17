package repository

import (
	"context"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, tenantID, id string) (*domain.Payment, error)

	// GetByJobID retrieves the payment for a job, or ErrNotFound.
	GetByJobID(ctx context.Context, tenantID, jobID string) (*domain.Payment, error)

	// UpdatePaymentStatus sets the charge status.
	UpdatePaymentStatus(ctx context.Context, tenantID, id string, status domain.PaymentStatus) error

	// UpdatePayoutStatus sets the payout status.
	UpdatePayoutStatus(ctx context.Context, tenantID, id string, status domain.PayoutStatus) error
}
