package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// SettlementConfig contains the tunable settlement parameters.
type SettlementConfig struct {
	CommissionRate float64 // platform share of the net amount, e.g. 0.20
	AsyncPayouts   bool    // run the payout gateway off the request path
}

// DefaultSettlementConfig returns the default settlement configuration.
func DefaultSettlementConfig() SettlementConfig {
	return SettlementConfig{
		CommissionRate: 0.20,
		AsyncPayouts:   true,
	}
}

// PayoutGateway executes a contractor payout with an external provider.
type PayoutGateway interface {
	Payout(ctx context.Context, payment *domain.Payment) error
}

// LogPayoutGateway is a provider stub that records payouts in the log. It
// stands in until a real money-movement integration lands.
type LogPayoutGateway struct {
	log *logrus.Logger
}

// NewLogPayoutGateway creates a new LogPayoutGateway.
func NewLogPayoutGateway(log *logrus.Logger) *LogPayoutGateway {
	return &LogPayoutGateway{log: log}
}

// Payout logs the payout and reports success.
func (g *LogPayoutGateway) Payout(ctx context.Context, payment *domain.Payment) error {
	g.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"job_id":     payment.JobID,
		"payout":     payment.DriverPayout,
	}).Info("payout executed")
	return nil
}

// SettlementService computes the payout split and records the payment for a
// completed job. Settlement is idempotent per job: a second call finds the
// existing payment and does nothing.
type SettlementService struct {
	paymentRepo repository.PaymentRepository
	gateway     PayoutGateway
	config      SettlementConfig
	log         *logrus.Logger
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	paymentRepo repository.PaymentRepository,
	gateway PayoutGateway,
	config SettlementConfig,
	log *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		config:      config,
		log:         log,
	}
}

// Split divides the job's net amount between contractor and platform. The
// payout is the remainder after the rounded commission, so the two always sum
// to total minus service fee exactly.
func (s *SettlementService) Split(priceTotal, serviceFee float64) (driverPayout, platformCommission float64) {
	net := round2(priceTotal - serviceFee)
	platformCommission = round2(net * s.config.CommissionRate)
	driverPayout = round2(net - platformCommission)
	return driverPayout, platformCommission
}

// Settle records the payment for a completed job and kicks off the payout.
// The charge starts pending and advances separately via TransitionCharge.
func (s *SettlementService) Settle(ctx context.Context, job *domain.Job) error {
	existing, err := s.paymentRepo.GetByJobID(ctx, job.TenantID, job.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	payout, commission := s.Split(job.PriceTotal, job.PriceServiceFee)

	now := time.Now()
	payment := &domain.Payment{
		ID:                 uuid.NewString(),
		TenantID:           job.TenantID,
		JobID:              job.ID,
		Amount:             job.PriceTotal,
		ServiceFee:         job.PriceServiceFee,
		PlatformCommission: commission,
		DriverPayout:       payout,
		PaymentStatus:      domain.PaymentStatusPending,
		PayoutStatus:       domain.PayoutStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a settlement race for the same job. The winner's record
			// carries identical amounts.
			return nil
		}
		return err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id":  payment.TenantID,
		"job_id":     payment.JobID,
		"payout":     payment.DriverPayout,
		"commission": payment.PlatformCommission,
	}).Info("payment settled")

	if s.config.AsyncPayouts {
		go s.executePayout(context.Background(), payment)
	} else {
		s.executePayout(ctx, payment)
	}
	return nil
}

// executePayout advances the payout through the gateway. A gateway failure
// marks the payout failed; the payment record itself is untouched, so the
// payout can be retried later.
func (s *SettlementService) executePayout(ctx context.Context, payment *domain.Payment) {
	if err := s.paymentRepo.UpdatePayoutStatus(ctx, payment.TenantID, payment.ID, domain.PayoutStatusProcessing); err != nil {
		s.log.WithError(err).WithField("payment_id", payment.ID).Error("failed to mark payout processing")
		return
	}

	status := domain.PayoutStatusCompleted
	if err := s.gateway.Payout(ctx, payment); err != nil {
		s.log.WithError(err).WithField("payment_id", payment.ID).Error("payout gateway failed")
		status = domain.PayoutStatusFailed
	}

	if err := s.paymentRepo.UpdatePayoutStatus(ctx, payment.TenantID, payment.ID, status); err != nil {
		s.log.WithError(err).WithField("payment_id", payment.ID).Error("failed to record payout status")
	}
}

// RetryPayout re-runs a failed payout.
func (s *SettlementService) RetryPayout(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionPayout(payment.PayoutStatus, domain.PayoutStatusProcessing) {
		return nil, ErrInvalidTransition
	}
	s.executePayout(ctx, payment)
	return s.paymentRepo.GetByID(ctx, tenantID, paymentID)
}

// TransitionCharge moves a payment's charge state. Illegal moves return
// ErrInvalidTransition and leave the payment untouched. The charge machine
// advances independently of the payout machine.
func (s *SettlementService) TransitionCharge(ctx context.Context, tenantID, paymentID string, target domain.PaymentStatus) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionPayment(payment.PaymentStatus, target) {
		return nil, ErrInvalidTransition
	}

	if err := s.paymentRepo.UpdatePaymentStatus(ctx, tenantID, paymentID, target); err != nil {
		return nil, err
	}
	payment.PaymentStatus = target

	s.log.WithFields(logrus.Fields{
		"tenant_id":  tenantID,
		"payment_id": paymentID,
		"status":     target,
	}).Info("charge status updated")
	return payment, nil
}

// GetByID retrieves a payment by ID.
func (s *SettlementService) GetByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(ctx, tenantID, paymentID)
}

// GetByJob retrieves the payment for a job.
func (s *SettlementService) GetByJob(ctx context.Context, tenantID, jobID string) (*domain.Payment, error) {
	return s.paymentRepo.GetByJobID(ctx, tenantID, jobID)
}
