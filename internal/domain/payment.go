package domain

import "time"

// PaymentStatus represents the customer-charge state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// PayoutStatus represents the contractor-payout state of a payment. It
// advances independently of PaymentStatus: a captured payment may still have
// a pending payout.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// Payment tracks the charge and payout for a job. One payment per job.
type Payment struct {
	ID                 string
	TenantID           string
	JobID              string
	Amount             float64
	ServiceFee         float64
	PlatformCommission float64
	DriverPayout       float64
	PaymentStatus      PaymentStatus
	PayoutStatus       PayoutStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// paymentTransitions enumerates the permitted charge-state moves.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusAuthorized, PaymentStatusFailed},
	PaymentStatusAuthorized: {PaymentStatusCaptured, PaymentStatusFailed},
	PaymentStatusCaptured:   {PaymentStatusRefunded},
}

// payoutTransitions enumerates the permitted payout-state moves.
var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutStatusPending:    {PayoutStatusProcessing},
	PayoutStatusProcessing: {PayoutStatusCompleted, PayoutStatusFailed},
	PayoutStatusFailed:     {PayoutStatusProcessing},
}

// CanTransitionPayment reports whether the charge state may move from one
// status to another.
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, s := range paymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionPayout reports whether the payout state may move from one
// status to another.
func CanTransitionPayout(from, to PayoutStatus) bool {
	for _, s := range payoutTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
