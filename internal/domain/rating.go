package domain

import "time"

// RatingDirection identifies who is rating whom on a completed job.
type RatingDirection string

const (
	RatingCustomerToDriver RatingDirection = "customer_to_driver"
	RatingDriverToCustomer RatingDirection = "driver_to_customer"
)

// Rating is one star rating on a completed job. A job may carry at most one
// rating per direction.
type Rating struct {
	ID         string
	TenantID   string
	JobID      string
	Direction  RatingDirection
	FromUserID string
	ToUserID   string
	Stars      int // 1..5
	Comment    string
	CreatedAt  time.Time
}
