package domain

import "time"

// Role represents a user's role on the platform.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

// UserStatus represents the account status of a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents an account in the system. A driver-role user may own
// exactly one Contractor profile.
type User struct {
	ID           string
	TenantID     string
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
