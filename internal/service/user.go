package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/cvsper/junkos-backend/internal/auth"
	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

var (
	// ErrEmailTaken is returned when registering with an email that already
	// has an account in the tenant.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login. The message never
	// reveals whether the account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountSuspended is returned when a suspended account logs in.
	ErrAccountSuspended = errors.New("account suspended")
)

// UserService handles account registration and login.
type UserService struct {
	userRepo repository.UserRepository
	issuer   *auth.TokenIssuer
	log      *logrus.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, issuer *auth.TokenIssuer, log *logrus.Logger) *UserService {
	return &UserService{userRepo: userRepo, issuer: issuer, log: log}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	TenantID string
	Email    string
	Phone    string
	Name     string
	Password string
	Role     domain.Role
}

// Register creates an account. Admin accounts are provisioned out of band, so
// self-registration only accepts the customer and driver roles.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if req.Role != domain.RoleCustomer && req.Role != domain.RoleDriver {
		req.Role = domain.RoleCustomer
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.TenantID, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		TenantID:     req.TenantID,
		Email:        email,
		Phone:        req.Phone,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": user.TenantID,
		"user_id":   user.ID,
		"role":      user.Role,
	}).Info("user registered")

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, tenantID, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Status == domain.UserStatusSuspended {
		return "", nil, ErrAccountSuspended
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, tenantID, userID)
}

// SetStatus sets a user's account status.
func (s *UserService) SetStatus(ctx context.Context, tenantID, userID string, status domain.UserStatus) error {
	return s.userRepo.UpdateStatus(ctx, tenantID, userID, status)
}
