package repository

import (
	"context"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// PricingRuleRepository defines the persistence operations for pricing rules.
type PricingRuleRepository interface {
	// Create persists a new rule.
	Create(ctx context.Context, rule *domain.PricingRule) error

	// GetActiveByItemType retrieves the active rule for an item type, or
	// ErrNotFound when no active rule exists.
	GetActiveByItemType(ctx context.Context, tenantID, itemType string) (*domain.PricingRule, error)

	// GetAll retrieves rules for a tenant; activeOnly filters to active.
	GetAll(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.PricingRule, error)

	// Update persists base price, description, and active flag. Rules are
	// deactivated rather than deleted.
	Update(ctx context.Context, rule *domain.PricingRule) error
}
