package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// PricingRuleRepository is a PostgreSQL implementation of repository.PricingRuleRepository.
type PricingRuleRepository struct {
	q Querier
}

// NewPricingRuleRepository creates a new PostgreSQL pricing rule repository.
func NewPricingRuleRepository(db *sql.DB) *PricingRuleRepository {
	return &PricingRuleRepository{q: db}
}

// Create persists a new rule.
func (r *PricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (id, tenant_id, item_type, base_price, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		rule.ID,
		rule.TenantID,
		rule.ItemType,
		rule.BasePrice,
		nullString(rule.Description),
		rule.IsActive,
		rule.CreatedAt,
		rule.UpdatedAt,
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

const pricingRuleColumns = `id, tenant_id, item_type, base_price, description, is_active, created_at, updated_at`

func scanPricingRule(row interface{ Scan(...any) error }) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var description sql.NullString

	err := row.Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.ItemType,
		&rule.BasePrice,
		&description,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if description.Valid {
		rule.Description = description.String
	}
	return &rule, nil
}

// GetActiveByItemType retrieves the active rule for an item type.
func (r *PricingRuleRepository) GetActiveByItemType(ctx context.Context, tenantID, itemType string) (*domain.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE tenant_id = $1 AND item_type = $2 AND is_active = TRUE`
	return scanPricingRule(r.q.QueryRowContext(ctx, query, tenantID, itemType))
}

// GetAll retrieves rules for a tenant.
func (r *PricingRuleRepository) GetAll(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE tenant_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY item_type`

	rows, err := r.q.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Update persists base price, description, and active flag.
func (r *PricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET base_price = $1, description = $2, is_active = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		rule.BasePrice,
		nullString(rule.Description),
		rule.IsActive,
		rule.TenantID,
		rule.ID,
	)
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
