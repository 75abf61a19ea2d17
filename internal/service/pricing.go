package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// PricingConfig contains the tunable pricing parameters.
type PricingConfig struct {
	ServiceFeeRate  float64 // fraction of the surged subtotal, e.g. 0.10
	MinimumJobPrice float64 // floor applied to the pre-surge subtotal, 0 disables
	Currency        string
}

// DefaultPricingConfig returns the default pricing configuration.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ServiceFeeRate:  0.10,
		MinimumJobPrice: 0,
		Currency:        "USD",
	}
}

// PricingEngine computes itemized quotes from the active rule table. Rule
// prices are copied into the quote, so a job priced today keeps its numbers
// even if the rules change tomorrow.
type PricingEngine struct {
	ruleRepo repository.PricingRuleRepository
	config   PricingConfig
}

// NewPricingEngine creates a new PricingEngine.
func NewPricingEngine(ruleRepo repository.PricingRuleRepository, config PricingConfig) *PricingEngine {
	if config.Currency == "" {
		config.Currency = "USD"
	}
	return &PricingEngine{ruleRepo: ruleRepo, config: config}
}

// ItemRequest is one requested line item on a quote.
type ItemRequest struct {
	ItemType string
	Quantity int
}

// QuoteRequest contains the parameters for computing a quote.
type QuoteRequest struct {
	TenantID        string
	Items           []ItemRequest
	VolumeAdj       float64 // flat volume adjustment, may be 0
	SurgeMultiplier float64 // resolved by the surge resolver; <1.0 treated as 1.0
}

// Quote computes the itemized price breakdown. The total always equals the
// sum of the four components to the cent.
func (e *PricingEngine) Quote(ctx context.Context, req QuoteRequest) (*domain.Quote, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	surge := req.SurgeMultiplier
	if surge < 1.0 {
		surge = 1.0
	}

	var lineItems []domain.JobItem
	var priceItems float64

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		rule, err := e.ruleRepo.GetActiveByItemType(ctx, req.TenantID, item.ItemType)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnknownItemType
			}
			return nil, err
		}

		lineItems = append(lineItems, domain.JobItem{
			ItemType: item.ItemType,
			Quantity: item.Quantity,
			Price:    rule.BasePrice,
		})
		priceItems += rule.BasePrice * float64(item.Quantity)
	}
	priceItems = round2(priceItems)

	volumeAdj := round2(req.VolumeAdj)

	// The minimum job price tops up the volume adjustment before surge and
	// fee apply, so the breakdown stays additive.
	minimumApplied := false
	if e.config.MinimumJobPrice > 0 && priceItems+volumeAdj < e.config.MinimumJobPrice {
		volumeAdj = round2(e.config.MinimumJobPrice - priceItems)
		minimumApplied = true
	}

	subtotal := priceItems + volumeAdj

	priceSurge := round2(subtotal * (surge - 1.0))
	if priceSurge < 0 {
		priceSurge = 0
	}

	priceServiceFee := round2(e.config.ServiceFeeRate * (subtotal + priceSurge))
	priceTotal := round2(priceItems + volumeAdj + priceSurge + priceServiceFee)

	return &domain.Quote{
		Items:           lineItems,
		PriceItems:      priceItems,
		PriceVolumeAdj:  volumeAdj,
		PriceSurge:      priceSurge,
		PriceServiceFee: priceServiceFee,
		PriceTotal:      priceTotal,
		SurgeMultiplier: surge,
		MinimumApplied:  minimumApplied,
		Currency:        e.config.Currency,
	}, nil
}

// CreateRule adds a pricing rule for an item type.
func (e *PricingEngine) CreateRule(ctx context.Context, rule *domain.PricingRule) error {
	if rule.BasePrice < 0 {
		return ErrInvalidBasePrice
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	return e.ruleRepo.Create(ctx, rule)
}

// UpdateRule persists changes to an existing rule.
func (e *PricingEngine) UpdateRule(ctx context.Context, rule *domain.PricingRule) error {
	if rule.BasePrice < 0 {
		return ErrInvalidBasePrice
	}
	rule.UpdatedAt = time.Now()
	return e.ruleRepo.Update(ctx, rule)
}

// ListRules retrieves the tenant's rules; activeOnly filters to active.
func (e *PricingEngine) ListRules(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.PricingRule, error) {
	return e.ruleRepo.GetAll(ctx, tenantID, activeOnly)
}

// round2 rounds to cents, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
