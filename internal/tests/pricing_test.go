package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/service"
)

const testTenant = "tenant-1"

func newRuleRepoWithDefaults() *MockPricingRuleRepository {
	ruleRepo := NewMockPricingRuleRepository()
	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-1", TenantID: testTenant, ItemType: "couch_sofa", BasePrice: 75.00, IsActive: true,
	})
	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-2", TenantID: testTenant, ItemType: "mattress", BasePrice: 50.00, IsActive: true,
	})
	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-3", TenantID: testTenant, ItemType: "appliance", BasePrice: 60.00, IsActive: true,
	})
	return ruleRepo
}

// ──────────────────────────────────────────────
// 1. QUOTE COMPUTATION
// ──────────────────────────────────────────────

func TestQuote_ItemizedBreakdown(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate: 0.10,
	})

	quote, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID: testTenant,
		Items: []service.ItemRequest{
			{ItemType: "couch_sofa", Quantity: 1},
			{ItemType: "mattress", Quantity: 1},
		},
		SurgeMultiplier: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.PriceItems != 125.00 {
		t.Errorf("expected price_items 125.00, got %.2f", quote.PriceItems)
	}
	if quote.PriceSurge != 0 {
		t.Errorf("expected price_surge 0, got %.2f", quote.PriceSurge)
	}
	if quote.PriceServiceFee != 12.50 {
		t.Errorf("expected price_service_fee 12.50, got %.2f", quote.PriceServiceFee)
	}
	if quote.PriceTotal != 137.50 {
		t.Errorf("expected price_total 137.50, got %.2f", quote.PriceTotal)
	}
	if quote.SurgeMultiplier != 1.0 {
		t.Errorf("expected surge multiplier 1.0, got %.2f", quote.SurgeMultiplier)
	}
	if len(quote.Items) != 2 || quote.Items[0].Price != 75.00 {
		t.Errorf("expected frozen unit prices on line items, got %+v", quote.Items)
	}
}

func TestQuote_SurgeAppliesBeforeServiceFee(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate: 0.10,
	})

	quote, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID:        testTenant,
		Items:           []service.ItemRequest{{ItemType: "couch_sofa", Quantity: 2}},
		SurgeMultiplier: 1.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 150 items, surge adds 50%, fee covers the surged subtotal.
	if quote.PriceItems != 150.00 {
		t.Errorf("expected price_items 150.00, got %.2f", quote.PriceItems)
	}
	if quote.PriceSurge != 75.00 {
		t.Errorf("expected price_surge 75.00, got %.2f", quote.PriceSurge)
	}
	if quote.PriceServiceFee != 22.50 {
		t.Errorf("expected price_service_fee 22.50, got %.2f", quote.PriceServiceFee)
	}
	if quote.PriceTotal != 247.50 {
		t.Errorf("expected price_total 247.50, got %.2f", quote.PriceTotal)
	}
}

func TestQuote_TotalEqualsSumOfComponents(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate:  0.08,
		MinimumJobPrice: 99.00,
	})

	cases := []struct {
		name  string
		items []service.ItemRequest
		vol   float64
		surge float64
	}{
		{"single item", []service.ItemRequest{{ItemType: "mattress", Quantity: 1}}, 0, 1.0},
		{"minimum applies", []service.ItemRequest{{ItemType: "mattress", Quantity: 1}}, 0, 1.25},
		{"volume adjustment", []service.ItemRequest{{ItemType: "appliance", Quantity: 3}}, 17.33, 1.7},
		{"awkward rounding", []service.ItemRequest{{ItemType: "couch_sofa", Quantity: 1}, {ItemType: "appliance", Quantity: 2}}, 0.01, 1.33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quote, err := engine.Quote(context.Background(), service.QuoteRequest{
				TenantID:        testTenant,
				Items:           tc.items,
				VolumeAdj:       tc.vol,
				SurgeMultiplier: tc.surge,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			sum := quote.PriceItems + quote.PriceVolumeAdj + quote.PriceSurge + quote.PriceServiceFee
			if math.Abs(sum-quote.PriceTotal) > 1e-9 {
				t.Errorf("total %.2f does not equal component sum %.2f", quote.PriceTotal, sum)
			}
		})
	}
}

func TestQuote_MinimumJobPriceFoldsIntoVolumeAdj(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate:  0.10,
		MinimumJobPrice: 99.00,
	})

	quote, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID:        testTenant,
		Items:           []service.ItemRequest{{ItemType: "mattress", Quantity: 1}},
		SurgeMultiplier: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !quote.MinimumApplied {
		t.Error("expected minimum_applied to be true")
	}
	if quote.PriceVolumeAdj != 49.00 {
		t.Errorf("expected volume adj topped up to 49.00, got %.2f", quote.PriceVolumeAdj)
	}
	if quote.PriceServiceFee != 9.90 {
		t.Errorf("expected fee on the floored subtotal 9.90, got %.2f", quote.PriceServiceFee)
	}
	if quote.PriceTotal != 108.90 {
		t.Errorf("expected total 108.90, got %.2f", quote.PriceTotal)
	}
}

func TestQuote_SurgeNeverNegative(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate: 0.10,
	})

	// A multiplier below 1.0 is clamped; surge never discounts.
	quote, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID:        testTenant,
		Items:           []service.ItemRequest{{ItemType: "mattress", Quantity: 1}},
		SurgeMultiplier: 0.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.PriceSurge != 0 {
		t.Errorf("expected zero surge, got %.2f", quote.PriceSurge)
	}
	if quote.SurgeMultiplier != 1.0 {
		t.Errorf("expected clamped multiplier 1.0, got %.2f", quote.SurgeMultiplier)
	}
}

// ──────────────────────────────────────────────
// 2. QUOTE VALIDATION
// ──────────────────────────────────────────────

func TestQuote_UnknownItemTypeRejected(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate: 0.10,
	})

	_, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID:        testTenant,
		Items:           []service.ItemRequest{{ItemType: "piano", Quantity: 1}},
		SurgeMultiplier: 1.0,
	})
	if !errors.Is(err, service.ErrUnknownItemType) {
		t.Errorf("expected ErrUnknownItemType, got %v", err)
	}
}

func TestQuote_InactiveRuleTreatedAsUnknown(t *testing.T) {
	t.Parallel()

	ruleRepo := NewMockPricingRuleRepository()
	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-1", TenantID: testTenant, ItemType: "couch_sofa", BasePrice: 75.00, IsActive: false,
	})
	engine := service.NewPricingEngine(ruleRepo, service.PricingConfig{ServiceFeeRate: 0.10})

	_, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID:        testTenant,
		Items:           []service.ItemRequest{{ItemType: "couch_sofa", Quantity: 1}},
		SurgeMultiplier: 1.0,
	})
	if !errors.Is(err, service.ErrUnknownItemType) {
		t.Errorf("expected ErrUnknownItemType for inactive rule, got %v", err)
	}
}

func TestQuote_EmptyItemsRejected(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate: 0.10,
	})

	_, err := engine.Quote(context.Background(), service.QuoteRequest{TenantID: testTenant})
	if !errors.Is(err, service.ErrEmptyItems) {
		t.Errorf("expected ErrEmptyItems, got %v", err)
	}
}

func TestQuote_NonPositiveQuantityRejected(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate: 0.10,
	})

	_, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID:        testTenant,
		Items:           []service.ItemRequest{{ItemType: "mattress", Quantity: 0}},
		SurgeMultiplier: 1.0,
	})
	if !errors.Is(err, service.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestQuote_TenantIsolation(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(newRuleRepoWithDefaults(), service.PricingConfig{
		ServiceFeeRate: 0.10,
	})

	// Rules belong to tenant-1; tenant-2 must not see them.
	_, err := engine.Quote(context.Background(), service.QuoteRequest{
		TenantID:        "tenant-2",
		Items:           []service.ItemRequest{{ItemType: "couch_sofa", Quantity: 1}},
		SurgeMultiplier: 1.0,
	})
	if !errors.Is(err, service.ErrUnknownItemType) {
		t.Errorf("expected ErrUnknownItemType across tenants, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 3. RULE ADMINISTRATION
// ──────────────────────────────────────────────

func TestCreateRule_NegativeBasePriceRejected(t *testing.T) {
	t.Parallel()

	engine := service.NewPricingEngine(NewMockPricingRuleRepository(), service.PricingConfig{})

	err := engine.CreateRule(context.Background(), &domain.PricingRule{
		TenantID: testTenant, ItemType: "couch_sofa", BasePrice: -5,
	})
	if !errors.Is(err, service.ErrInvalidBasePrice) {
		t.Errorf("expected ErrInvalidBasePrice, got %v", err)
	}
}
