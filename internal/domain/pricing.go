package domain

import "time"

// PricingRule maps an item-type key to its base price. Rules are toggled
// inactive rather than deleted so historical jobs keep their frozen prices.
type PricingRule struct {
	ID          string
	TenantID    string
	ItemType    string
	BasePrice   float64
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Quote is an itemized price breakdown. The total always equals the sum of
// the four components.
type Quote struct {
	Items           []JobItem `json:"items"`
	PriceItems      float64   `json:"price_items"`
	PriceVolumeAdj  float64   `json:"price_volume_adj"`
	PriceSurge      float64   `json:"price_surge"`
	PriceServiceFee float64   `json:"price_service_fee"`
	PriceTotal      float64   `json:"price_total"`
	SurgeMultiplier float64   `json:"surge_multiplier"`
	MinimumApplied  bool      `json:"minimum_applied"`
	Currency        string    `json:"currency"`
}
