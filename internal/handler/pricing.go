package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/middleware"
	"github.com/cvsper/junkos-backend/internal/service"
)

// PricingHandler handles HTTP requests for quotes, pricing rules, and surge
// zones.
type PricingHandler struct {
	pricing *service.PricingEngine
	surge   *service.SurgeResolver
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricing *service.PricingEngine, surge *service.SurgeResolver) *PricingHandler {
	return &PricingHandler{pricing: pricing, surge: surge}
}

// QuoteRequest is the HTTP request body for a price estimate.
type QuoteRequest struct {
	Lat       float64          `json:"lat"`
	Lng       float64          `json:"lng"`
	Items     []JobItemRequest `json:"items" binding:"required"`
	VolumeAdj float64          `json:"volume_adj,omitempty"`
}

// Quote handles POST /v1/quotes. The estimate resolves surge for the request
// location at the current time; nothing is persisted.
func (h *PricingHandler) Quote(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	multiplier, err := h.surge.Resolve(c.Request.Context(), claims.TenantID, req.Lat, req.Lng, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]service.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ItemRequest{ItemType: item.ItemType, Quantity: item.Quantity})
	}

	quote, err := h.pricing.Quote(c.Request.Context(), service.QuoteRequest{
		TenantID:        claims.TenantID,
		Items:           items,
		VolumeAdj:       req.VolumeAdj,
		SurgeMultiplier: multiplier,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, quote)
}

// RuleRequest is the HTTP request body for creating or updating a rule.
type RuleRequest struct {
	ItemType    string  `json:"item_type" binding:"required"`
	BasePrice   float64 `json:"base_price"`
	Description string  `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// RuleResponse is the HTTP representation of a pricing rule.
type RuleResponse struct {
	ID          string  `json:"id"`
	ItemType    string  `json:"item_type"`
	BasePrice   float64 `json:"base_price"`
	Description string  `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}

func toRuleResponse(r *domain.PricingRule) RuleResponse {
	return RuleResponse{
		ID:          r.ID,
		ItemType:    r.ItemType,
		BasePrice:   r.BasePrice,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

// ListRules handles GET /v1/pricing/rules
func (h *PricingHandler) ListRules(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	activeOnly := c.Query("all") == ""
	rules, err := h.pricing.ListRules(c.Request.Context(), claims.TenantID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		response = append(response, toRuleResponse(rule))
	}
	respondJSON(c, http.StatusOK, response)
}

// CreateRule handles POST /v1/admin/pricing/rules
func (h *PricingHandler) CreateRule(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rule := &domain.PricingRule{
		TenantID:    claims.TenantID,
		ItemType:    req.ItemType,
		BasePrice:   req.BasePrice,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := h.pricing.CreateRule(c.Request.Context(), rule); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toRuleResponse(rule))
}

// UpdateRule handles PUT /v1/admin/pricing/rules/:id
func (h *PricingHandler) UpdateRule(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rule := &domain.PricingRule{
		ID:          c.Param("id"),
		TenantID:    claims.TenantID,
		ItemType:    req.ItemType,
		BasePrice:   req.BasePrice,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := h.pricing.UpdateRule(c.Request.Context(), rule); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRuleResponse(rule))
}

// ZoneRequest is the HTTP request body for creating or updating a surge zone.
type ZoneRequest struct {
	Name       string          `json:"name" binding:"required"`
	Boundary   []domain.LatLng `json:"boundary" binding:"required"`
	Multiplier float64         `json:"multiplier"`
	StartTime  string          `json:"start_time,omitempty"` // HH:MM
	EndTime    string          `json:"end_time,omitempty"`   // HH:MM
	DaysOfWeek []int           `json:"days_of_week,omitempty"`
	IsActive   *bool           `json:"is_active,omitempty"`
}

// ZoneResponse is the HTTP representation of a surge zone.
type ZoneResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Boundary   []domain.LatLng `json:"boundary"`
	Multiplier float64         `json:"multiplier"`
	StartTime  string          `json:"start_time,omitempty"`
	EndTime    string          `json:"end_time,omitempty"`
	DaysOfWeek []int           `json:"days_of_week,omitempty"`
	IsActive   bool            `json:"is_active"`
}

func toZoneResponse(z *domain.SurgeZone) ZoneResponse {
	return ZoneResponse{
		ID:         z.ID,
		Name:       z.Name,
		Boundary:   z.Boundary,
		Multiplier: z.Multiplier,
		StartTime:  z.StartTime,
		EndTime:    z.EndTime,
		DaysOfWeek: z.DaysOfWeek,
		IsActive:   z.IsActive,
	}
}

// ListZones handles GET /v1/admin/surge-zones
func (h *PricingHandler) ListZones(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	activeOnly := c.Query("all") == ""
	zones, err := h.surge.ListZones(c.Request.Context(), claims.TenantID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ZoneResponse, 0, len(zones))
	for _, zone := range zones {
		response = append(response, toZoneResponse(zone))
	}
	respondJSON(c, http.StatusOK, response)
}

// CreateZone handles POST /v1/admin/surge-zones
func (h *PricingHandler) CreateZone(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	zone := zoneFromRequest(claims.TenantID, "", req)
	if err := h.surge.CreateZone(c.Request.Context(), zone); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toZoneResponse(zone))
}

// UpdateZone handles PUT /v1/admin/surge-zones/:id
func (h *PricingHandler) UpdateZone(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	zone := zoneFromRequest(claims.TenantID, c.Param("id"), req)
	if err := h.surge.UpdateZone(c.Request.Context(), zone); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toZoneResponse(zone))
}

func zoneFromRequest(tenantID, id string, req ZoneRequest) *domain.SurgeZone {
	zone := &domain.SurgeZone{
		ID:         id,
		TenantID:   tenantID,
		Name:       req.Name,
		Boundary:   req.Boundary,
		Multiplier: req.Multiplier,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		DaysOfWeek: req.DaysOfWeek,
		IsActive:   true,
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}
	return zone
}
