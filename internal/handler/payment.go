package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/middleware"
	"github.com/cvsper/junkos-backend/internal/service"
)

// PaymentHandler handles HTTP requests for payments and payouts.
type PaymentHandler struct {
	settlement *service.SettlementService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(settlement *service.SettlementService) *PaymentHandler {
	return &PaymentHandler{settlement: settlement}
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID                 string  `json:"id"`
	JobID              string  `json:"job_id"`
	Amount             float64 `json:"amount"`
	ServiceFee         float64 `json:"service_fee"`
	PlatformCommission float64 `json:"platform_commission"`
	DriverPayout       float64 `json:"driver_payout"`
	PaymentStatus      string  `json:"payment_status"`
	PayoutStatus       string  `json:"payout_status"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                 p.ID,
		JobID:              p.JobID,
		Amount:             p.Amount,
		ServiceFee:         p.ServiceFee,
		PlatformCommission: p.PlatformCommission,
		DriverPayout:       p.DriverPayout,
		PaymentStatus:      string(p.PaymentStatus),
		PayoutStatus:       string(p.PayoutStatus),
	}
}

// GetByJob handles GET /v1/jobs/:id/payment
func (h *PaymentHandler) GetByJob(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	payment, err := h.settlement.GetByJob(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// Get handles GET /v1/admin/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	payment, err := h.settlement.GetByID(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// Authorize handles POST /v1/admin/payments/:id/authorize
func (h *PaymentHandler) Authorize(c *gin.Context) {
	h.chargeTransition(c, domain.PaymentStatusAuthorized)
}

// Capture handles POST /v1/admin/payments/:id/capture
func (h *PaymentHandler) Capture(c *gin.Context) {
	h.chargeTransition(c, domain.PaymentStatusCaptured)
}

// Refund handles POST /v1/admin/payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	h.chargeTransition(c, domain.PaymentStatusRefunded)
}

// Fail handles POST /v1/admin/payments/:id/fail
func (h *PaymentHandler) Fail(c *gin.Context) {
	h.chargeTransition(c, domain.PaymentStatusFailed)
}

func (h *PaymentHandler) chargeTransition(c *gin.Context, target domain.PaymentStatus) {
	claims := middleware.ClaimsFrom(c)

	payment, err := h.settlement.TransitionCharge(c.Request.Context(), claims.TenantID, c.Param("id"), target)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// RetryPayout handles POST /v1/admin/payments/:id/retry-payout
func (h *PaymentHandler) RetryPayout(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	payment, err := h.settlement.RetryPayout(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}
