package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/middleware"
	"github.com/cvsper/junkos-backend/internal/service"
)

// ContractorHandler handles HTTP requests for contractor profiles.
type ContractorHandler struct {
	contractorService *service.ContractorService
}

// NewContractorHandler creates a new ContractorHandler.
func NewContractorHandler(contractorService *service.ContractorService) *ContractorHandler {
	return &ContractorHandler{contractorService: contractorService}
}

// RegisterContractorRequest is the HTTP request body for creating a profile.
type RegisterContractorRequest struct {
	TruckType     string  `json:"truck_type" binding:"required"`
	TruckCapacity float64 `json:"truck_capacity"`
}

// ContractorResponse is the HTTP representation of a contractor.
type ContractorResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	TruckType      string  `json:"truck_type"`
	TruckCapacity  float64 `json:"truck_capacity"`
	IsOnline       bool    `json:"is_online"`
	Lat            float64 `json:"lat,omitempty"`
	Lng            float64 `json:"lng,omitempty"`
	AvgRating      float64 `json:"avg_rating"`
	TotalJobs      int     `json:"total_jobs"`
	ApprovalStatus string  `json:"approval_status"`
}

func toContractorResponse(c *domain.Contractor) ContractorResponse {
	resp := ContractorResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		TruckType:      c.TruckType,
		TruckCapacity:  c.TruckCapacity,
		IsOnline:       c.IsOnline,
		AvgRating:      c.AvgRating,
		TotalJobs:      c.TotalJobs,
		ApprovalStatus: string(c.ApprovalStatus),
	}
	if c.HasLocation {
		resp.Lat = c.CurrentLat
		resp.Lng = c.CurrentLng
	}
	return resp
}

// Register handles POST /v1/contractors
func (h *ContractorHandler) Register(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req RegisterContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	contractor, err := h.contractorService.Register(c.Request.Context(), service.RegisterContractorRequest{
		TenantID:      claims.TenantID,
		UserID:        claims.UserID,
		TruckType:     req.TruckType,
		TruckCapacity: req.TruckCapacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toContractorResponse(contractor))
}

// Me handles GET /v1/contractors/me
func (h *ContractorHandler) Me(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	contractor, err := h.contractorService.GetByUser(c.Request.Context(), claims.TenantID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toContractorResponse(contractor))
}

// PresenceRequest is the HTTP request body for toggling presence.
type PresenceRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// SetPresence handles PUT /v1/contractors/me/presence
func (h *ContractorHandler) SetPresence(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Online == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	contractor, err := h.contractorService.GetByUser(c.Request.Context(), claims.TenantID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.contractorService.SetPresence(c.Request.Context(), claims.TenantID, contractor.ID, *req.Online); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"online": *req.Online})
}

// LocationRequest is the HTTP request body for a location report.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReportLocation handles PUT /v1/contractors/me/location
func (h *ContractorHandler) ReportLocation(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	contractor, err := h.contractorService.GetByUser(c.Request.Context(), claims.TenantID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.contractorService.ReportLocation(c.Request.Context(), claims.TenantID, contractor.ID, req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"lat": req.Lat, "lng": req.Lng})
}

// List handles GET /v1/admin/contractors
func (h *ContractorHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	contractors, err := h.contractorService.List(c.Request.Context(), claims.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ContractorResponse, 0, len(contractors))
	for _, contractor := range contractors {
		response = append(response, toContractorResponse(contractor))
	}
	respondJSON(c, http.StatusOK, response)
}

// ApprovalRequest is the HTTP request body for an approval change.
type ApprovalRequest struct {
	Status string `json:"status" binding:"required"` // approved, suspended, rejected
}

// SetApproval handles PUT /v1/admin/contractors/:id/approval
func (h *ContractorHandler) SetApproval(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status := domain.ApprovalStatus(req.Status)
	switch status {
	case domain.ApprovalStatusApproved, domain.ApprovalStatusSuspended, domain.ApprovalStatusRejected, domain.ApprovalStatusPending:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid approval status"})
		return
	}

	if err := h.contractorService.SetApproval(c.Request.Context(), claims.TenantID, c.Param("id"), status); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"status": req.Status})
}
