package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cvsper/junkos-backend/internal/auth"
	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/middleware"
	"github.com/cvsper/junkos-backend/internal/repository"
	"github.com/cvsper/junkos-backend/internal/service"
)

// JobHandler handles HTTP requests for jobs.
type JobHandler struct {
	jobService        *service.JobService
	contractorService *service.ContractorService
	matcher           *service.DispatchMatcher
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(
	jobService *service.JobService,
	contractorService *service.ContractorService,
	matcher *service.DispatchMatcher,
) *JobHandler {
	return &JobHandler{
		jobService:        jobService,
		contractorService: contractorService,
		matcher:           matcher,
	}
}

// BookJobRequest is the HTTP request body for booking a job.
type BookJobRequest struct {
	Address        string            `json:"address" binding:"required"`
	Lat            float64           `json:"lat"`
	Lng            float64           `json:"lng"`
	Items          []JobItemRequest  `json:"items" binding:"required"`
	VolumeEstimate float64           `json:"volume_estimate,omitempty"`
	VolumeAdj      float64           `json:"volume_adj,omitempty"`
	Photos         []string          `json:"photos,omitempty"`
	ScheduledAt    *time.Time        `json:"scheduled_at,omitempty"`
}

// JobItemRequest is one requested line item.
type JobItemRequest struct {
	ItemType string `json:"item_type" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// JobResponse is the HTTP representation of a job.
type JobResponse struct {
	ID               string           `json:"id"`
	CustomerID       string           `json:"customer_id"`
	DriverID         string           `json:"driver_id,omitempty"`
	Status           string           `json:"status"`
	Address          string           `json:"address"`
	Lat              float64          `json:"lat"`
	Lng              float64          `json:"lng"`
	Items            []domain.JobItem `json:"items"`
	VolumeEstimate   float64          `json:"volume_estimate,omitempty"`
	Photos           []string         `json:"photos,omitempty"`
	ConfirmationCode string           `json:"confirmation_code"`

	ScheduledAt string `json:"scheduled_at,omitempty"`
	AcceptedAt  string `json:"accepted_at,omitempty"`
	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	CancelledAt string `json:"cancelled_at,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty"`

	PriceItems      float64 `json:"price_items"`
	PriceVolumeAdj  float64 `json:"price_volume_adj"`
	PriceSurge      float64 `json:"price_surge"`
	PriceServiceFee float64 `json:"price_service_fee"`
	PriceTotal      float64 `json:"price_total"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	SurgeActive     bool    `json:"surge_active"`

	DriverPayout       float64 `json:"driver_payout,omitempty"`
	PlatformCommission float64 `json:"platform_commission,omitempty"`
}

func toJobResponse(job *domain.Job) JobResponse {
	resp := JobResponse{
		ID:                 job.ID,
		CustomerID:         job.CustomerID,
		DriverID:           job.DriverID,
		Status:             string(job.Status),
		Address:            job.Address,
		Lat:                job.Lat,
		Lng:                job.Lng,
		Items:              job.Items,
		VolumeEstimate:     job.VolumeEstimate,
		Photos:             job.Photos,
		ConfirmationCode:   job.ConfirmationCode,
		CancellationReason: job.CancellationReason,
		PriceItems:         job.PriceItems,
		PriceVolumeAdj:     job.PriceVolumeAdj,
		PriceSurge:         job.PriceSurge,
		PriceServiceFee:    job.PriceServiceFee,
		PriceTotal:         job.PriceTotal,
		SurgeMultiplier:    job.SurgeMultiplier,
		SurgeActive:        job.SurgeMultiplier > 1.0,
		DriverPayout:       job.DriverPayout,
		PlatformCommission: job.PlatformCommission,
	}
	resp.ScheduledAt = formatTime(job.ScheduledAt)
	resp.AcceptedAt = formatTime(job.AcceptedAt)
	resp.StartedAt = formatTime(job.StartedAt)
	resp.CompletedAt = formatTime(job.CompletedAt)
	resp.CancelledAt = formatTime(job.CancelledAt)
	return resp
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Book handles POST /v1/jobs
func (h *JobHandler) Book(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req BookJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	items := make([]service.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ItemRequest{ItemType: item.ItemType, Quantity: item.Quantity})
	}

	bookReq := service.BookRequest{
		TenantID:       claims.TenantID,
		CustomerID:     claims.UserID,
		Address:        req.Address,
		Lat:            req.Lat,
		Lng:            req.Lng,
		Items:          items,
		VolumeEstimate: req.VolumeEstimate,
		VolumeAdj:      req.VolumeAdj,
		Photos:         req.Photos,
	}
	if req.ScheduledAt != nil {
		bookReq.ScheduledAt = *req.ScheduledAt
	}

	job, err := h.jobService.Book(c.Request.Context(), bookReq)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toJobResponse(job))
}

// Get handles GET /v1/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	job, err := h.jobService.Get(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	switch claims.Role {
	case domain.RoleCustomer:
		if job.CustomerID != claims.UserID {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant of this job"})
			return
		}
	case domain.RoleDriver:
		contractor, err := h.contractorService.GetByUser(c.Request.Context(), claims.TenantID, claims.UserID)
		if err != nil || job.DriverID != contractor.ID {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant of this job"})
			return
		}
	}

	respondJSON(c, http.StatusOK, toJobResponse(job))
}

// List handles GET /v1/jobs. Customers see their own jobs, drivers their
// assignments, admins everything.
func (h *JobHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	filter := repository.JobFilter{
		Status: domain.JobStatus(c.Query("status")),
	}
	switch claims.Role {
	case domain.RoleCustomer:
		filter.CustomerID = claims.UserID
	case domain.RoleDriver:
		contractor, err := h.contractorService.GetByUser(c.Request.Context(), claims.TenantID, claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.DriverID = contractor.ID
	}

	jobs, err := h.jobService.List(c.Request.Context(), claims.TenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		response = append(response, toJobResponse(job))
	}
	respondJSON(c, http.StatusOK, response)
}

// Confirm handles POST /v1/jobs/:id/confirm
func (h *JobHandler) Confirm(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	if !h.checkCustomerOwnership(c, claims) {
		return
	}

	h.transition(c, service.TransitionRequest{
		TenantID: claims.TenantID,
		JobID:    c.Param("id"),
		Target:   domain.JobStatusConfirmed,
	})
}

// checkCustomerOwnership rejects customers acting on another customer's job.
// It writes the error response and returns false on rejection; admins pass.
func (h *JobHandler) checkCustomerOwnership(c *gin.Context, claims *auth.Claims) bool {
	if claims.Role != domain.RoleCustomer {
		return true
	}
	job, err := h.jobService.Get(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return false
	}
	if job.CustomerID != claims.UserID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant of this job"})
		return false
	}
	return true
}

// AssignRequest is the HTTP request body for assigning a driver.
type AssignRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
}

// Assign handles POST /v1/jobs/:id/assign
func (h *JobHandler) Assign(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.transition(c, service.TransitionRequest{
		TenantID: claims.TenantID,
		JobID:    c.Param("id"),
		Target:   domain.JobStatusAssigned,
		DriverID: req.DriverID,
	})
}

// AutoAssignRequest is the HTTP request body for auto assignment.
type AutoAssignRequest struct {
	RadiusKm float64 `json:"radius_km,omitempty"`
}

// AutoAssign handles POST /v1/jobs/:id/auto-assign
func (h *JobHandler) AutoAssign(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req AutoAssignRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	job, err := h.jobService.AutoAssign(c.Request.Context(), claims.TenantID, c.Param("id"), req.RadiusKm)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toJobResponse(job))
}

// Unassign handles POST /v1/jobs/:id/unassign
func (h *JobHandler) Unassign(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	h.transition(c, service.TransitionRequest{
		TenantID: claims.TenantID,
		JobID:    c.Param("id"),
		Target:   domain.JobStatusConfirmed,
	})
}

// ProgressRequest is the HTTP request body for driver progress updates.
type ProgressRequest struct {
	Status string `json:"status" binding:"required"` // en_route, arrived, in_progress, completed
}

// Progress handles POST /v1/jobs/:id/progress
func (h *JobHandler) Progress(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	target := domain.JobStatus(req.Status)
	switch target {
	case domain.JobStatusEnRoute, domain.JobStatusArrived, domain.JobStatusInProgress, domain.JobStatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
		return
	}

	tr := service.TransitionRequest{
		TenantID: claims.TenantID,
		JobID:    c.Param("id"),
		Target:   target,
	}

	// Drivers may only progress their own assignment; the service enforces
	// the match against the job.
	if claims.Role == domain.RoleDriver {
		contractor, err := h.contractorService.GetByUser(c.Request.Context(), claims.TenantID, claims.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		tr.DriverID = contractor.ID
	}

	h.transition(c, tr)
}

// CancelRequest is the HTTP request body for cancelling a job.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel handles POST /v1/jobs/:id/cancel
func (h *JobHandler) Cancel(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cancellation reason is required"})
		return
	}

	if !h.checkCustomerOwnership(c, claims) {
		return
	}

	h.transition(c, service.TransitionRequest{
		TenantID: claims.TenantID,
		JobID:    c.Param("id"),
		Target:   domain.JobStatusCancelled,
		Reason:   req.Reason,
	})
}

// Candidates handles GET /v1/jobs/:id/candidates
func (h *JobHandler) Candidates(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	job, err := h.jobService.Get(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	candidates, err := h.matcher.FindCandidates(c.Request.Context(), service.CandidateRequest{
		TenantID: claims.TenantID,
		Lat:      job.Lat,
		Lng:      job.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, candidates)
}

func (h *JobHandler) transition(c *gin.Context, req service.TransitionRequest) {
	job, err := h.jobService.Transition(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toJobResponse(job))
}
