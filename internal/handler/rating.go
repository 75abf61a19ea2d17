package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/middleware"
	"github.com/cvsper/junkos-backend/internal/service"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RateRequest is the HTTP request body for rating a job.
type RateRequest struct {
	Stars   int    `json:"stars" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

// RatingResponse is the HTTP representation of a rating.
type RatingResponse struct {
	ID         string `json:"id"`
	JobID      string `json:"job_id"`
	Direction  string `json:"direction"`
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Stars      int    `json:"stars"`
	Comment    string `json:"comment,omitempty"`
}

func toRatingResponse(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:         r.ID,
		JobID:      r.JobID,
		Direction:  string(r.Direction),
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Stars:      r.Stars,
		Comment:    r.Comment,
	}
}

// Rate handles POST /v1/jobs/:id/ratings
func (h *RatingHandler) Rate(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rating, err := h.ratingService.Rate(c.Request.Context(), service.RateRequest{
		TenantID:    claims.TenantID,
		JobID:       c.Param("id"),
		RaterUserID: claims.UserID,
		Stars:       req.Stars,
		Comment:     req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toRatingResponse(rating))
}

// ListForUser handles GET /v1/users/:id/ratings
func (h *RatingHandler) ListForUser(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	userID := c.Param("id")

	ratings, err := h.ratingService.ListForUser(c.Request.Context(), claims.TenantID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	avg, count, err := h.ratingService.AverageForUser(c.Request.Context(), claims.TenantID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		response = append(response, toRatingResponse(rating))
	}
	respondJSON(c, http.StatusOK, gin.H{
		"ratings": response,
		"average": avg,
		"count":   count,
	})
}
