package review

import (
	"errors"
	"net/http"
	"strconv"

	"gymspot/internal/api"
	"gymspot/internal/auth"
	"gymspot/internal/gym"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo       Repository
	gymService gym.Service
}

func NewHandler(repo Repository, gymService gym.Service) *Handler {
	return &Handler{
		repo:       repo,
		gymService: gymService,
	}
}

// @Summary      Create review
// @Description  Customer-only: one review per gym; the gym's aggregate rating is updated
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body review.CreateReviewRequest true "Review payload"
// @Success      201 {object} review.Review
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.gymService.GetGymByID(ctx, req.GymID); err != nil {
		if errors.Is(err, gym.ErrGymNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	rv, err := h.repo.CreateWithRatingRefresh(ctx, userID, req)
	if err != nil {
		if errors.Is(err, ErrAlreadyReviewed) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "You have already reviewed this gym"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, rv)
}

// @Summary      Gym reviews
// @Tags         reviews
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Offset"
// @Success      200 {array} review.ReviewWithAuthor
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/reviews [get]
func (h *Handler) ListGymReviews(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid limit"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid offset"})
		return
	}

	reviews, err := h.repo.GetGymReviews(c.Request.Context(), gymID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary      My reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} review.Review
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /reviews [get]
func (h *Handler) ListMyReviews(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	reviews, err := h.repo.GetUserReviews(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary      Delete review
// @Description  Author-only; the gym's aggregate rating is updated
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        reviewID path int true "Review ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /reviews/{reviewID} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("reviewID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid review ID"})
		return
	}

	if err := h.repo.DeleteWithRatingRefresh(c.Request.Context(), reviewID, userID); err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Review deleted"})
}
