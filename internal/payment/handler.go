package payment

import (
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

// @Summary      My payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} payment.Payment
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /payments [get]
func (h *Handler) ListMyPayments(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	payments, err := h.repo.GetUserPayments(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// @Summary      Gym payments
// @Description  Vendor-only: payment records for an owned gym
// @Tags         vendor,payments
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {array} payment.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/payments [get]
func (h *Handler) ListGymPayments(c *gin.Context) {
	vendorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	if _, err := h.gymService.RequireOwned(c.Request.Context(), gymID, vendorID); err != nil {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't own this gym"})
		return
	}

	payments, err := h.repo.GetGymPayments(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
