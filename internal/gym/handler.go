package gym

import (
	"errors"
	"net/http"
	"strconv"

	"gymspot/internal/api"
	"gymspot/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Register a gym
// @Description  Vendor-only: create a new gym listing (starts in pending status)
// @Tags         vendor,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gym.CreateGymRequest true "Gym payload"
// @Success      201 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	vendorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	gym, err := h.service.CreateGym(c.Request.Context(), vendorID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create gym"})
		return
	}

	c.JSON(http.StatusCreated, gym)
}

// @Summary      List active gyms
// @Tags         gyms
// @Produce      json
// @Success      200 {array} gym.Gym
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.service.GetAllGyms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// @Summary      Get gym details
// @Tags         gyms
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /gyms/{gymID} [get]
func (h *Handler) GetGym(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	gym, err := h.service.GetGymByID(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		return
	}

	c.JSON(http.StatusOK, gym)
}

// @Summary      List my gyms
// @Description  Vendor-only: list gyms owned by the authenticated vendor
// @Tags         vendor,gyms
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} gym.Gym
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/gyms [get]
func (h *Handler) ListMyGyms(c *gin.Context) {
	vendorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gyms, err := h.service.GetGymsByVendor(c.Request.Context(), vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// @Summary      Update gym status
// @Description  Admin-only: approve, suspend or reset a gym listing
// @Tags         admin,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body gym.UpdateGymStatusRequest true "New status"
// @Success      200 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/status [put]
func (h *Handler) UpdateGymStatus(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	var req UpdateGymStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	gym, err := h.service.UpdateStatus(c.Request.Context(), gymID, GymStatus(req.Status))
	if err != nil {
		if errors.Is(err, ErrGymNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update gym"})
		return
	}

	c.JSON(http.StatusOK, gym)
}
