package equipment

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

// @Summary      Add equipment
// @Description  Vendor-only: add equipment to an owned gym
// @Tags         vendor,equipment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body equipment.CreateEquipmentRequest true "Equipment payload"
// @Success      201 {object} equipment.Equipment
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/equipment [post]
func (h *Handler) CreateEquipment(c *gin.Context) {
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

	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.gymService.RequireOwned(ctx, gymID, vendorID); err != nil {
		switch {
		case errors.Is(err, gym.ErrGymNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		default:
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't own this gym"})
		}
		return
	}

	eq, err := h.repo.Create(ctx, gymID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create equipment"})
		return
	}

	c.JSON(http.StatusCreated, eq)
}

// @Summary      List gym equipment
// @Tags         equipment
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Success      200 {array} equipment.Equipment
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/equipment [get]
func (h *Handler) ListEquipment(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	items, err := h.repo.GetByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch equipment"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary      Remove equipment
// @Description  Vendor-only: remove equipment from an owned gym
// @Tags         vendor,equipment
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        equipmentID path int true "Equipment ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/equipment/{equipmentID} [delete]
func (h *Handler) DeleteEquipment(c *gin.Context) {
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

	equipmentID, err := strconv.Atoi(c.Param("equipmentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid equipment ID"})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.gymService.RequireOwned(ctx, gymID, vendorID); err != nil {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't own this gym"})
		return
	}

	ok, err := h.repo.BelongsToGym(ctx, equipmentID, gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Equipment not found"})
		return
	}

	if err := h.repo.Delete(ctx, equipmentID); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete equipment"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Equipment deleted"})
}
