package slot

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gymspot/internal/api"
	"gymspot/internal/auth"
	"gymspot/internal/gym"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gym.ErrGymNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
	case errors.Is(err, gym.ErrNotGymOwner):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't have permission to manage slots for this gym"})
	case errors.Is(err, gym.ErrGymNotActive):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Gym must be active to create slots"})
	case errors.Is(err, ErrEquipmentNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Equipment not found or doesn't belong to this gym"})
	case errors.Is(err, ErrInvalidSlot), errors.Is(err, ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrSlotNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Time slot not found"})
	case errors.Is(err, ErrSlotHasBookings):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Time slot has bookings and cannot be deleted"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
	}
}

// @Summary      Create time slot
// @Description  Vendor-only: create a bookable time slot for an active owned gym
// @Tags         vendor,slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body slot.CreateSlotRequest true "Slot payload"
// @Success      201 {object} slot.TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/slots [post]
func (h *Handler) CreateSlot(c *gin.Context) {
	vendorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.CreateSlot(c.Request.Context(), vendorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      Bulk create time slots
// @Description  Vendor-only: expand daily templates over a date range, one slot per date x template
// @Tags         vendor,slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body slot.BulkCreateRequest true "Bulk payload"
// @Success      201 {object} api.CountResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/slots/bulk [post]
func (h *Handler) CreateBulk(c *gin.Context) {
	vendorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	count, err := h.service.CreateBulk(c.Request.Context(), vendorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.CountResponse{
		Message: fmt.Sprintf("created %d time slots", count),
		Count:   count,
	})
}

// @Summary      Available slots
// @Description  Lists slots with live availability for a gym on a date
// @Tags         slots
// @Produce      json
// @Param        gym_id query int true "Gym ID"
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Param        equipment_id query int false "Equipment ID"
// @Success      200 {array} slot.TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /slots/available [get]
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Query("gym_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "gym_id query param is required"})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date query param is required"})
		return
	}

	var equipmentID *int
	if raw := c.Query("equipment_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid equipment_id"})
			return
		}
		equipmentID = &id
	}

	slots, err := h.service.GetAvailableSlots(c.Request.Context(), gymID, date, equipmentID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// @Summary      Gym slots
// @Description  Vendor-only: all slots for an owned gym including booked counts
// @Tags         vendor,slots
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        date query string false "Date (YYYY-MM-DD)"
// @Success      200 {array} slot.TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/slots [get]
func (h *Handler) GetGymSlots(c *gin.Context) {
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

	slots, err := h.service.GetSlotsByGym(c.Request.Context(), vendorID, gymID, c.Query("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// @Summary      Override slot availability
// @Description  Vendor-only: force a slot closed (or reopen it); a full slot is never reopened
// @Tags         vendor,slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slotID path int true "Slot ID"
// @Param        request body slot.SetAvailabilityRequest true "Availability flag"
// @Success      200 {object} slot.TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/slots/{slotID}/availability [put]
func (h *Handler) SetAvailability(c *gin.Context) {
	vendorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.service.SetAvailability(c.Request.Context(), vendorID, slotID, *req.Available)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete time slot
// @Description  Vendor-only: delete a slot with no bookings
// @Tags         vendor,slots
// @Produce      json
// @Security     BearerAuth
// @Param        slotID path int true "Slot ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/slots/{slotID} [delete]
func (h *Handler) DeleteSlot(c *gin.Context) {
	vendorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), vendorID, slotID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Time slot deleted"})
}
