package booking

import (
	"errors"
	"net/http"
	"strconv"

	"gymspot/internal/api"
	"gymspot/internal/auth"
	"gymspot/internal/gym"
	"gymspot/internal/slot"

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
	case errors.Is(err, ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
	case errors.Is(err, slot.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Time slot not found"})
	case errors.Is(err, ErrSlotUnavailable):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Time slot is full or unavailable"})
	case errors.Is(err, slot.ErrSlotBusy):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "Slot is busy, please retry"})
	case errors.Is(err, ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't have permission to access this booking"})
	case errors.Is(err, ErrAlreadyCancelled):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Booking is already cancelled"})
	case errors.Is(err, ErrAlreadyCompleted):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Completed bookings cannot be cancelled"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, gym.ErrGymNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
	case errors.Is(err, gym.ErrNotGymOwner):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't have permission to view this gym's bookings"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
	}
}

// @Summary      Create booking
// @Description  Customer-only: reserve one unit of slot capacity and create the booking atomically
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CreateBookingRequest true "Booking payload"
// @Success      201 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.Reserve(c.Request.Context(), userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      Cancel booking
// @Description  Cancel an upcoming or active booking and release its slot unit
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [put]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cancelled)
}

// @Summary      My bookings
// @Description  Lists the authenticated customer's bookings, optionally filtered by status
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter (upcoming, active, completed, cancelled)"
// @Success      200 {array} booking.Booking
// @Failure      401 {object} api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) GetMyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.GetMyBookings(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Get booking
// @Description  Fetch a single booking; customers see their own, vendors their gyms'
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} booking.Booking
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	userType, _ := auth.GetUserType(c)

	b, err := h.service.GetBooking(c.Request.Context(), userID, userType, bookingID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Gym bookings
// @Description  Vendor-only: bookings for an owned gym with customer details
// @Tags         vendor,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        date query string false "Date (YYYY-MM-DD)"
// @Param        status query string false "Status filter"
// @Success      200 {array} booking.BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/bookings [get]
func (h *Handler) GetGymBookings(c *gin.Context) {
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

	bookings, err := h.service.GetGymBookings(c.Request.Context(), vendorID, gymID, c.Query("date"), c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Gym dashboard
// @Description  Vendor-only: booking and revenue aggregates for an owned gym
// @Tags         vendor,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} booking.DashboardStats
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
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

	stats, err := h.service.GetDashboard(c.Request.Context(), vendorID, gymID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
