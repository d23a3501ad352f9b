package attendance

import (
	"errors"
	"net/http"
	"strconv"

	"gymspot/internal/api"
	"gymspot/internal/auth"
	"gymspot/internal/booking"
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
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
	case errors.Is(err, ErrAttendanceNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Attendance record not found"})
	case errors.Is(err, booking.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't have permission to manage this booking"})
	case errors.Is(err, ErrAlreadyCheckedIn):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Already checked in for this booking"})
	case errors.Is(err, ErrAlreadyCheckedOut):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Already checked out"})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, gym.ErrGymNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
	case errors.Is(err, gym.ErrNotGymOwner):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't have permission to view this gym's attendance"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
	}
}

// @Summary      Check in
// @Description  Customer-only: check in for an upcoming booking, marking it active
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body attendance.CheckInRequest true "Booking reference"
// @Success      201 {object} attendance.Attendance
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /attendance/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.service.CheckIn(c.Request.Context(), userID, req.BookingID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// @Summary      Check out
// @Description  Customer-only: end a visit, completing the booking
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        attendanceID path int true "Attendance ID"
// @Success      200 {object} attendance.Attendance
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /attendance/{attendanceID}/check-out [put]
func (h *Handler) CheckOut(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	attendanceID, err := strconv.Atoi(c.Param("attendanceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid attendance ID"})
		return
	}

	a, err := h.service.CheckOut(c.Request.Context(), userID, attendanceID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// @Summary      My attendance
// @Description  Lists the authenticated customer's visit history
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} attendance.AttendanceWithDetails
// @Failure      401 {object} api.ErrorResponse
// @Router       /attendance [get]
func (h *Handler) GetMyAttendance(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	records, err := h.service.GetMyAttendance(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// @Summary      Gym attendance
// @Description  Vendor-only: visit records for an owned gym, optionally for one date
// @Tags         vendor,attendance
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        date query string false "Date (YYYY-MM-DD)"
// @Success      200 {array} attendance.AttendanceWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/attendance [get]
func (h *Handler) GetGymAttendance(c *gin.Context) {
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

	records, err := h.service.GetGymAttendance(c.Request.Context(), vendorID, gymID, c.Query("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
