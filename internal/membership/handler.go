package membership

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"gymspot/internal/api"
	"gymspot/internal/auth"
	"gymspot/internal/gym"
	"gymspot/internal/metrics"

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

// @Summary      Create membership pass
// @Description  Vendor-only: define a pass for an active owned gym
// @Tags         vendor,memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body membership.CreatePassRequest true "Pass payload"
// @Success      201 {object} membership.MembershipPass
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /vendor/gyms/{gymID}/passes [post]
func (h *Handler) CreatePass(c *gin.Context) {
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

	var req CreatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.gymService.RequireActiveOwned(ctx, gymID, vendorID); err != nil {
		switch {
		case errors.Is(err, gym.ErrGymNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		case errors.Is(err, gym.ErrGymNotActive):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Gym must be active to sell passes"})
		default:
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You don't own this gym"})
		}
		return
	}

	pass, err := h.repo.CreatePass(ctx, gymID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create pass"})
		return
	}

	c.JSON(http.StatusCreated, pass)
}

// @Summary      List gym passes
// @Tags         memberships
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Success      200 {array} membership.MembershipPass
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/passes [get]
func (h *Handler) ListPasses(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	passes, err := h.repo.GetPassesByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch passes"})
		return
	}

	c.JSON(http.StatusOK, passes)
}

// @Summary      Purchase membership
// @Description  Customer-only: purchase a pass; the visit limit is snapshotted at purchase time
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body membership.PurchaseRequest true "Purchase payload"
// @Success      201 {object} membership.UserMembership
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /memberships [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()

	pass, err := h.repo.GetPassByID(ctx, req.PassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Membership pass not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	m, err := h.repo.Purchase(ctx, userID, pass)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to purchase membership"})
		return
	}

	metrics.RecordMembershipPurchase(pass.Name)
	c.JSON(http.StatusCreated, m)
}

// @Summary      My memberships
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} membership.UserMembership
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /memberships [get]
func (h *Handler) ListMyMemberships(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	memberships, err := h.repo.GetUserMemberships(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch memberships"})
		return
	}

	c.JSON(http.StatusOK, memberships)
}

// @Summary      Cancel membership
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /memberships/{membershipID}/cancel [put]
func (h *Handler) CancelMembership(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	membershipID, err := strconv.Atoi(c.Param("membershipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid membership ID"})
		return
	}

	if err := h.repo.Cancel(c.Request.Context(), membershipID, userID); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Membership not found or not active"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to cancel membership"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Membership cancelled"})
}
