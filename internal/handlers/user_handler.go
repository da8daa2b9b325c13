package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// Register creates a new account pending admin approval.
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Registration received, your account is pending approval",
		Data:    user,
	})
}

type ApproveUserRequest struct {
	ApproverID uint `json:"approver_id" binding:"required"`
}

// Approve marks a pending user as approved by an admin.
func (h *UserHandler) Approve(c *gin.Context) {
	userID := h.parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	var req ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Approve(c.Request.Context(), userID, req.ApproverID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "User approved",
		Data:    user,
	})
}

// Activate enables an approved account.
func (h *UserHandler) Activate(c *gin.Context) {
	userID := h.parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	user, err := h.userService.Activate(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "User activated",
		Data:    user,
	})
}

// GetUser returns a single user record.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := h.parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: user})
}

// RecordMoodCheckin stamps the user's daily mood check-in.
func (h *UserHandler) RecordMoodCheckin(c *gin.Context) {
	userID := h.parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	if err := h.userService.RecordMoodCheckin(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Mood check-in recorded"})
}
