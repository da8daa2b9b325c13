package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// List returns a user's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}

	filters := parseNotificationFilters(c)
	notifications, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{
			"notifications": notifications,
			"count":         len(notifications),
		},
	})
}

// UnreadCount returns the badge counter for a user.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{"unread_count": count},
	})
}

// MarkRead marks one notification as read for its owner.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}
	notificationID := h.parseIDParam(c, "id")
	if notificationID == 0 {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Notification marked read"})
}

// MarkAllRead marks every unread notification of a user as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "All notifications marked read"})
}

// PurgeExpired removes notifications past their expiry. Maintenance endpoint,
// also run on a schedule.
func (h *NotificationHandler) PurgeExpired(c *gin.Context) {
	deleted, err := h.notificationService.PurgeExpired(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Expired notifications purged",
		Data:    gin.H{"deleted": deleted},
	})
}

func parseNotificationFilters(c *gin.Context) repositories.NotificationFilters {
	var filters repositories.NotificationFilters

	if raw := c.Query("type"); raw != "" {
		t := models.NotificationType(raw)
		filters.Type = &t
	}
	if raw := c.Query("priority"); raw != "" {
		p := models.NotificationPriority(raw)
		filters.Priority = &p
	}
	if raw := c.Query("is_read"); raw != "" {
		if isRead, err := strconv.ParseBool(raw); err == nil {
			filters.IsRead = &isRead
		}
	}
	if raw := c.Query("include_expired"); raw != "" {
		filters.IncludeExpired, _ = strconv.ParseBool(raw)
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	return filters
}
