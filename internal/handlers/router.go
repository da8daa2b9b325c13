package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

type HandlerManager struct {
	userHandler         *UserHandler
	notificationHandler *NotificationHandler
	preferenceHandler   *PreferenceHandler
	importExportHandler *ImportExportHandler
	chatHandler         *ChatHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		preferenceHandler:   NewPreferenceHandler(serviceManager.Preference(), logger),
		importExportHandler: NewImportExportHandler(serviceManager.ImportExport(), logger),
		chatHandler:         NewChatHandler(serviceManager.Chat(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// User lifecycle routes
		users := v1.Group("/users")
		{
			users.POST("/register", hm.userHandler.Register)
			users.GET("/:id", hm.userHandler.GetUser)
			users.POST("/:id/approve", hm.userHandler.Approve)
			users.POST("/:id/activate", hm.userHandler.Activate)
			users.POST("/:id/mood-checkin", hm.userHandler.RecordMoodCheckin)

			// Per-user notification routes
			users.GET("/:id/notifications", withUserIDAlias(hm.notificationHandler.List))
			users.GET("/:id/notifications/unread-count", withUserIDAlias(hm.notificationHandler.UnreadCount))
			users.POST("/:id/notifications/read-all", withUserIDAlias(hm.notificationHandler.MarkAllRead))

			// Preferences
			users.GET("/:id/preferences", withUserIDAlias(hm.preferenceHandler.Get))
			users.PUT("/:id/preferences", withUserIDAlias(hm.preferenceHandler.Update))
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.POST("/:id/read/:user_id", hm.notificationHandler.MarkRead)
			notifications.DELETE("/expired", hm.notificationHandler.PurgeExpired)
		}

		// Assessment question import/export
		assessmentTypes := v1.Group("/assessment-types")
		{
			assessmentTypes.GET("/:id/questions/export", hm.importExportHandler.ExportQuestions)
			assessmentTypes.POST("/:id/questions/import", hm.importExportHandler.ImportQuestions)
		}

		// Chat routes
		chat := v1.Group("/chat/rooms/:room_id")
		{
			chat.GET("/messages", hm.chatHandler.GetMessages)
			chat.POST("/messages", hm.chatHandler.SendMessage)
		}
	}
}

// withUserIDAlias lets nested user routes reuse handlers that read the
// "user_id" path parameter.
func withUserIDAlias(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "user_id", Value: c.Param("id")})
		handler(c)
	}
}
