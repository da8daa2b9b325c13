package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

type ChatHandler struct {
	BaseHandler
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService, logger utils.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		chatService: chatService,
	}
}

// SendMessage stores a room message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	roomID := h.parseIDParam(c, "room_id")
	if roomID == 0 {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.RoomID = roomID

	message, err := h.chatService.SendMessage(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Data: message})
}

// GetMessages returns a page of room messages, newest first.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	roomID := h.parseIDParam(c, "room_id")
	if roomID == 0 {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.chatService.GetRoomMessages(c.Request.Context(), roomID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{
			"messages": messages,
			"count":    len(messages),
		},
	})
}
