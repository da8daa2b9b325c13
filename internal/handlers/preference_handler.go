package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

type PreferenceHandler struct {
	BaseHandler
	preferenceService services.PreferenceService
}

func NewPreferenceHandler(preferenceService services.PreferenceService, logger utils.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		BaseHandler:       NewBaseHandler(logger),
		preferenceService: preferenceService,
	}
}

// Get returns the user's notification preferences. Users without a stored
// record see the defaults.
func (h *PreferenceHandler) Get(c *gin.Context) {
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}

	prefs, err := h.preferenceService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: prefs})
}

// Update applies a partial preference update.
func (h *PreferenceHandler) Update(c *gin.Context) {
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}

	var req services.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	prefs, err := h.preferenceService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Preferences updated",
		Data:    prefs,
	})
}
