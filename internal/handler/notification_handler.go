package handler

import (
	"net/http"

	"messenger-fixtures/internal/notification"
	"messenger-fixtures/internal/services"
	"messenger-fixtures/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *services.FixtureService
}

func NewNotificationHandler(service *services.FixtureService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Push resolves a push payload. 204 means the notification was suppressed.
func (h *NotificationHandler) Push(c *gin.Context) {
	var req httpdto.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	n, err := h.service.Notify(c.Request.Context(), notification.PushData{
		ConversationPublicKey: req.ConversationPublicKey,
		MessageID:             req.MessageID,
		AlreadyReceived:       req.AlreadyReceived,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if n == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(n))
}
