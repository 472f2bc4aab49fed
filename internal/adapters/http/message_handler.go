package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

// MessageHandler handles direct messaging requests
type MessageHandler struct {
	messageService ports.MessageService
	logger         *logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService ports.MessageService, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// Conversation godoc
// @Summary Get a conversation
// @Description Get the full message history with another user, oldest first. Their unread messages to the caller are marked read.
// @Tags messages
// @Produce json
// @Param userId path string true "Peer user ID"
// @Success 200 {array} entities.Message
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /messages/{userId} [get]
func (h *MessageHandler) Conversation(c echo.Context) error {
	actor := actorFromContext(c)

	peerID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	messages, err := h.messageService.Conversation(c.Request().Context(), actor, peerID)
	if err != nil {
		h.logger.Error("Get conversation failed", "error", err, "actor_id", actor.ID, "peer_id", peerID)
		return httpError(err)
	}

	if messages == nil {
		messages = []*entities.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

// Send godoc
// @Summary Send a message
// @Description Send a direct message to another user; they get a notification
// @Tags messages
// @Accept json
// @Produce json
// @Param request body ports.SendMessageRequest true "Message data"
// @Success 201 {object} entities.Message
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	actor := actorFromContext(c)

	var req ports.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.messageService.Send(c.Request().Context(), actor, req)
	if err != nil {
		h.logger.Error("Send message failed", "error", err, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, message)
}
