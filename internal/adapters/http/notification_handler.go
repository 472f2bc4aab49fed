package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

// NotificationHandler handles notification requests
type NotificationHandler struct {
	notificationService ports.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService ports.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary List notifications
// @Description List the caller's notifications, newest first, optionally filtered by read state
// @Tags notifications
// @Produce json
// @Param read query bool false "Read state filter"
// @Success 200 {array} entities.Notification
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor := actorFromContext(c)

	var read *bool
	if raw := c.QueryParam("read"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid read parameter")
		}
		read = &value
	}

	notifications, err := h.notificationService.List(c.Request().Context(), actor, read)
	if err != nil {
		h.logger.Error("List notifications failed", "error", err, "user_id", actor.ID)
		return httpError(err)
	}

	if notifications == nil {
		notifications = []*entities.Notification{}
	}
	return c.JSON(http.StatusOK, notifications)
}

// markReadRequest is the body for the read-state toggle.
type markReadRequest struct {
	Read *bool `json:"read"`
}

// MarkRead godoc
// @Summary Mark a notification read or unread
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} entities.Notification
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor := actorFromContext(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	// Absent body defaults to marking read.
	req := markReadRequest{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	read := true
	if req.Read != nil {
		read = *req.Read
	}

	notification, err := h.notificationService.MarkRead(c.Request().Context(), actor, notificationID, read)
	if err != nil {
		h.logger.Error("Mark notification failed", "error", err, "notification_id", notificationID, "user_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, notification)
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} ports.CountResponse
// @Security BearerAuth
// @Router /notifications/count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor := actorFromContext(c)

	count, err := h.notificationService.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		h.logger.Error("Unread count failed", "error", err, "user_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ports.CountResponse{Count: count})
}

// RecentActivity godoc
// @Summary Recent activity feed
// @Description Newest notifications relevant to the caller; for leaders that includes activity on their tasks
// @Tags notifications
// @Produce json
// @Success 200 {array} entities.Notification
// @Security BearerAuth
// @Router /activities/recent [get]
func (h *NotificationHandler) RecentActivity(c echo.Context) error {
	actor := actorFromContext(c)

	activity, err := h.notificationService.RecentActivity(c.Request().Context(), actor)
	if err != nil {
		h.logger.Error("Recent activity failed", "error", err, "user_id", actor.ID)
		return httpError(err)
	}

	if activity == nil {
		activity = []*entities.Notification{}
	}
	return c.JSON(http.StatusOK, activity)
}
