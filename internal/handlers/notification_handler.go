package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/middleware"
	"github.com/ripplegram/backend/internal/service"
)

// NotificationHandler serves the notification feed.
type NotificationHandler struct {
	identity      *service.IdentityService
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(identity *service.IdentityService, notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		identity:      identity,
		notifications: notifications,
	}
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (h *NotificationHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
}

// GetNotifications lists the caller's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	user, err := h.identity.GetCurrent(c.Request().Context(), middleware.FirebaseUID(c))
	if err != nil {
		return httpError(err)
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	notifications, err := h.notifications.List(c.Request().Context(), user.ID, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// GetUnreadCount returns the caller's unread notification count.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	user, err := h.identity.GetCurrent(c.Request().Context(), middleware.FirebaseUID(c))
	if err != nil {
		return httpError(err)
	}

	count, err := h.notifications.UnreadCount(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	user, err := h.identity.GetCurrent(c.Request().Context(), middleware.FirebaseUID(c))
	if err != nil {
		return httpError(err)
	}

	if err := h.notifications.MarkRead(c.Request().Context(), user.ID, notifID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}
