package handlers

import (
	"net/http"
	"strconv"

	"ecocity/services/notification"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the per-user notification feed.
type NotificationHandler struct {
	Service notification.Service
}

func NewNotificationHandler(service notification.Service) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	notifications, err := h.Service.ListForUser(c.Request.Context(), userID, unreadOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	if err := h.Service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	count, err := h.Service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": count})
}

func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	count, err := h.Service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
