package notificationRepo

import (
	"context"
	"errors"

	"ecocity/models"
)

// ErrNotFound is returned when no notification matches the given id.
var ErrNotFound = errors.New("notification: not found")

// NotificationRepository stores user-facing notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}
