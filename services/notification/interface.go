package notification

import (
	"context"

	"ecocity/models"
)

// Service is the notification sink. Notify persists the message and pushes it
// over FCM on a best-effort basis; a push failure never fails the caller.
type Service interface {
	Notify(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}
