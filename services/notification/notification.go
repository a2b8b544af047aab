package notification

import (
	"context"

	clientRepo "ecocity/database/repository/client"
	notificationRepo "ecocity/database/repository/notification"
	"ecocity/models"
	"ecocity/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNotificationService persists notifications and mirrors them to FCM.
type DefaultNotificationService struct {
	Repo       notificationRepo.NotificationRepository
	ClientRepo clientRepo.ClientRepository
	// FCM is nil when push is disabled; the row is still written.
	FCM *messaging.Client
}

func NewService(repo notificationRepo.NotificationRepository, clients clientRepo.ClientRepository, fcm *messaging.Client) Service {
	return &DefaultNotificationService{Repo: repo, ClientRepo: clients, FCM: fcm}
}

// Notify writes the notification row, then pushes it. The push is best-effort:
// a missing token or a delivery error only logs.
func (s *DefaultNotificationService) Notify(ctx context.Context, n *models.Notification) error {
	logger := utils.GetLogger()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Category == "" {
		n.Category = models.NotifyInfo
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return err
	}

	if s.FCM == nil {
		return nil
	}
	client, err := s.ClientRepo.GetByID(ctx, n.UserID)
	if err != nil || client.FCMToken == "" {
		return nil
	}
	msg := &messaging.Message{
		Token: client.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: map[string]string{
			"category":    n.Category,
			"relatedId":   n.RelatedID,
			"relatedType": n.RelatedType,
		},
	}
	if _, err := s.FCM.Send(ctx, msg); err != nil {
		logger.Warn("FCM push failed",
			zap.String("userId", n.UserID),
			zap.String("notificationId", n.ID),
			zap.Error(err))
	}
	return nil
}

func (s *DefaultNotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error) {
	return s.Repo.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, id string) error {
	return s.Repo.MarkRead(ctx, id)
}

func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.Repo.MarkAllRead(ctx, userID)
}

func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnread(ctx, userID)
}
