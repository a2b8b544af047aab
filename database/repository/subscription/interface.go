package subscriptionRepo

import (
	"context"
	"errors"

	"ecocity/models"
)

// ErrNotFound is returned when a subscription, plan or QR record is missing.
var ErrNotFound = errors.New("subscription: not found")

// SubscriptionRepository stores subscriptions, their plans and their renewal
// QR artifacts.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *models.Subscription) error
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Subscription, error)
	// ListActiveByZone returns the zone's subscriptions with status "active".
	// The deactivation cascade and the assignment engine both walk this set.
	ListActiveByZone(ctx context.Context, zoneID string) ([]models.Subscription, error)
	Update(ctx context.Context, s *models.Subscription) error
	UpdateStatus(ctx context.Context, id, status string) error

	GetPlanByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, p *models.SubscriptionPlan) error

	// GetQR returns the subscription's renewal artifact, ErrNotFound when none
	// has been provisioned yet.
	GetQR(ctx context.Context, subscriptionID string) (*models.SubscriptionQR, error)
	GetQRByToken(ctx context.Context, token string) (*models.SubscriptionQR, error)
	SaveQR(ctx context.Context, qr *models.SubscriptionQR) error
}
