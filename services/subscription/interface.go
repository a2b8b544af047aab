package subscription

import (
	"context"
	"errors"

	"ecocity/models"
)

var (
	// ErrAlreadyActive is returned when activating a subscription that is
	// already active.
	ErrAlreadyActive = errors.New("subscription: already active")
	// ErrInvalidStatus is returned for lifecycle transitions to an unknown
	// status.
	ErrInvalidStatus = errors.New("subscription: invalid status")
)

// Service manages the subscription lifecycle. Activation and deactivation
// dispatch the scheduling reconciler after the status change commits.
type Service interface {
	Create(ctx context.Context, req *models.CreateSubscriptionRequest) (*models.Subscription, error)
	Get(ctx context.Context, id string) (*models.Subscription, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Subscription, error)
	// Activate flips the subscription to active, schedules it and lazily
	// provisions its renewal QR artifact.
	Activate(ctx context.Context, id string) error
	// Deactivate moves the subscription to inactive, suspended or cancelled,
	// releasing its bindings and cancelling scheduled events.
	Deactivate(ctx context.Context, id, status string) error
	AssignZone(ctx context.Context, id, zoneID string) error

	UpcomingCollections(ctx context.Context, id string, limit int64) ([]models.CollectionEvent, error)
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)

	// GetRenewalQR returns the subscription's renewal artifact, provisioning
	// it on first access.
	GetRenewalQR(ctx context.Context, id string) (*models.SubscriptionQR, error)
	// ResolveRenewalToken maps a scanned QR token back to its subscription.
	ResolveRenewalToken(ctx context.Context, token string) (*models.Subscription, error)
}
