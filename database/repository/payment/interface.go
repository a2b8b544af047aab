package paymentRepo

import (
	"context"
	"errors"

	"ecocity/models"
)

// ErrNotFound is returned when no payment matches the lookup.
var ErrNotFound = errors.New("payment: not found")

// PaymentRepository stores mobile-money payment records.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	ListBySubscription(ctx context.Context, subscriptionID string) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id, status, gatewayRef string) error
}
