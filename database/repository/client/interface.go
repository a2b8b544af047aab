package clientRepo

import (
	"context"
	"errors"

	"ecocity/models"
)

// ErrNotFound is returned when no client matches the given id.
var ErrNotFound = errors.New("client: not found")

// ClientRepository is the minimal account store the scheduling and payment
// flows depend on.
type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByPhone(ctx context.Context, phone string) (*models.Client, error)
	UpdateFCMToken(ctx context.Context, id, token string) error
}
