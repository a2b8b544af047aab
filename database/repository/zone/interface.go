package zoneRepo

import (
	"context"
	"errors"

	"ecocity/models"
)

// ErrNotFound is returned when no zone matches the given id.
var ErrNotFound = errors.New("zone: not found")

// ZoneRepository is the data access layer for service zones.
type ZoneRepository interface {
	Create(ctx context.Context, z *models.Zone) error
	GetByID(ctx context.Context, id string) (*models.Zone, error)
	GetAll(ctx context.Context) ([]models.Zone, error)
	Update(ctx context.Context, z *models.Zone) error
	// SetActive flips the zone's active flag. The deactivation cascade over
	// the zone's subscriptions is driven by the zone service, not here.
	SetActive(ctx context.Context, id string, active bool) error
}
