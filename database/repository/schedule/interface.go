package scheduleRepo

import (
	"context"
	"errors"
	"time"

	"ecocity/models"
)

// ErrNotFound is returned when no collection event matches the given id.
var ErrNotFound = errors.New("schedule: event not found")

// ScheduleRepository stores materialized collection events.
type ScheduleRepository interface {
	CreateMany(ctx context.Context, events []models.CollectionEvent) error
	GetByID(ctx context.Context, id string) (*models.CollectionEvent, error)
	// DeleteScheduledBySubscription removes the subscription's events with
	// status "scheduled" only. Completed, cancelled and missed events are
	// history and survive every regeneration.
	DeleteScheduledBySubscription(ctx context.Context, subscriptionID string) (int, error)
	// CancelScheduledBySubscription marks the subscription's scheduled events
	// cancelled instead of deleting them, used by the deactivation cascade.
	CancelScheduledBySubscription(ctx context.Context, subscriptionID string) (int, error)
	CountBySubscription(ctx context.Context, subscriptionID string) (int64, error)
	ListUpcomingBySubscription(ctx context.Context, subscriptionID string, from time.Time, limit int64) ([]models.CollectionEvent, error)
	// ListByZoneAndDate returns the zone's events for one calendar day,
	// ordered by time slot. Collectors build their daily route from this.
	ListByZoneAndDate(ctx context.Context, zoneID string, day time.Time) ([]models.CollectionEvent, error)
	// ListScheduledOnDate returns every scheduled event on the given day,
	// across zones. The reminder worker fans out from this.
	ListScheduledOnDate(ctx context.Context, day time.Time) ([]models.CollectionEvent, error)
	UpdateStatus(ctx context.Context, id, status string, completedAt *time.Time, collectorNotes string) error
}
