package bindingRepo

import (
	"context"
	"errors"

	"ecocity/models"
)

// ErrDuplicateDay is returned when a subscription already holds a binding for
// the weekday; the assignment engine treats it as a no-op during idempotent
// re-entry.
var ErrDuplicateDay = errors.New("binding: subscription already has this weekday")

// BindingRepository manages slot bindings. Destroying bindings always
// releases the capacity they reserved; callers cannot skip the release.
type BindingRepository interface {
	Create(ctx context.Context, b *models.SlotBinding) error
	ListBySubscription(ctx context.Context, subscriptionID string) ([]models.SlotBinding, error)
	// ExistsForProgram reports whether any binding still references the
	// program. Program deletion is blocked while this is true.
	ExistsForProgram(ctx context.Context, programID string) (bool, error)
	// DeleteForSubscription removes all of the subscription's bindings,
	// releasing one place on each bound program first. Returns the number of
	// bindings removed.
	DeleteForSubscription(ctx context.Context, subscriptionID string) (int, error)
}
