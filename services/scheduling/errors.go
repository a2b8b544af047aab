package scheduling

import "errors"

var (
	// ErrNoZone means the subscription has no zone and cannot be scheduled.
	// The reconciler skips such subscriptions until an operator assigns one.
	ErrNoZone = errors.New("scheduling: subscription has no zone")
	// ErrInactiveSubscription means a scheduling operation was requested for a
	// subscription that is not active.
	ErrInactiveSubscription = errors.New("scheduling: subscription is not active")
)
