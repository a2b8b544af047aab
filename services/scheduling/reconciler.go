package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	scheduleRepo "ecocity/database/repository/schedule"
	subscriptionRepo "ecocity/database/repository/subscription"
	"ecocity/metrics"
	"ecocity/models"
	"ecocity/services/notification"
	"ecocity/utils"

	"go.uber.org/zap"
)

// TxnRunner executes fn inside a storage transaction. Production wires
// database.WithTransaction; tests substitute a pass-through.
type TxnRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Reconciler reacts to registry and lifecycle mutations by rebuilding the
// affected subscriptions' bindings and event horizons. Dispatch is explicit:
// the mutating service calls the matching hook after its write commits.
type Reconciler interface {
	OnSubscriptionActivated(ctx context.Context, subscriptionID string) error
	OnSubscriptionDeactivated(ctx context.Context, subscriptionID string, newStatus string) error
	// OnProgramChanged rebuilds every active subscription in the zone from
	// scratch: bindings are cleared (releasing their places), reassigned
	// against the current program set, and the horizon is regenerated.
	OnProgramChanged(ctx context.Context, zoneID string) error
	// OnZoneDeactivated suspends every active subscription in the zone,
	// releasing bindings and cancelling scheduled events.
	OnZoneDeactivated(ctx context.Context, zoneID string) error
}

// DefaultReconciler is the production reconciler. Each subscription is
// reconciled in its own transaction so one failure rolls back only that
// subscription's changes; the rest of a zone-wide pass proceeds.
type DefaultReconciler struct {
	Engine   *Engine
	Subs     subscriptionRepo.SubscriptionRepository
	Schedule scheduleRepo.ScheduleRepository
	Notifier notification.Service
	Txn      TxnRunner
}

func NewReconciler(engine *Engine, subs subscriptionRepo.SubscriptionRepository, schedule scheduleRepo.ScheduleRepository, notifier notification.Service, txn TxnRunner) Reconciler {
	return &DefaultReconciler{
		Engine:   engine,
		Subs:     subs,
		Schedule: schedule,
		Notifier: notifier,
		Txn:      txn,
	}
}

// reconcileOne rebuilds one subscription inside a transaction and returns the
// weekdays assigned by this pass. With rebuild set, existing bindings are
// cleared first (releasing their places) so the subscription is reassigned
// against the zone's current program set; a stale binding never survives a
// program change. Activation passes rebuild=false and only tops up.
func (r *DefaultReconciler) reconcileOne(ctx context.Context, sub *models.Subscription, rebuild bool) ([]models.Weekday, error) {
	var assigned []models.Weekday
	err := r.Txn(ctx, func(txCtx context.Context) error {
		if rebuild {
			if _, err := r.Engine.Bindings.DeleteForSubscription(txCtx, sub.ID); err != nil {
				return err
			}
		}
		days, err := r.Engine.AssignDays(txCtx, sub)
		if err != nil {
			return err
		}
		assigned = days
		if _, err := r.Engine.TeardownSchedule(txCtx, sub.ID); err != nil {
			return err
		}
		if _, err := r.Engine.GenerateSchedule(txCtx, sub); err != nil {
			return err
		}
		return nil
	})
	return assigned, err
}

func (r *DefaultReconciler) OnSubscriptionActivated(ctx context.Context, subscriptionID string) error {
	logger := utils.GetLogger()

	sub, err := r.Subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.ZoneID == "" {
		logger.Warn("subscription activated without a zone, skipping scheduling",
			zap.String("subscriptionId", sub.ID))
		return nil
	}

	assigned, err := r.reconcileOne(ctx, sub, false)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("activation", "error").Inc()
		return err
	}
	metrics.ReconcileRuns.WithLabelValues("activation", "ok").Inc()
	r.notifyAssignment(ctx, sub, assigned)
	return nil
}

func (r *DefaultReconciler) OnSubscriptionDeactivated(ctx context.Context, subscriptionID string, newStatus string) error {
	sub, err := r.Subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}

	var cancelled int
	err = r.Txn(ctx, func(txCtx context.Context) error {
		if _, err := r.Engine.Bindings.DeleteForSubscription(txCtx, sub.ID); err != nil {
			return err
		}
		n, err := r.Schedule.CancelScheduledBySubscription(txCtx, sub.ID)
		if err != nil {
			return err
		}
		cancelled = n
		return nil
	})
	if err != nil {
		return err
	}

	if cancelled > 0 {
		_ = r.Notifier.Notify(ctx, &models.Notification{
			UserID:      sub.ClientID,
			Title:       "Collections cancelled",
			Message:     fmt.Sprintf("Your subscription is now %s. %d upcoming collections were cancelled.", newStatus, cancelled),
			Category:    models.NotifyWarning,
			RelatedID:   sub.ID,
			RelatedType: "subscription",
		})
	}
	return nil
}

func (r *DefaultReconciler) OnProgramChanged(ctx context.Context, zoneID string) error {
	logger := utils.GetLogger()

	subs, err := r.Subs.ListActiveByZone(ctx, zoneID)
	if err != nil {
		return err
	}

	var failures int
	for i := range subs {
		sub := &subs[i]
		assigned, err := r.reconcileOne(ctx, sub, true)
		if err != nil {
			if errors.Is(err, ErrNoZone) || errors.Is(err, ErrInactiveSubscription) {
				continue
			}
			failures++
			logger.Error("failed to reconcile subscription after program change",
				zap.String("subscriptionId", sub.ID),
				zap.String("zoneId", zoneID),
				zap.Error(err))
			continue
		}
		r.notifyAssignment(ctx, sub, assigned)
	}
	if failures > 0 {
		metrics.ReconcileRuns.WithLabelValues("program_change", "error").Inc()
		return fmt.Errorf("reconciliation of zone %s finished with %d failed subscriptions", zoneID, failures)
	}
	metrics.ReconcileRuns.WithLabelValues("program_change", "ok").Inc()
	return nil
}

func (r *DefaultReconciler) OnZoneDeactivated(ctx context.Context, zoneID string) error {
	logger := utils.GetLogger()

	subs, err := r.Subs.ListActiveByZone(ctx, zoneID)
	if err != nil {
		return err
	}

	var failures int
	for i := range subs {
		sub := &subs[i]
		err := r.Txn(ctx, func(txCtx context.Context) error {
			if err := r.Subs.UpdateStatus(txCtx, sub.ID, models.SubscriptionSuspended); err != nil {
				return err
			}
			if _, err := r.Engine.Bindings.DeleteForSubscription(txCtx, sub.ID); err != nil {
				return err
			}
			if _, err := r.Schedule.CancelScheduledBySubscription(txCtx, sub.ID); err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			failures++
			logger.Error("failed to suspend subscription during zone deactivation",
				zap.String("subscriptionId", sub.ID),
				zap.String("zoneId", zoneID),
				zap.Error(err))
			continue
		}
		_ = r.Notifier.Notify(ctx, &models.Notification{
			UserID:      sub.ClientID,
			Title:       "Service zone deactivated",
			Message:     "Collection service in your zone has been suspended. Your subscription is paused and upcoming collections are cancelled.",
			Category:    models.NotifyWarning,
			RelatedID:   sub.ID,
			RelatedType: "subscription",
		})
	}
	if failures > 0 {
		return fmt.Errorf("zone %s deactivation finished with %d failed subscriptions", zoneID, failures)
	}
	return nil
}

// notifyAssignment tells the client which weekdays this pass bound. A zero
// outcome means the zone could not offer the subscription any slot at all.
func (r *DefaultReconciler) notifyAssignment(ctx context.Context, sub *models.Subscription, assigned []models.Weekday) {
	if len(assigned) == 0 {
		_ = r.Notifier.Notify(ctx, &models.Notification{
			UserID:      sub.ClientID,
			Title:       "Collection days pending",
			Message:     "All collection slots in your zone are currently full. We will assign your days as soon as capacity opens up.",
			Category:    models.NotifyWarning,
			RelatedID:   sub.ID,
			RelatedType: "subscription",
		})
		return
	}

	names := make([]string, 0, len(assigned))
	for _, d := range assigned {
		names = append(names, d.String())
	}
	_ = r.Notifier.Notify(ctx, &models.Notification{
		UserID:      sub.ClientID,
		Title:       "Collection days assigned",
		Message:     fmt.Sprintf("Your waste collections are scheduled on: %s.", strings.Join(names, ", ")),
		Category:    models.NotifyCollection,
		RelatedID:   sub.ID,
		RelatedType: "subscription",
	})
}
