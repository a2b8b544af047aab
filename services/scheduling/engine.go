package scheduling

import (
	"context"
	"errors"
	"time"

	bindingRepo "ecocity/database/repository/binding"
	fleetRepo "ecocity/database/repository/fleet"
	scheduleRepo "ecocity/database/repository/schedule"
	subscriptionRepo "ecocity/database/repository/subscription"
	"ecocity/metrics"
	"ecocity/models"
	"ecocity/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine assigns collection weekdays to subscriptions and materializes the
// rolling event horizon from the resulting bindings.
type Engine struct {
	Fleet    fleetRepo.FleetRepository
	Bindings bindingRepo.BindingRepository
	Subs     subscriptionRepo.SubscriptionRepository
	Schedule scheduleRepo.ScheduleRepository

	// HorizonWeeks is the number of weeks of events GenerateSchedule emits.
	HorizonWeeks int

	// now is swappable so tests can pin the reference date.
	now func() time.Time
}

func NewEngine(fleet fleetRepo.FleetRepository, bindings bindingRepo.BindingRepository, subs subscriptionRepo.SubscriptionRepository, schedule scheduleRepo.ScheduleRepository, horizonWeeks int) *Engine {
	if horizonWeeks <= 0 {
		horizonWeeks = 4
	}
	return &Engine{
		Fleet:        fleet,
		Bindings:     bindings,
		Subs:         subs,
		Schedule:     schedule,
		HorizonWeeks: horizonWeeks,
		now:          time.Now,
	}
}

// WithClock pins the engine's reference time. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// AssignDays walks the zone's active programs Monday-first and binds the
// subscription to distinct weekdays until the plan's weekly target is met or
// the zone runs out of places. Re-entry is idempotent: existing bindings
// count toward the target and their weekdays are never double-booked.
//
// Each binding reserves a place through the capacity ledger before the row is
// written, so two concurrent assignments can never oversubscribe a program.
// Partial fulfillment is not an error; the caller inspects the returned
// weekdays.
func (e *Engine) AssignDays(ctx context.Context, sub *models.Subscription) ([]models.Weekday, error) {
	logger := utils.GetLogger()

	if sub.Status != models.SubscriptionActive {
		return nil, ErrInactiveSubscription
	}
	if sub.ZoneID == "" {
		return nil, ErrNoZone
	}

	plan, err := e.Subs.GetPlanByID(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	target := plan.MaxCollectionsPerWeek
	if target <= 0 {
		return nil, nil
	}

	existing, err := e.Bindings.ListBySubscription(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	occupied := make(map[models.Weekday]bool, len(existing))
	for _, b := range existing {
		occupied[b.Weekday] = true
	}
	needed := target - len(existing)
	if needed <= 0 {
		return nil, nil
	}

	programs, err := e.Fleet.ListActiveByZone(ctx, sub.ZoneID, e.now())
	if err != nil {
		return nil, err
	}

	var assigned []models.Weekday
	for _, p := range programs {
		if needed == 0 {
			break
		}
		if occupied[p.Weekday] {
			continue
		}
		if err := e.Fleet.Reserve(ctx, p.ID); err != nil {
			if errors.Is(err, fleetRepo.ErrAtCapacity) {
				metrics.DayAssignments.WithLabelValues(sub.ZoneID, "full").Inc()
				continue
			}
			return assigned, err
		}
		binding := &models.SlotBinding{
			ID:              uuid.New().String(),
			SubscriptionID:  sub.ID,
			Weekday:         p.Weekday,
			TimeSlotMinutes: p.StartMinutes,
			IsActive:        true,
			ProgramID:       p.ID,
		}
		if err := e.Bindings.Create(ctx, binding); err != nil {
			// Give the place back before deciding what the failure means.
			if relErr := e.Fleet.Release(ctx, p.ID); relErr != nil {
				logger.Error("failed to release place after binding failure",
					zap.String("programId", p.ID), zap.Error(relErr))
			}
			if errors.Is(err, bindingRepo.ErrDuplicateDay) {
				occupied[p.Weekday] = true
				continue
			}
			return assigned, err
		}
		occupied[p.Weekday] = true
		assigned = append(assigned, p.Weekday)
		metrics.DayAssignments.WithLabelValues(sub.ZoneID, "assigned").Inc()
		needed--
	}

	if needed > 0 {
		logger.Warn("zone could not fully satisfy weekly target",
			zap.String("subscriptionId", sub.ID),
			zap.String("zoneId", sub.ZoneID),
			zap.Int("target", target),
			zap.Int("shortfall", needed))
	}
	return assigned, nil
}

// GenerateSchedule materializes one event per binding per week across the
// rolling horizon, starting from the next occurrence of each bound weekday
// (today counts). Events carry the subscription's zone and coordinates so
// collector queries need no join.
func (e *Engine) GenerateSchedule(ctx context.Context, sub *models.Subscription) (int, error) {
	bindings, err := e.Bindings.ListBySubscription(ctx, sub.ID)
	if err != nil {
		return 0, err
	}
	if len(bindings) == 0 {
		return 0, nil
	}

	ref := e.now()
	var events []models.CollectionEvent
	for _, b := range bindings {
		for week := 0; week < e.HorizonWeeks; week++ {
			date := b.Weekday.NextDateFrom(ref, week)
			if sub.EndDate != nil && date.After(*sub.EndDate) {
				continue
			}
			events = append(events, models.CollectionEvent{
				ID:             uuid.New().String(),
				SubscriptionID: sub.ID,
				ZoneID:         sub.ZoneID,
				Date:           date,
				Weekday:        b.Weekday,
				TimeMinutes:    b.TimeSlotMinutes,
				Status:         models.EventScheduled,
				Latitude:       sub.Address.Latitude,
				Longitude:      sub.Address.Longitude,
				CustomerNotes:  sub.SpecialInstructions,
			})
		}
	}
	if err := e.Schedule.CreateMany(ctx, events); err != nil {
		return 0, err
	}
	metrics.EventsMaterialized.Add(float64(len(events)))
	return len(events), nil
}

// TeardownSchedule deletes the subscription's scheduled events. History rows
// (completed, cancelled, missed) are untouched.
func (e *Engine) TeardownSchedule(ctx context.Context, subscriptionID string) (int, error) {
	return e.Schedule.DeleteScheduledBySubscription(ctx, subscriptionID)
}
