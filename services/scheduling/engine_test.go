package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"ecocity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday, June 3rd 2025.
var refTime = time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)

func newTestEngine(fleet *fakeFleet, bindings *fakeBindings, subs *fakeSubs, schedule *fakeSchedule) *Engine {
	return NewEngine(fleet, bindings, subs, schedule, 4).WithClock(func() time.Time { return refTime })
}

func standardPlan(target int) models.SubscriptionPlan {
	return models.SubscriptionPlan{ID: "plan-std", Name: "Standard", MaxCollectionsPerWeek: target, IsActive: true}
}

func activeSub(id string) models.Subscription {
	return models.Subscription{
		ID:       id,
		ClientID: "client-" + id,
		ZoneID:   "zone-1",
		PlanID:   "plan-std",
		Status:   models.SubscriptionActive,
	}
}

func program(id string, day models.Weekday, maxClients int) models.FleetProgram {
	return models.FleetProgram{
		ID:           id,
		TricycleID:   "trike-1",
		ZoneID:       "zone-1",
		Weekday:      day,
		StartMinutes: 8 * 60,
		EndMinutes:   12 * 60,
		MaxClients:   maxClients,
		IsActive:     true,
	}
}

func TestAssignDaysWalksWeekMondayFirst(t *testing.T) {
	fleet := newFakeFleet()
	fleet.addProgram(program("p-fri", models.Friday, 5))
	fleet.addProgram(program("p-mon", models.Monday, 5))
	fleet.addProgram(program("p-wed", models.Wednesday, 5))

	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	subs.addPlan(standardPlan(2))
	sub := activeSub("sub-1")
	subs.addSub(sub)

	engine := newTestEngine(fleet, bindings, subs, &fakeSchedule{})

	assigned, err := engine.AssignDays(context.Background(), &sub)
	require.NoError(t, err)
	require.Equal(t, []models.Weekday{models.Monday, models.Wednesday}, assigned)

	assert.Equal(t, 1, fleet.occupancy("p-mon"))
	assert.Equal(t, 1, fleet.occupancy("p-wed"))
	assert.Equal(t, 0, fleet.occupancy("p-fri"))
}

func TestAssignDaysIsIdempotent(t *testing.T) {
	fleet := newFakeFleet()
	fleet.addProgram(program("p-mon", models.Monday, 5))
	fleet.addProgram(program("p-wed", models.Wednesday, 5))

	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	subs.addPlan(standardPlan(2))
	sub := activeSub("sub-1")
	subs.addSub(sub)

	engine := newTestEngine(fleet, bindings, subs, &fakeSchedule{})

	first, err := engine.AssignDays(context.Background(), &sub)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := engine.AssignDays(context.Background(), &sub)
	require.NoError(t, err)
	assert.Empty(t, second)

	rows, err := bindings.ListBySubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, fleet.occupancy("p-mon"))
	assert.Equal(t, 1, fleet.occupancy("p-wed"))
}

func TestAssignDaysPartialWhenZoneSaturated(t *testing.T) {
	fleet := newFakeFleet()
	full := program("p-mon", models.Monday, 1)
	full.CurrentClients = 1
	fleet.addProgram(full)
	fleet.addProgram(program("p-thu", models.Thursday, 1))

	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	subs.addPlan(standardPlan(2))
	sub := activeSub("sub-1")
	subs.addSub(sub)

	engine := newTestEngine(fleet, bindings, subs, &fakeSchedule{})

	assigned, err := engine.AssignDays(context.Background(), &sub)
	require.NoError(t, err)
	assert.Equal(t, []models.Weekday{models.Thursday}, assigned)
	assert.Equal(t, 1, fleet.occupancy("p-mon"))
}

func TestAssignDaysNeverOversubscribes(t *testing.T) {
	fleet := newFakeFleet()
	fleet.addProgram(program("p-mon", models.Monday, 1))

	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	subs.addPlan(standardPlan(1))
	subA := activeSub("sub-a")
	subB := activeSub("sub-b")
	subs.addSub(subA)
	subs.addSub(subB)

	engine := newTestEngine(fleet, bindings, subs, &fakeSchedule{})

	var wg sync.WaitGroup
	results := make([][]models.Weekday, 2)
	errs := make([]error, 2)
	for i, sub := range []*models.Subscription{&subA, &subB} {
		wg.Add(1)
		go func(i int, sub *models.Subscription) {
			defer wg.Done()
			results[i], errs[i] = engine.AssignDays(context.Background(), sub)
		}(i, sub)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Exactly one of the two got the place.
	total := len(results[0]) + len(results[1])
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, fleet.occupancy("p-mon"))
}

func TestAssignDaysRejectsInactiveAndUnzoned(t *testing.T) {
	fleet := newFakeFleet()
	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	subs.addPlan(standardPlan(1))
	engine := newTestEngine(fleet, bindings, subs, &fakeSchedule{})

	inactive := activeSub("sub-1")
	inactive.Status = models.SubscriptionSuspended
	_, err := engine.AssignDays(context.Background(), &inactive)
	assert.ErrorIs(t, err, ErrInactiveSubscription)

	unzoned := activeSub("sub-2")
	unzoned.ZoneID = ""
	_, err = engine.AssignDays(context.Background(), &unzoned)
	assert.ErrorIs(t, err, ErrNoZone)
}

func TestGenerateScheduleRollingHorizon(t *testing.T) {
	fleet := newFakeFleet()
	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	schedule := &fakeSchedule{}
	engine := newTestEngine(fleet, bindings, subs, schedule)

	sub := activeSub("sub-1")
	require.NoError(t, bindings.Create(context.Background(), &models.SlotBinding{
		ID: "b1", SubscriptionID: sub.ID, Weekday: models.Tuesday, TimeSlotMinutes: 480, IsActive: true,
	}))
	require.NoError(t, bindings.Create(context.Background(), &models.SlotBinding{
		ID: "b2", SubscriptionID: sub.ID, Weekday: models.Friday, TimeSlotMinutes: 600, IsActive: true,
	}))

	n, err := engine.GenerateSchedule(context.Background(), &sub)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	events := schedule.bySubscription(sub.ID)
	require.Len(t, events, 8)

	// Reference date is itself a Tuesday, so the first Tuesday event is today.
	first := events[0]
	assert.Equal(t, models.Tuesday, first.Weekday)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), first.Date)

	for _, ev := range events {
		assert.Equal(t, models.EventScheduled, ev.Status)
		assert.Equal(t, models.WeekdayOf(ev.Date), ev.Weekday)
	}
}

func TestGenerateScheduleStopsAtEndDate(t *testing.T) {
	fleet := newFakeFleet()
	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	schedule := &fakeSchedule{}
	engine := newTestEngine(fleet, bindings, subs, schedule)

	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	sub := activeSub("sub-1")
	sub.EndDate = &end
	require.NoError(t, bindings.Create(context.Background(), &models.SlotBinding{
		ID: "b1", SubscriptionID: sub.ID, Weekday: models.Tuesday, TimeSlotMinutes: 480, IsActive: true,
	}))

	n, err := engine.GenerateSchedule(context.Background(), &sub)
	require.NoError(t, err)
	// June 3rd and 10th fit; the 17th and 24th fall past the end date.
	assert.Equal(t, 2, n)
}

func TestTeardownKeepsHistory(t *testing.T) {
	fleet := newFakeFleet()
	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	schedule := &fakeSchedule{}
	engine := newTestEngine(fleet, bindings, subs, schedule)

	done := time.Now()
	require.NoError(t, schedule.CreateMany(context.Background(), []models.CollectionEvent{
		{ID: "e1", SubscriptionID: "sub-1", Status: models.EventCompleted, CompletedAt: &done},
		{ID: "e2", SubscriptionID: "sub-1", Status: models.EventScheduled},
		{ID: "e3", SubscriptionID: "sub-1", Status: models.EventMissed},
	}))

	deleted, err := engine.TeardownSchedule(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	remaining := schedule.bySubscription("sub-1")
	require.Len(t, remaining, 2)
	for _, ev := range remaining {
		assert.NotEqual(t, models.EventScheduled, ev.Status)
	}
}
