package scheduling

import (
	"context"
	"testing"
	"time"

	"ecocity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reconcilerFixture struct {
	fleet      *fakeFleet
	bindings   *fakeBindings
	subs       *fakeSubs
	schedule   *fakeSchedule
	notifier   *fakeNotifier
	reconciler Reconciler
}

func newReconcilerFixture() *reconcilerFixture {
	fleet := newFakeFleet()
	bindings := newFakeBindings(fleet)
	subs := newFakeSubs()
	schedule := &fakeSchedule{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(fleet, bindings, subs, schedule)
	return &reconcilerFixture{
		fleet:      fleet,
		bindings:   bindings,
		subs:       subs,
		schedule:   schedule,
		notifier:   notifier,
		reconciler: NewReconciler(engine, subs, schedule, notifier, passTxn),
	}
}

func TestActivationSchedulesTuesdaySubscriber(t *testing.T) {
	fx := newReconcilerFixture()
	fx.fleet.addProgram(program("p-tue", models.Tuesday, 1))
	fx.subs.addPlan(standardPlan(1))
	sub := activeSub("sub-1")
	fx.subs.addSub(sub)

	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), sub.ID))

	rows, err := fx.bindings.ListBySubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Tuesday, rows[0].Weekday)
	assert.Equal(t, 1, fx.fleet.occupancy("p-tue"))

	events := fx.schedule.bySubscription(sub.ID)
	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, models.Tuesday, ev.Weekday)
		expected := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*i)
		assert.Equal(t, expected, ev.Date)
	}

	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, models.NotifyCollection, fx.notifier.sent[0].Category)
	assert.Contains(t, fx.notifier.sent[0].Message, "Tuesday")
}

func TestActivationInSaturatedZoneWarns(t *testing.T) {
	fx := newReconcilerFixture()
	full := program("p-tue", models.Tuesday, 1)
	full.CurrentClients = 1
	fx.fleet.addProgram(full)
	fx.subs.addPlan(standardPlan(1))
	sub := activeSub("sub-1")
	fx.subs.addSub(sub)

	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), sub.ID))

	rows, err := fx.bindings.ListBySubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, fx.schedule.bySubscription(sub.ID))

	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, models.NotifyWarning, fx.notifier.sent[0].Category)
}

func TestActivationWithoutZoneIsSkipped(t *testing.T) {
	fx := newReconcilerFixture()
	fx.subs.addPlan(standardPlan(1))
	sub := activeSub("sub-1")
	sub.ZoneID = ""
	fx.subs.addSub(sub)

	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), sub.ID))
	assert.Empty(t, fx.notifier.sent)
}

func TestProgramChangeReassignsFromScratch(t *testing.T) {
	fx := newReconcilerFixture()
	fx.fleet.addProgram(program("p-mon", models.Monday, 5))
	fx.subs.addPlan(standardPlan(2))
	sub := activeSub("sub-1")
	fx.subs.addSub(sub)

	// First pass only finds Monday; the weekly target stays short by one.
	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), sub.ID))
	rows, _ := fx.bindings.ListBySubscription(context.Background(), sub.ID)
	require.Len(t, rows, 1)

	// A Thursday program opens and the registry dispatches the reconciler.
	fx.fleet.addProgram(program("p-thu", models.Thursday, 5))
	require.NoError(t, fx.reconciler.OnProgramChanged(context.Background(), "zone-1"))

	rows, err := fx.bindings.ListBySubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.Monday, rows[0].Weekday)
	assert.Equal(t, models.Thursday, rows[1].Weekday)

	// The rebuild released and re-reserved Monday; nothing double-counted.
	assert.Equal(t, 1, fx.fleet.occupancy("p-mon"))
	assert.Equal(t, 1, fx.fleet.occupancy("p-thu"))

	// Horizon regenerated for both weekdays.
	assert.Len(t, fx.schedule.bySubscription(sub.ID), 8)

	// The rebuild notification carries the full new day set.
	last := fx.notifier.sent[len(fx.notifier.sent)-1]
	assert.Equal(t, models.NotifyCollection, last.Category)
	assert.Contains(t, last.Message, "Monday, Thursday")
}

func TestProgramChangeMovesBindingWithProgram(t *testing.T) {
	fx := newReconcilerFixture()
	fx.fleet.addProgram(program("p-1", models.Tuesday, 5))
	fx.subs.addPlan(standardPlan(1))
	sub := activeSub("sub-1")
	fx.subs.addSub(sub)
	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), sub.ID))

	// The program's service day moves to Friday, occupancy carried over.
	moved := program("p-1", models.Friday, 5)
	moved.CurrentClients = 1
	fx.fleet.addProgram(moved)

	require.NoError(t, fx.reconciler.OnProgramChanged(context.Background(), "zone-1"))

	rows, err := fx.bindings.ListBySubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Friday, rows[0].Weekday)
	assert.Equal(t, 1, fx.fleet.occupancy("p-1"))

	events := fx.schedule.bySubscription(sub.ID)
	require.Len(t, events, 4)
	for _, ev := range events {
		assert.Equal(t, models.Friday, ev.Weekday)
	}
}

func TestProgramChangeWarnsWhenNoSlotRemains(t *testing.T) {
	fx := newReconcilerFixture()
	fx.fleet.addProgram(program("p-tue", models.Tuesday, 1))
	fx.subs.addPlan(standardPlan(1))
	sub := activeSub("sub-1")
	fx.subs.addSub(sub)
	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), sub.ID))

	// The only program is deactivated; the subscriber loses their day.
	off := program("p-tue", models.Tuesday, 1)
	off.IsActive = false
	off.CurrentClients = 1
	fx.fleet.addProgram(off)

	require.NoError(t, fx.reconciler.OnProgramChanged(context.Background(), "zone-1"))

	rows, _ := fx.bindings.ListBySubscription(context.Background(), sub.ID)
	assert.Empty(t, rows)
	assert.Equal(t, 0, fx.fleet.occupancy("p-tue"))
	assert.Empty(t, fx.schedule.bySubscription(sub.ID))

	last := fx.notifier.sent[len(fx.notifier.sent)-1]
	assert.Equal(t, models.NotifyWarning, last.Category)
}

func TestDeactivationReleasesCapacityAndCancelsEvents(t *testing.T) {
	fx := newReconcilerFixture()
	fx.fleet.addProgram(program("p-tue", models.Tuesday, 1))
	fx.subs.addPlan(standardPlan(1))
	sub := activeSub("sub-1")
	fx.subs.addSub(sub)
	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), sub.ID))
	require.Equal(t, 1, fx.fleet.occupancy("p-tue"))

	require.NoError(t, fx.reconciler.OnSubscriptionDeactivated(context.Background(), sub.ID, models.SubscriptionCancelled))

	rows, _ := fx.bindings.ListBySubscription(context.Background(), sub.ID)
	assert.Empty(t, rows)
	assert.Equal(t, 0, fx.fleet.occupancy("p-tue"))

	for _, ev := range fx.schedule.bySubscription(sub.ID) {
		assert.Equal(t, models.EventCancelled, ev.Status)
	}
}

func TestZoneDeactivationSuspendsAllSubscribers(t *testing.T) {
	fx := newReconcilerFixture()
	fx.fleet.addProgram(program("p-tue", models.Tuesday, 5))
	fx.subs.addPlan(standardPlan(1))

	subA := activeSub("sub-a")
	subB := activeSub("sub-b")
	fx.subs.addSub(subA)
	fx.subs.addSub(subB)
	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), subA.ID))
	require.NoError(t, fx.reconciler.OnSubscriptionActivated(context.Background(), subB.ID))
	require.Equal(t, 2, fx.fleet.occupancy("p-tue"))

	require.NoError(t, fx.reconciler.OnZoneDeactivated(context.Background(), "zone-1"))

	for _, id := range []string{subA.ID, subB.ID} {
		got, err := fx.subs.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionSuspended, got.Status)

		rows, _ := fx.bindings.ListBySubscription(context.Background(), id)
		assert.Empty(t, rows)
		for _, ev := range fx.schedule.bySubscription(id) {
			assert.Equal(t, models.EventCancelled, ev.Status)
		}
	}
	assert.Equal(t, 0, fx.fleet.occupancy("p-tue"))
}
