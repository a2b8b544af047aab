package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	bindingRepo "ecocity/database/repository/binding"
	fleetRepo "ecocity/database/repository/fleet"
	scheduleRepo "ecocity/database/repository/schedule"
	subscriptionRepo "ecocity/database/repository/subscription"
	"ecocity/models"
)

// In-memory repositories used by the engine and reconciler tests. The fleet
// fake enforces the same capacity guard as the Mongo conditional update.

type fakeFleet struct {
	mu       sync.Mutex
	programs map[string]*models.FleetProgram
	vehicles map[string]*models.Tricycle
}

func newFakeFleet() *fakeFleet {
	return &fakeFleet{
		programs: make(map[string]*models.FleetProgram),
		vehicles: make(map[string]*models.Tricycle),
	}
}

func (f *fakeFleet) addProgram(p models.FleetProgram) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.StartDate.IsZero() {
		p.StartDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	cp := p
	f.programs[p.ID] = &cp
}

func (f *fakeFleet) occupancy(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.programs[id].CurrentClients
}

func (f *fakeFleet) CreateProgram(ctx context.Context, p *models.FleetProgram) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.programs {
		if existing.TricycleID == p.TricycleID && existing.ZoneID == p.ZoneID && existing.Weekday == p.Weekday {
			return fleetRepo.ErrDuplicateProgram
		}
	}
	cp := *p
	f.programs[p.ID] = &cp
	return nil
}

func (f *fakeFleet) GetProgramByID(ctx context.Context, id string) (*models.FleetProgram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.programs[id]
	if !ok {
		return nil, fleetRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeFleet) FindProgramByTriple(ctx context.Context, tricycleID, zoneID string, weekday models.Weekday) (*models.FleetProgram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.programs {
		if p.TricycleID == tricycleID && p.ZoneID == zoneID && p.Weekday == weekday {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeFleet) UpdateProgram(ctx context.Context, p *models.FleetProgram) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.programs[p.ID]
	if !ok {
		return fleetRepo.ErrNotFound
	}
	cur := existing.CurrentClients
	cp := *p
	cp.CurrentClients = cur
	f.programs[p.ID] = &cp
	return nil
}

func (f *fakeFleet) DeleteProgram(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.programs[id]; !ok {
		return fleetRepo.ErrNotFound
	}
	delete(f.programs, id)
	return nil
}

func (f *fakeFleet) ListActiveByZone(ctx context.Context, zoneID string, asOf time.Time) ([]models.FleetProgram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FleetProgram
	for _, p := range f.programs {
		if p.ZoneID == zoneID && p.IsActive && p.InWindowAt(asOf) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].StartMinutes < out[j].StartMinutes
	})
	return out, nil
}

func (f *fakeFleet) Reserve(ctx context.Context, programID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.programs[programID]
	if !ok || !p.IsActive || p.CurrentClients >= p.MaxClients {
		return fleetRepo.ErrAtCapacity
	}
	p.CurrentClients++
	return nil
}

func (f *fakeFleet) Release(ctx context.Context, programID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.programs[programID]
	if ok && p.CurrentClients > 0 {
		p.CurrentClients--
	}
	return nil
}

func (f *fakeFleet) CreateVehicle(ctx context.Context, v *models.Tricycle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeFleet) GetVehicleByID(ctx context.Context, id string) (*models.Tricycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, fleetRepo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeFleet) ListVehicles(ctx context.Context) ([]models.Tricycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Tricycle
	for _, v := range f.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

type fakeBindings struct {
	mu    sync.Mutex
	rows  []models.SlotBinding
	fleet *fakeFleet
}

func newFakeBindings(fleet *fakeFleet) *fakeBindings {
	return &fakeBindings{fleet: fleet}
}

func (f *fakeBindings) Create(ctx context.Context, b *models.SlotBinding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.SubscriptionID == b.SubscriptionID && row.Weekday == b.Weekday {
			return bindingRepo.ErrDuplicateDay
		}
	}
	f.rows = append(f.rows, *b)
	return nil
}

func (f *fakeBindings) ListBySubscription(ctx context.Context, subscriptionID string) ([]models.SlotBinding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SlotBinding
	for _, row := range f.rows {
		if row.SubscriptionID == subscriptionID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (f *fakeBindings) ExistsForProgram(ctx context.Context, programID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ProgramID == programID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBindings) DeleteForSubscription(ctx context.Context, subscriptionID string) (int, error) {
	f.mu.Lock()
	var kept []models.SlotBinding
	var removed []models.SlotBinding
	for _, row := range f.rows {
		if row.SubscriptionID == subscriptionID {
			removed = append(removed, row)
		} else {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	f.mu.Unlock()

	for _, row := range removed {
		if row.ProgramID != "" {
			_ = f.fleet.Release(ctx, row.ProgramID)
		}
	}
	return len(removed), nil
}

type fakeSubs struct {
	mu    sync.Mutex
	subs  map[string]*models.Subscription
	plans map[string]*models.SubscriptionPlan
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{
		subs:  make(map[string]*models.Subscription),
		plans: make(map[string]*models.SubscriptionPlan),
	}
}

func (f *fakeSubs) addSub(s models.Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := s
	f.subs[s.ID] = &cp
}

func (f *fakeSubs) addPlan(p models.SubscriptionPlan) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.plans[p.ID] = &cp
}

func (f *fakeSubs) Create(ctx context.Context, s *models.Subscription) error {
	f.addSub(*s)
	return nil
}

func (f *fakeSubs) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[id]
	if !ok {
		return nil, subscriptionRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubs) ListByClient(ctx context.Context, clientID string) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subscription
	for _, s := range f.subs {
		if s.ClientID == clientID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubs) ListActiveByZone(ctx context.Context, zoneID string) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subscription
	for _, s := range f.subs {
		if s.ZoneID == zoneID && s.Status == models.SubscriptionActive {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubs) Update(ctx context.Context, s *models.Subscription) error {
	f.addSub(*s)
	return nil
}

func (f *fakeSubs) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[id]
	if !ok {
		return subscriptionRepo.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeSubs) GetPlanByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return nil, subscriptionRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeSubs) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SubscriptionPlan
	for _, p := range f.plans {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeSubs) CreatePlan(ctx context.Context, p *models.SubscriptionPlan) error {
	f.addPlan(*p)
	return nil
}

func (f *fakeSubs) GetQR(ctx context.Context, subscriptionID string) (*models.SubscriptionQR, error) {
	return nil, subscriptionRepo.ErrNotFound
}

func (f *fakeSubs) GetQRByToken(ctx context.Context, token string) (*models.SubscriptionQR, error) {
	return nil, subscriptionRepo.ErrNotFound
}

func (f *fakeSubs) SaveQR(ctx context.Context, qr *models.SubscriptionQR) error {
	return nil
}

type fakeSchedule struct {
	mu     sync.Mutex
	events []models.CollectionEvent
}

func (f *fakeSchedule) CreateMany(ctx context.Context, events []models.CollectionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeSchedule) GetByID(ctx context.Context, id string) (*models.CollectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].ID == id {
			cp := f.events[i]
			return &cp, nil
		}
	}
	return nil, scheduleRepo.ErrNotFound
}

func (f *fakeSchedule) DeleteScheduledBySubscription(ctx context.Context, subscriptionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.CollectionEvent
	deleted := 0
	for _, ev := range f.events {
		if ev.SubscriptionID == subscriptionID && ev.Status == models.EventScheduled {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	f.events = kept
	return deleted, nil
}

func (f *fakeSchedule) CancelScheduledBySubscription(ctx context.Context, subscriptionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cancelled := 0
	for i := range f.events {
		if f.events[i].SubscriptionID == subscriptionID && f.events[i].Status == models.EventScheduled {
			f.events[i].Status = models.EventCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

func (f *fakeSchedule) CountBySubscription(ctx context.Context, subscriptionID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, ev := range f.events {
		if ev.SubscriptionID == subscriptionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSchedule) ListUpcomingBySubscription(ctx context.Context, subscriptionID string, from time.Time, limit int64) ([]models.CollectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CollectionEvent
	for _, ev := range f.events {
		if ev.SubscriptionID == subscriptionID && ev.Status == models.EventScheduled && !ev.Date.Before(from) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSchedule) ListByZoneAndDate(ctx context.Context, zoneID string, day time.Time) ([]models.CollectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CollectionEvent
	for _, ev := range f.events {
		if ev.ZoneID == zoneID && sameDay(ev.Date, day) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeSchedule) ListScheduledOnDate(ctx context.Context, day time.Time) ([]models.CollectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CollectionEvent
	for _, ev := range f.events {
		if ev.Status == models.EventScheduled && sameDay(ev.Date, day) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeSchedule) UpdateStatus(ctx context.Context, id, status string, completedAt *time.Time, collectorNotes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].Status = status
			f.events[i].CompletedAt = completedAt
			if collectorNotes != "" {
				f.events[i].CollectorNotes = collectorNotes
			}
			return nil
		}
	}
	return scheduleRepo.ErrNotFound
}

func (f *fakeSchedule) bySubscription(subscriptionID string) []models.CollectionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CollectionEvent
	for _, ev := range f.events {
		if ev.SubscriptionID == subscriptionID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *n)
	return nil
}

func (f *fakeNotifier) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error) {
	return nil, nil
}
func (f *fakeNotifier) MarkRead(ctx context.Context, id string) error { return nil }
func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return 0, nil
}
func (f *fakeNotifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

// passTxn runs fn without transactional isolation; the fakes are all
// in-memory.
func passTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
