package fleet

import (
	"context"
	"testing"
	"time"

	fleetRepo "ecocity/database/repository/fleet"
	zoneRepo "ecocity/database/repository/zone"
	"ecocity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFleetRepo struct {
	programs map[string]*models.FleetProgram
	vehicles map[string]*models.Tricycle
}

func newStubFleetRepo() *stubFleetRepo {
	return &stubFleetRepo{
		programs: make(map[string]*models.FleetProgram),
		vehicles: make(map[string]*models.Tricycle),
	}
}

func (s *stubFleetRepo) CreateProgram(ctx context.Context, p *models.FleetProgram) error {
	for _, existing := range s.programs {
		if existing.TricycleID == p.TricycleID && existing.ZoneID == p.ZoneID && existing.Weekday == p.Weekday {
			return fleetRepo.ErrDuplicateProgram
		}
	}
	cp := *p
	s.programs[p.ID] = &cp
	return nil
}

func (s *stubFleetRepo) GetProgramByID(ctx context.Context, id string) (*models.FleetProgram, error) {
	p, ok := s.programs[id]
	if !ok {
		return nil, fleetRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubFleetRepo) FindProgramByTriple(ctx context.Context, tricycleID, zoneID string, weekday models.Weekday) (*models.FleetProgram, error) {
	for _, p := range s.programs {
		if p.TricycleID == tricycleID && p.ZoneID == zoneID && p.Weekday == weekday {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubFleetRepo) UpdateProgram(ctx context.Context, p *models.FleetProgram) error {
	existing, ok := s.programs[p.ID]
	if !ok {
		return fleetRepo.ErrNotFound
	}
	cur := existing.CurrentClients
	cp := *p
	cp.CurrentClients = cur
	s.programs[p.ID] = &cp
	return nil
}

func (s *stubFleetRepo) DeleteProgram(ctx context.Context, id string) error {
	if _, ok := s.programs[id]; !ok {
		return fleetRepo.ErrNotFound
	}
	delete(s.programs, id)
	return nil
}

func (s *stubFleetRepo) ListActiveByZone(ctx context.Context, zoneID string, asOf time.Time) ([]models.FleetProgram, error) {
	var out []models.FleetProgram
	for _, p := range s.programs {
		if p.ZoneID == zoneID && p.IsActive && p.InWindowAt(asOf) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubFleetRepo) Reserve(ctx context.Context, programID string) error {
	p, ok := s.programs[programID]
	if !ok || p.CurrentClients >= p.MaxClients {
		return fleetRepo.ErrAtCapacity
	}
	p.CurrentClients++
	return nil
}

func (s *stubFleetRepo) Release(ctx context.Context, programID string) error {
	if p, ok := s.programs[programID]; ok && p.CurrentClients > 0 {
		p.CurrentClients--
	}
	return nil
}

func (s *stubFleetRepo) CreateVehicle(ctx context.Context, v *models.Tricycle) error {
	cp := *v
	s.vehicles[v.ID] = &cp
	return nil
}

func (s *stubFleetRepo) GetVehicleByID(ctx context.Context, id string) (*models.Tricycle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, fleetRepo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *stubFleetRepo) ListVehicles(ctx context.Context) ([]models.Tricycle, error) {
	var out []models.Tricycle
	for _, v := range s.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

type stubBindings struct {
	programsWithBindings map[string]bool
}

func (s *stubBindings) Create(ctx context.Context, b *models.SlotBinding) error { return nil }
func (s *stubBindings) ListBySubscription(ctx context.Context, subscriptionID string) ([]models.SlotBinding, error) {
	return nil, nil
}
func (s *stubBindings) ExistsForProgram(ctx context.Context, programID string) (bool, error) {
	return s.programsWithBindings[programID], nil
}
func (s *stubBindings) DeleteForSubscription(ctx context.Context, subscriptionID string) (int, error) {
	return 0, nil
}

type stubZones struct {
	zones map[string]*models.Zone
}

func (s *stubZones) Create(ctx context.Context, z *models.Zone) error { return nil }
func (s *stubZones) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	z, ok := s.zones[id]
	if !ok {
		return nil, zoneRepo.ErrNotFound
	}
	cp := *z
	return &cp, nil
}
func (s *stubZones) GetAll(ctx context.Context) ([]models.Zone, error) { return nil, nil }

func (s *stubZones) Update(ctx context.Context, z *models.Zone) error { return nil }

func (s *stubZones) SetActive(ctx context.Context, id string, active bool) error { return nil }

// recordingReconciler records zone dispatches instead of reconciling.
type recordingReconciler struct {
	programChanges []string
}

func (r *recordingReconciler) OnSubscriptionActivated(ctx context.Context, subscriptionID string) error {
	return nil
}
func (r *recordingReconciler) OnSubscriptionDeactivated(ctx context.Context, subscriptionID string, newStatus string) error {
	return nil
}
func (r *recordingReconciler) OnProgramChanged(ctx context.Context, zoneID string) error {
	r.programChanges = append(r.programChanges, zoneID)
	return nil
}
func (r *recordingReconciler) OnZoneDeactivated(ctx context.Context, zoneID string) error {
	return nil
}

type registryFixture struct {
	repo       *stubFleetRepo
	bindings   *stubBindings
	reconciler *recordingReconciler
	registry   Registry
}

func newRegistryFixture() *registryFixture {
	repo := newStubFleetRepo()
	repo.vehicles["trike-1"] = &models.Tricycle{ID: "trike-1", Name: "Trike One", Status: models.VehicleActive}
	bindings := &stubBindings{programsWithBindings: make(map[string]bool)}
	zones := &stubZones{zones: map[string]*models.Zone{
		"zone-1": {ID: "zone-1", Name: "Bonamoussadi", City: "Douala", IsActive: true},
		"zone-2": {ID: "zone-2", Name: "Akwa", City: "Douala", IsActive: true},
	}}
	reconciler := &recordingReconciler{}
	return &registryFixture{
		repo:       repo,
		bindings:   bindings,
		reconciler: reconciler,
		registry:   NewRegistry(repo, bindings, zones, reconciler),
	}
}

func validCreateReq() *models.CreateProgramRequest {
	return &models.CreateProgramRequest{
		TricycleID:   "trike-1",
		ZoneID:       "zone-1",
		Weekday:      models.Monday,
		StartMinutes: 8 * 60,
		EndMinutes:   12 * 60,
		MaxClients:   20,
	}
}

func TestCreateProgramDispatchesZoneReconciliation(t *testing.T) {
	fx := newRegistryFixture()

	program, err := fx.registry.CreateProgram(context.Background(), validCreateReq())
	require.NoError(t, err)
	assert.NotEmpty(t, program.ID)
	assert.True(t, program.IsActive)
	assert.False(t, program.StartDate.IsZero())
	assert.Equal(t, 0, program.CurrentClients)

	assert.Equal(t, []string{"zone-1"}, fx.reconciler.programChanges)
}

func TestCreateProgramValidation(t *testing.T) {
	fx := newRegistryFixture()

	req := validCreateReq()
	req.StartMinutes = 14 * 60
	req.EndMinutes = 10 * 60
	_, err := fx.registry.CreateProgram(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRange)

	req = validCreateReq()
	req.MaxClients = 0
	_, err = fx.registry.CreateProgram(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRange)

	req = validCreateReq()
	req.ZoneID = "zone-missing"
	_, err = fx.registry.CreateProgram(context.Background(), req)
	assert.ErrorIs(t, err, zoneRepo.ErrNotFound)

	req = validCreateReq()
	req.TricycleID = "trike-missing"
	_, err = fx.registry.CreateProgram(context.Background(), req)
	assert.ErrorIs(t, err, fleetRepo.ErrNotFound)

	// Nothing dispatched for rejected requests.
	assert.Empty(t, fx.reconciler.programChanges)
}

func TestCreateProgramRejectsDuplicateTriple(t *testing.T) {
	fx := newRegistryFixture()

	_, err := fx.registry.CreateProgram(context.Background(), validCreateReq())
	require.NoError(t, err)

	_, err = fx.registry.CreateProgram(context.Background(), validCreateReq())
	assert.ErrorIs(t, err, fleetRepo.ErrDuplicateProgram)
}

func TestUpdateProgramShrinkBelowOccupancy(t *testing.T) {
	fx := newRegistryFixture()

	program, err := fx.registry.CreateProgram(context.Background(), validCreateReq())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, fx.repo.Reserve(context.Background(), program.ID))
	}

	three := 3
	_, err = fx.registry.UpdateProgram(context.Background(), program.ID, &models.UpdateProgramRequest{MaxClients: &three})
	assert.ErrorIs(t, err, ErrCapacityBelowOccupancy)

	ten := 10
	updated, err := fx.registry.UpdateProgram(context.Background(), program.ID, &models.UpdateProgramRequest{MaxClients: &ten})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.MaxClients)
	assert.Equal(t, 5, updated.CurrentClients)
}

func TestUpdateProgramPartialEdit(t *testing.T) {
	fx := newRegistryFixture()

	program, err := fx.registry.CreateProgram(context.Background(), validCreateReq())
	require.NoError(t, err)
	dispatches := len(fx.reconciler.programChanges)

	inactive := false
	start := 9 * 60
	updated, err := fx.registry.UpdateProgram(context.Background(), program.ID, &models.UpdateProgramRequest{
		StartMinutes: &start,
		IsActive:     &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 9*60, updated.StartMinutes)
	assert.False(t, updated.IsActive)
	// Untouched fields keep their values.
	assert.Equal(t, models.Monday, updated.Weekday)
	assert.Equal(t, 20, updated.MaxClients)

	assert.Len(t, fx.reconciler.programChanges, dispatches+1)
}

func TestUpdateProgramZoneMoveDispatchesBothZones(t *testing.T) {
	fx := newRegistryFixture()

	program, err := fx.registry.CreateProgram(context.Background(), validCreateReq())
	require.NoError(t, err)
	require.Equal(t, []string{"zone-1"}, fx.reconciler.programChanges)

	newZone := "zone-2"
	updated, err := fx.registry.UpdateProgram(context.Background(), program.ID, &models.UpdateProgramRequest{ZoneID: &newZone})
	require.NoError(t, err)
	assert.Equal(t, "zone-2", updated.ZoneID)

	// Both the destination and the vacated zone get reconciled.
	assert.Equal(t, []string{"zone-1", "zone-2", "zone-1"}, fx.reconciler.programChanges)
}

func TestUpdateProgramRejectsDuplicateTriple(t *testing.T) {
	fx := newRegistryFixture()

	_, err := fx.registry.CreateProgram(context.Background(), validCreateReq())
	require.NoError(t, err)

	tueReq := validCreateReq()
	tueReq.Weekday = models.Tuesday
	tueProgram, err := fx.registry.CreateProgram(context.Background(), tueReq)
	require.NoError(t, err)

	monday := models.Monday
	_, err = fx.registry.UpdateProgram(context.Background(), tueProgram.ID, &models.UpdateProgramRequest{Weekday: &monday})
	assert.ErrorIs(t, err, fleetRepo.ErrDuplicateProgram)
}

func TestDeleteProgramBlockedByDependents(t *testing.T) {
	fx := newRegistryFixture()

	program, err := fx.registry.CreateProgram(context.Background(), validCreateReq())
	require.NoError(t, err)

	fx.bindings.programsWithBindings[program.ID] = true
	err = fx.registry.DeleteProgram(context.Background(), program.ID)
	assert.ErrorIs(t, err, ErrHasDependents)

	fx.bindings.programsWithBindings[program.ID] = false
	require.NoError(t, fx.registry.DeleteProgram(context.Background(), program.ID))

	_, err = fx.registry.GetProgram(context.Background(), program.ID)
	assert.ErrorIs(t, err, fleetRepo.ErrNotFound)
}

func TestCreateVehicleDefaults(t *testing.T) {
	fx := newRegistryFixture()

	v, err := fx.registry.CreateVehicle(context.Background(), &models.Tricycle{
		Registration: "LT-204-AB",
		Name:         "Trike Two",
		CapacityKg:   250,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, models.VehicleActive, v.Status)
	assert.False(t, v.CommissionedAt.IsZero())
}
