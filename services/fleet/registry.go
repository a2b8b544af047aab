package fleet

import (
	"context"
	"time"

	bindingRepo "ecocity/database/repository/binding"
	fleetRepo "ecocity/database/repository/fleet"
	zoneRepo "ecocity/database/repository/zone"
	"ecocity/models"
	"ecocity/services/scheduling"
	"ecocity/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRegistry is the production fleet registry.
type DefaultRegistry struct {
	Repo       fleetRepo.FleetRepository
	Bindings   bindingRepo.BindingRepository
	Zones      zoneRepo.ZoneRepository
	Reconciler scheduling.Reconciler
}

func NewRegistry(repo fleetRepo.FleetRepository, bindings bindingRepo.BindingRepository, zones zoneRepo.ZoneRepository, reconciler scheduling.Reconciler) Registry {
	return &DefaultRegistry{Repo: repo, Bindings: bindings, Zones: zones, Reconciler: reconciler}
}

func validateWindow(weekday models.Weekday, startMinutes, endMinutes int) error {
	if !weekday.Valid() {
		return ErrInvalidRange
	}
	if startMinutes < 0 || endMinutes > 24*60 || startMinutes >= endMinutes {
		return ErrInvalidRange
	}
	return nil
}

// dispatch triggers zone reconciliation after a registry write. Failures are
// logged, not returned: the registry mutation already committed.
func (r *DefaultRegistry) dispatch(ctx context.Context, zoneID string) {
	if err := r.Reconciler.OnProgramChanged(ctx, zoneID); err != nil {
		utils.GetLogger().Error("zone reconciliation after program change failed",
			zap.String("zoneId", zoneID), zap.Error(err))
	}
}

func (r *DefaultRegistry) CreateProgram(ctx context.Context, req *models.CreateProgramRequest) (*models.FleetProgram, error) {
	if err := validateWindow(req.Weekday, req.StartMinutes, req.EndMinutes); err != nil {
		return nil, err
	}
	if req.MaxClients <= 0 {
		return nil, ErrInvalidRange
	}
	if _, err := r.Zones.GetByID(ctx, req.ZoneID); err != nil {
		return nil, err
	}
	if _, err := r.Repo.GetVehicleByID(ctx, req.TricycleID); err != nil {
		return nil, err
	}
	// Pre-check the (vehicle, zone, weekday) triple; the unique index is the
	// authoritative guard under concurrency.
	existing, err := r.Repo.FindProgramByTriple(ctx, req.TricycleID, req.ZoneID, req.Weekday)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fleetRepo.ErrDuplicateProgram
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}
	program := &models.FleetProgram{
		ID:           uuid.New().String(),
		TricycleID:   req.TricycleID,
		ZoneID:       req.ZoneID,
		Weekday:      req.Weekday,
		StartMinutes: req.StartMinutes,
		EndMinutes:   req.EndMinutes,
		MaxClients:   req.MaxClients,
		IsActive:     true,
		StartDate:    startDate,
		EndDate:      req.EndDate,
	}
	if err := r.Repo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}

	r.dispatch(ctx, program.ZoneID)
	return program, nil
}

func (r *DefaultRegistry) GetProgram(ctx context.Context, id string) (*models.FleetProgram, error) {
	return r.Repo.GetProgramByID(ctx, id)
}

// UpdateProgram applies a partial edit. Shrinking capacity below the current
// occupancy is rejected; operators deactivate the program or wait for churn
// instead of evicting clients.
func (r *DefaultRegistry) UpdateProgram(ctx context.Context, id string, req *models.UpdateProgramRequest) (*models.FleetProgram, error) {
	program, err := r.Repo.GetProgramByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldZoneID := program.ZoneID

	if req.TricycleID != nil {
		program.TricycleID = *req.TricycleID
	}
	if req.ZoneID != nil {
		program.ZoneID = *req.ZoneID
	}
	if req.Weekday != nil {
		program.Weekday = *req.Weekday
	}
	if req.StartMinutes != nil {
		program.StartMinutes = *req.StartMinutes
	}
	if req.EndMinutes != nil {
		program.EndMinutes = *req.EndMinutes
	}
	if req.MaxClients != nil {
		if *req.MaxClients < program.CurrentClients {
			return nil, ErrCapacityBelowOccupancy
		}
		program.MaxClients = *req.MaxClients
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}
	if req.EndDate != nil {
		program.EndDate = req.EndDate
	}

	if err := validateWindow(program.Weekday, program.StartMinutes, program.EndMinutes); err != nil {
		return nil, err
	}
	if req.TricycleID != nil || req.ZoneID != nil || req.Weekday != nil {
		existing, err := r.Repo.FindProgramByTriple(ctx, program.TricycleID, program.ZoneID, program.Weekday)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != program.ID {
			return nil, fleetRepo.ErrDuplicateProgram
		}
	}
	if err := r.Repo.UpdateProgram(ctx, program); err != nil {
		return nil, err
	}

	r.dispatch(ctx, program.ZoneID)
	// A zone move strands the old zone's bindings; reconcile it too.
	if oldZoneID != program.ZoneID {
		r.dispatch(ctx, oldZoneID)
	}
	return program, nil
}

// DeleteProgram removes a program with no bound subscriptions. Programs with
// dependents are deactivated through UpdateProgram instead.
func (r *DefaultRegistry) DeleteProgram(ctx context.Context, id string) error {
	program, err := r.Repo.GetProgramByID(ctx, id)
	if err != nil {
		return err
	}
	has, err := r.Bindings.ExistsForProgram(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return ErrHasDependents
	}
	if err := r.Repo.DeleteProgram(ctx, id); err != nil {
		return err
	}

	r.dispatch(ctx, program.ZoneID)
	return nil
}

func (r *DefaultRegistry) ListZonePrograms(ctx context.Context, zoneID string, asOf time.Time) ([]models.FleetProgram, error) {
	return r.Repo.ListActiveByZone(ctx, zoneID, asOf)
}

func (r *DefaultRegistry) CreateVehicle(ctx context.Context, v *models.Tricycle) (*models.Tricycle, error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Status == "" {
		v.Status = models.VehicleActive
	}
	if v.CommissionedAt.IsZero() {
		v.CommissionedAt = time.Now()
	}
	if err := r.Repo.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *DefaultRegistry) GetVehicle(ctx context.Context, id string) (*models.Tricycle, error) {
	return r.Repo.GetVehicleByID(ctx, id)
}

func (r *DefaultRegistry) ListVehicles(ctx context.Context) ([]models.Tricycle, error) {
	return r.Repo.ListVehicles(ctx)
}
