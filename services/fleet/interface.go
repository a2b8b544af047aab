package fleet

import (
	"context"
	"errors"
	"time"

	"ecocity/models"
)

var (
	// ErrInvalidRange means startMinutes >= endMinutes or an out-of-range
	// weekday.
	ErrInvalidRange = errors.New("fleet: invalid service window")
	// ErrCapacityBelowOccupancy rejects shrinking maxClients under the current
	// occupancy. Existing clients are never evicted by a capacity edit.
	ErrCapacityBelowOccupancy = errors.New("fleet: capacity below current occupancy")
	// ErrHasDependents blocks deleting a program that bindings still reference.
	ErrHasDependents = errors.New("fleet: program still has bound subscriptions")
)

// Registry manages fleet programs and vehicles. Every mutation that changes a
// zone's capacity shape dispatches the scheduling reconciler for that zone
// after the write commits.
type Registry interface {
	CreateProgram(ctx context.Context, req *models.CreateProgramRequest) (*models.FleetProgram, error)
	GetProgram(ctx context.Context, id string) (*models.FleetProgram, error)
	UpdateProgram(ctx context.Context, id string, req *models.UpdateProgramRequest) (*models.FleetProgram, error)
	DeleteProgram(ctx context.Context, id string) error
	ListZonePrograms(ctx context.Context, zoneID string, asOf time.Time) ([]models.FleetProgram, error)

	CreateVehicle(ctx context.Context, v *models.Tricycle) (*models.Tricycle, error)
	GetVehicle(ctx context.Context, id string) (*models.Tricycle, error)
	ListVehicles(ctx context.Context) ([]models.Tricycle, error)
}
