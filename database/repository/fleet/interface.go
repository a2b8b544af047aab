package fleetRepo

import (
	"context"
	"errors"
	"time"

	"ecocity/models"
)

// Store-level failures the registry and the assignment engine branch on.
var (
	// ErrAtCapacity is returned by Reserve when the conditional increment
	// matched no document: the program is full, inactive, or gone.
	ErrAtCapacity = errors.New("fleet: program at capacity")
	// ErrNotFound is returned when a program or vehicle does not exist.
	ErrNotFound = errors.New("fleet: not found")
	// ErrDuplicateProgram is returned when a (vehicle, zone, weekday) triple
	// collides with an existing program.
	ErrDuplicateProgram = errors.New("fleet: duplicate program for vehicle, zone and weekday")
)

// FleetRepository is the fleet program registry's data access layer,
// including the capacity ledger on each program.
type FleetRepository interface {
	// Programs.
	CreateProgram(ctx context.Context, p *models.FleetProgram) error
	GetProgramByID(ctx context.Context, id string) (*models.FleetProgram, error)
	// FindProgramByTriple returns the program occupying a (vehicle, zone,
	// weekday) triple, or nil when the triple is free. The registry uses it
	// as the duplicate pre-check; the unique index stays authoritative.
	FindProgramByTriple(ctx context.Context, tricycleID, zoneID string, weekday models.Weekday) (*models.FleetProgram, error)
	UpdateProgram(ctx context.Context, p *models.FleetProgram) error
	DeleteProgram(ctx context.Context, id string) error
	// ListActiveByZone returns the zone's programs with isActive=true whose
	// validity window covers asOf, ordered by weekday then start time.
	ListActiveByZone(ctx context.Context, zoneID string, asOf time.Time) ([]models.FleetProgram, error)

	// Capacity ledger.
	// Reserve atomically takes one place: a single conditional update that
	// matches only while occupancy < capacity and the program is active, so
	// two concurrent assignments can never both increment past capacity.
	Reserve(ctx context.Context, programID string) error
	// Release returns one place, floored at zero occupancy.
	Release(ctx context.Context, programID string) error

	// Vehicles.
	CreateVehicle(ctx context.Context, v *models.Tricycle) error
	GetVehicleByID(ctx context.Context, id string) (*models.Tricycle, error)
	ListVehicles(ctx context.Context) ([]models.Tricycle, error)
}
