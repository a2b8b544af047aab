package models

import "time"

// Tricycle status values.
const (
	VehicleActive      = "active"
	VehicleMaintenance = "maintenance"
	VehicleInactive    = "inactive"
	VehicleBroken      = "broken"
)

// Tricycle is a collection vehicle. It carries no schedule of its own;
// recurring capacity lives on FleetProgram.
type Tricycle struct {
	ID             string    `bson:"id" json:"id"`
	Registration   string    `bson:"registration" json:"registration"`
	Name           string    `bson:"name" json:"name"`
	CapacityKg     float64   `bson:"capacityKg" json:"capacityKg"`
	Color          string    `bson:"color,omitempty" json:"color,omitempty"`
	Status         string    `bson:"status" json:"status"`
	DriverID       string    `bson:"driverId,omitempty" json:"driverId,omitempty"`
	CommissionedAt time.Time `bson:"commissionedAt" json:"commissionedAt"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FleetProgram is the unit of recurring weekly capacity: one vehicle serving
// one zone on one weekday, with a finite client capacity. At most one program
// may exist per (vehicle, zone, weekday) triple.
//
// Invariant: 0 <= CurrentClients <= MaxClients. The occupancy counter is only
// ever moved through the repository's Reserve/Release conditional updates.
type FleetProgram struct {
	ID             string     `bson:"id" json:"id"`
	TricycleID     string     `bson:"tricycleId" json:"tricycleId"`
	ZoneID         string     `bson:"zoneId" json:"zoneId"`
	Weekday        Weekday    `bson:"weekday" json:"weekday"`
	StartMinutes   int        `bson:"startMinutes" json:"startMinutes"`
	EndMinutes     int        `bson:"endMinutes" json:"endMinutes"`
	MaxClients     int        `bson:"maxClients" json:"maxClients"`
	CurrentClients int        `bson:"currentClients" json:"currentClients"`
	IsActive       bool       `bson:"isActive" json:"isActive"`
	StartDate      time.Time  `bson:"startDate" json:"startDate"`
	EndDate        *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
}

// PlacesLeft returns the remaining client capacity of the program.
func (p *FleetProgram) PlacesLeft() int {
	return p.MaxClients - p.CurrentClients
}

// CanTakeClient reports whether the program is active and has room. This is
// an advisory read; the authoritative check is the conditional Reserve update.
func (p *FleetProgram) CanTakeClient() bool {
	return p.IsActive && p.PlacesLeft() > 0
}

// InWindowAt reports whether the program's validity window covers the date.
func (p *FleetProgram) InWindowAt(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := time.Date(p.StartDate.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, t.Location())
	if day.Before(start) {
		return false
	}
	if p.EndDate != nil && day.After(*p.EndDate) {
		return false
	}
	return true
}
