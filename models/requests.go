package models

import "time"

// CreateProgramRequest is the payload for registering a fleet program.
type CreateProgramRequest struct {
	TricycleID   string     `json:"tricycleId" binding:"required"`
	ZoneID       string     `json:"zoneId" binding:"required"`
	Weekday      Weekday    `json:"weekday"`
	StartMinutes int        `json:"startMinutes"`
	EndMinutes   int        `json:"endMinutes"`
	MaxClients   int        `json:"maxClients" binding:"required"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// UpdateProgramRequest applies a partial update; nil fields are untouched.
type UpdateProgramRequest struct {
	TricycleID   *string    `json:"tricycleId,omitempty"`
	ZoneID       *string    `json:"zoneId,omitempty"`
	Weekday      *Weekday   `json:"weekday,omitempty"`
	StartMinutes *int       `json:"startMinutes,omitempty"`
	EndMinutes   *int       `json:"endMinutes,omitempty"`
	MaxClients   *int       `json:"maxClients,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// CreateSubscriptionRequest is the signup payload.
type CreateSubscriptionRequest struct {
	ClientID            string  `json:"clientId" binding:"required"`
	PlanID              string  `json:"planId" binding:"required"`
	ZoneID              string  `json:"zoneId"`
	Address             Address `json:"address" binding:"required"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

// InitiatePaymentRequest starts a mobile-money collect for a subscription.
type InitiatePaymentRequest struct {
	SubscriptionID string  `json:"subscriptionId" binding:"required"`
	Amount         float64 `json:"amount" binding:"required"`
	Phone          string  `json:"phone" binding:"required"`
	Method         string  `json:"method"` // mtn, orange
}

// AvailableDay describes one weekday with remaining capacity in a zone.
type AvailableDay struct {
	Weekday      Weekday `json:"weekday"`
	WeekdayName  string  `json:"weekdayName"`
	StartMinutes int     `json:"startMinutes"`
	EndMinutes   int     `json:"endMinutes"`
	VehicleName  string  `json:"vehicleName,omitempty"`
	PlacesLeft   int     `json:"placesLeft"`
}
