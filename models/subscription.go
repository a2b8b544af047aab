package models

import "time"

// Subscription status values.
const (
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
)

// Address is the service address of a subscription. Coordinates feed the
// collectors' nearest-first daily route ranking.
type Address struct {
	Title      string  `bson:"title,omitempty" json:"title,omitempty"`
	Street     string  `bson:"street" json:"street"`
	City       string  `bson:"city" json:"city"`
	PostalCode string  `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Latitude   float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude  float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// Subscription is a client's recurring collection contract. An empty ZoneID
// means the client is unschedulable until an operator assigns a zone.
type Subscription struct {
	ID                  string     `bson:"id" json:"id"`
	ClientID            string     `bson:"clientId" json:"clientId"`
	Address             Address    `bson:"address" json:"address"`
	ZoneID              string     `bson:"zoneId,omitempty" json:"zoneId,omitempty"`
	PlanID              string     `bson:"planId" json:"planId"`
	Status              string     `bson:"status" json:"status"`
	StartDate           time.Time  `bson:"startDate" json:"startDate"`
	EndDate             *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CustomPrice         *float64   `bson:"customPrice,omitempty" json:"customPrice,omitempty"`
	SpecialInstructions string     `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	CreatedAt           time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// SlotBinding reserves one weekday slot of a fleet program for a subscription.
// A subscription holds at most one binding per weekday. Creating a binding
// reserves one place on the bound program; destroying it releases that place.
type SlotBinding struct {
	ID              string    `bson:"id" json:"id"`
	SubscriptionID  string    `bson:"subscriptionId" json:"subscriptionId"`
	Weekday         Weekday   `bson:"weekday" json:"weekday"`
	TimeSlotMinutes int       `bson:"timeSlotMinutes" json:"timeSlotMinutes"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	ProgramID       string    `bson:"programId,omitempty" json:"programId,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// SubscriptionQR is the renewal QR artifact provisioned lazily when a
// subscription becomes active.
type SubscriptionQR struct {
	ID             string    `bson:"id" json:"id"`
	SubscriptionID string    `bson:"subscriptionId" json:"subscriptionId"`
	Token          string    `bson:"token" json:"token"`
	ImageURL       string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsActive       bool      `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
