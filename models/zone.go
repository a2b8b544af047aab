package models

import "time"

// Zone is a geographic service area grouping subscriptions and fleet programs.
// Deactivating a zone suspends its active subscriptions and cancels their
// scheduled collection events.
type Zone struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	City        string    `bson:"city" json:"city"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Color       string    `bson:"color,omitempty" json:"color,omitempty"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
