package models

import "time"

// SubscriptionPlan defines billing terms and the weekly collection target.
// Reference data from the scheduling engine's point of view.
type SubscriptionPlan struct {
	ID                    string    `bson:"id" json:"id"`
	Name                  string    `bson:"name" json:"name"`
	PlanType              string    `bson:"planType" json:"planType"` // standard, premium, enterprise
	Frequency             string    `bson:"frequency" json:"frequency"`
	Price                 float64   `bson:"price" json:"price"`
	Description           string    `bson:"description,omitempty" json:"description,omitempty"`
	MaxCollectionsPerWeek int       `bson:"maxCollectionsPerWeek" json:"maxCollectionsPerWeek"`
	IsActive              bool      `bson:"isActive" json:"isActive"`
	CreatedAt             time.Time `bson:"createdAt" json:"createdAt"`
}
