package models

import "time"

// CollectionEvent status values.
const (
	EventScheduled = "scheduled"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
	EventMissed    = "missed"
)

// CollectionEvent is one dated occurrence of a collection visit, materialized
// from a SlotBinding for the rolling horizon. Zone and coordinates are
// denormalized from the owning subscription so collector queries need no join.
type CollectionEvent struct {
	ID             string     `bson:"id" json:"id"`
	SubscriptionID string     `bson:"subscriptionId" json:"subscriptionId"`
	ZoneID         string     `bson:"zoneId,omitempty" json:"zoneId,omitempty"`
	Date           time.Time  `bson:"date" json:"date"`
	Weekday        Weekday    `bson:"weekday" json:"weekday"`
	TimeMinutes    int        `bson:"timeMinutes" json:"timeMinutes"`
	Status         string     `bson:"status" json:"status"`
	Latitude       float64    `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude      float64    `bson:"longitude,omitempty" json:"longitude,omitempty"`
	CollectorNotes string     `bson:"collectorNotes,omitempty" json:"collectorNotes,omitempty"`
	CustomerNotes  string     `bson:"customerNotes,omitempty" json:"customerNotes,omitempty"`
	CompletedAt    *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
}
