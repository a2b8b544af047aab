package models

import "time"

// Notification categories.
const (
	NotifyInfo       = "info"
	NotifySuccess    = "success"
	NotifyWarning    = "warning"
	NotifyError      = "error"
	NotifyCollection = "collection"
	NotifyPayment    = "payment"
	NotifySystem     = "system"
)

// Notification is a persisted user-facing message. Delivery over FCM is
// best-effort; the row is the source of truth.
type Notification struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	Title       string    `bson:"title" json:"title"`
	Message     string    `bson:"message" json:"message"`
	Category    string    `bson:"category" json:"category"`
	Read        bool      `bson:"read" json:"read"`
	RelatedID   string    `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
	RelatedType string    `bson:"relatedType,omitempty" json:"relatedType,omitempty"`
	ActionURL   string    `bson:"actionUrl,omitempty" json:"actionUrl,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
