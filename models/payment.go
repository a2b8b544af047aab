package models

import "time"

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment records one mobile-money transaction against a subscription.
// Reference is the external reference we hand to the gateway; GatewayRef is
// the reference the gateway returned, used for status polling.
type Payment struct {
	ID             string    `bson:"id" json:"id"`
	SubscriptionID string    `bson:"subscriptionId,omitempty" json:"subscriptionId,omitempty"`
	ClientID       string    `bson:"clientId" json:"clientId"`
	Amount         float64   `bson:"amount" json:"amount"`
	Status         string    `bson:"status" json:"status"`
	Method         string    `bson:"method,omitempty" json:"method,omitempty"` // mtn, orange
	Reference      string    `bson:"reference" json:"reference"`
	GatewayRef     string    `bson:"gatewayRef,omitempty" json:"gatewayRef,omitempty"`
	DueDate        time.Time `bson:"dueDate" json:"dueDate"`
	PaymentDate    time.Time `bson:"paymentDate" json:"paymentDate"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
