package models

import "time"

// Client roles.
const (
	RoleClient    = "client"
	RoleCollector = "collector"
	RoleAdmin     = "admin"
)

// Client is the minimal account record the scheduling and payment flows need:
// a phone number for mobile-money collects and an FCM token for pushes.
// Account management itself lives outside this service.
type Client struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Phone      string    `bson:"phone" json:"phone"`
	City       string    `bson:"city,omitempty" json:"city,omitempty"`
	Role       string    `bson:"role" json:"role"`
	FCMToken   string    `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	IsVerified bool      `bson:"isVerified" json:"isVerified"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
