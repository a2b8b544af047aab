package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates all route handlers so route registration takes a
// single argument.
type HandlerBundle struct {
	// Fleet registry endpoints.
	CreateProgramHandler    gin.HandlerFunc
	GetProgramHandler       gin.HandlerFunc
	UpdateProgramHandler    gin.HandlerFunc
	DeleteProgramHandler    gin.HandlerFunc
	ListZoneProgramsHandler gin.HandlerFunc
	CreateVehicleHandler    gin.HandlerFunc
	GetVehicleHandler       gin.HandlerFunc
	ListVehiclesHandler     gin.HandlerFunc

	// Zone endpoints.
	CreateZoneHandler    gin.HandlerFunc
	GetZoneHandler       gin.HandlerFunc
	ListZonesHandler     gin.HandlerFunc
	UpdateZoneHandler    gin.HandlerFunc
	SetZoneActiveHandler gin.HandlerFunc
	AvailableDaysHandler gin.HandlerFunc

	// Subscription endpoints.
	CreateSubscriptionHandler     gin.HandlerFunc
	GetSubscriptionHandler        gin.HandlerFunc
	ListMySubscriptionsHandler    gin.HandlerFunc
	ActivateSubscriptionHandler   gin.HandlerFunc
	DeactivateSubscriptionHandler gin.HandlerFunc
	AssignZoneHandler             gin.HandlerFunc
	UpcomingCollectionsHandler    gin.HandlerFunc
	ListPlansHandler              gin.HandlerFunc
	GetRenewalQRHandler           gin.HandlerFunc
	ResolveRenewalTokenHandler    gin.HandlerFunc

	// Payment endpoints.
	InitiatePaymentHandler gin.HandlerFunc
	ConfirmPaymentHandler  gin.HandlerFunc
	GetPaymentHandler      gin.HandlerFunc
	ListSubPaymentsHandler gin.HandlerFunc

	// Collector endpoints.
	DailyRouteHandler    gin.HandlerFunc
	StartEventHandler    gin.HandlerFunc
	CompleteEventHandler gin.HandlerFunc
	MissEventHandler     gin.HandlerFunc
	CancelEventHandler   gin.HandlerFunc

	// Notification endpoints.
	ListNotificationsHandler    gin.HandlerFunc
	MarkNotificationReadHandler gin.HandlerFunc
	MarkAllReadHandler          gin.HandlerFunc
	UnreadCountHandler          gin.HandlerFunc
}
