package routes

import (
	"net/http"
	"time"

	"ecocity/handlers"
	"ecocity/metrics"
	"ecocity/middleware"
	"ecocity/models"
	"ecocity/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterFleetRoutes registers the fleet program registry endpoints.
// Registry mutations are admin-only.
func RegisterFleetRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/fleet")
	{
		api.Use(middleware.JWTAuthMiddleware())

		api.GET("/programs/:id", hb.GetProgramHandler)
		api.GET("/zones/:zoneId/programs", hb.ListZoneProgramsHandler)
		api.GET("/vehicles", hb.ListVehiclesHandler)
		api.GET("/vehicles/:id", hb.GetVehicleHandler)

		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.POST("/programs", hb.CreateProgramHandler)
		admin.PATCH("/programs/:id", hb.UpdateProgramHandler)
		admin.DELETE("/programs/:id", hb.DeleteProgramHandler)
		admin.POST("/vehicles", hb.CreateVehicleHandler)
	}
}

// RegisterZoneRoutes registers zone management and the public availability view.
func RegisterZoneRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/zones")
	{
		// Availability backs the signup screen; no auth required.
		api.GET("", hb.ListZonesHandler)
		api.GET("/:id", hb.GetZoneHandler)
		api.GET("/:id/availability", hb.AvailableDaysHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		admin.POST("", hb.CreateZoneHandler)
		admin.PUT("/:id", hb.UpdateZoneHandler)
		admin.PUT("/:id/active", hb.SetZoneActiveHandler)
	}
}

// RegisterSubscriptionRoutes registers the subscription lifecycle endpoints.
func RegisterSubscriptionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/subscriptions")
	{
		api.GET("/plans", hb.ListPlansHandler)
		api.GET("/renew/:token", hb.ResolveRenewalTokenHandler)

		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateSubscriptionHandler)
		api.GET("/mine", hb.ListMySubscriptionsHandler)
		api.GET("/:id", hb.GetSubscriptionHandler)
		api.GET("/:id/collections", hb.UpcomingCollectionsHandler)
		api.GET("/:id/qr", hb.GetRenewalQRHandler)

		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.PUT("/:id/activate", hb.ActivateSubscriptionHandler)
		admin.PUT("/:id/deactivate", hb.DeactivateSubscriptionHandler)
		admin.PUT("/:id/zone", hb.AssignZoneHandler)
	}
}

// RegisterPaymentRoutes registers the mobile-money endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.InitiatePaymentHandler)
		api.PUT("/:id/confirm", hb.ConfirmPaymentHandler)
		api.GET("/:id", hb.GetPaymentHandler)
		api.GET("/subscription/:id", hb.ListSubPaymentsHandler)
	}
}

// RegisterCollectorRoutes registers the field-operations endpoints.
func RegisterCollectorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/collector")
	{
		api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleCollector, models.RoleAdmin))
		api.GET("/zones/:zoneId/route", hb.DailyRouteHandler)
		api.PUT("/events/:id/start", hb.StartEventHandler)
		api.PUT("/events/:id/complete", hb.CompleteEventHandler)
		api.PUT("/events/:id/miss", hb.MissEventHandler)
		api.PUT("/events/:id/cancel", hb.CancelEventHandler)
	}
}

// RegisterNotificationRoutes registers the notification feed endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.ListNotificationsHandler)
		api.GET("/unread-count", hb.UnreadCountHandler)
		api.PUT("/:id/read", hb.MarkNotificationReadHandler)
		api.PUT("/read-all", hb.MarkAllReadHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterMetricsRoute exposes the Prometheus registry.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterFleetRoutes(r, hb)
	RegisterZoneRoutes(r, hb)
	RegisterSubscriptionRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterCollectorRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
