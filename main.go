package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecocity/config"
	"ecocity/cron"
	"ecocity/database"
	bindingRepoPkg "ecocity/database/repository/binding"
	clientRepoPkg "ecocity/database/repository/client"
	fleetRepoPkg "ecocity/database/repository/fleet"
	notificationRepoPkg "ecocity/database/repository/notification"
	paymentRepoPkg "ecocity/database/repository/payment"
	scheduleRepoPkg "ecocity/database/repository/schedule"
	subscriptionRepoPkg "ecocity/database/repository/subscription"
	zoneRepoPkg "ecocity/database/repository/zone"
	"ecocity/handlers"
	"ecocity/metrics"
	"ecocity/middleware"
	"ecocity/routes"
	"ecocity/services/availability"
	"ecocity/services/collector"
	"ecocity/services/fleet"
	"ecocity/services/notification"
	"ecocity/services/payment"
	"ecocity/services/scheduling"
	"ecocity/services/subscription"
	"ecocity/services/zone"
	"ecocity/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()
	metrics.RegisterDefault()

	artifactStore, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Warnf("main: cloudinary unavailable, renewal QR images disabled: %v", err)
		artifactStore = nil
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// repositories.
	fleetRepo := fleetRepoPkg.NewMongoFleetRepo()
	zoneRepo := zoneRepoPkg.NewMongoZoneRepo()
	bindingRepo := bindingRepoPkg.NewMongoBindingRepo()
	subRepo := subscriptionRepoPkg.NewMongoSubscriptionRepo()
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	notifRepo := notificationRepoPkg.NewMongoNotificationRepo()
	payRepo := paymentRepoPkg.NewMongoPaymentRepo()
	clientRepo := clientRepoPkg.NewMongoClientRepo()

	// services.
	notificationService := notification.NewService(notifRepo, clientRepo, utils.FCMClient)

	engine := scheduling.NewEngine(fleetRepo, bindingRepo, subRepo, scheduleRepo, config.AppConfig.ScheduleHorizonWeeks)
	reconciler := scheduling.NewReconciler(engine, subRepo, scheduleRepo, notificationService, database.WithTransaction)

	fleetRegistry := fleet.NewRegistry(fleetRepo, bindingRepo, zoneRepo, reconciler)
	zoneService := zone.NewService(zoneRepo, reconciler)
	availabilityService := availability.NewService(fleetRepo, utils.GetCacheClient())
	subscriptionService := subscription.NewService(subRepo, scheduleRepo, reconciler, artifactStore)
	paymentService := payment.NewService(payRepo, clientRepo, subscriptionService, payment.NewCampayGateway(), notificationService)
	collectorService := collector.NewService(scheduleRepo, subRepo, notificationService)

	// background workers.
	cron.InitReminderWorker(notificationService)
	cron.StartReminderScheduler(scheduleRepo, subRepo)
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient()}, database.MongoClient)

	// handlers.
	fleetHandler := handlers.NewFleetHandler(fleetRegistry, availabilityService)
	zoneHandler := handlers.NewZoneHandler(zoneService, availabilityService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	collectorHandler := handlers.NewCollectorHandler(collectorService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Fleet registry endpoints.
		CreateProgramHandler:    fleetHandler.CreateProgramHandler,
		GetProgramHandler:       fleetHandler.GetProgramHandler,
		UpdateProgramHandler:    fleetHandler.UpdateProgramHandler,
		DeleteProgramHandler:    fleetHandler.DeleteProgramHandler,
		ListZoneProgramsHandler: fleetHandler.ListZoneProgramsHandler,
		CreateVehicleHandler:    fleetHandler.CreateVehicleHandler,
		GetVehicleHandler:       fleetHandler.GetVehicleHandler,
		ListVehiclesHandler:     fleetHandler.ListVehiclesHandler,

		// Zone endpoints.
		CreateZoneHandler:    zoneHandler.CreateZoneHandler,
		GetZoneHandler:       zoneHandler.GetZoneHandler,
		ListZonesHandler:     zoneHandler.ListZonesHandler,
		UpdateZoneHandler:    zoneHandler.UpdateZoneHandler,
		SetZoneActiveHandler: zoneHandler.SetZoneActiveHandler,
		AvailableDaysHandler: zoneHandler.AvailableDaysHandler,

		// Subscription endpoints.
		CreateSubscriptionHandler:     subscriptionHandler.CreateSubscriptionHandler,
		GetSubscriptionHandler:        subscriptionHandler.GetSubscriptionHandler,
		ListMySubscriptionsHandler:    subscriptionHandler.ListMySubscriptionsHandler,
		ActivateSubscriptionHandler:   subscriptionHandler.ActivateSubscriptionHandler,
		DeactivateSubscriptionHandler: subscriptionHandler.DeactivateSubscriptionHandler,
		AssignZoneHandler:             subscriptionHandler.AssignZoneHandler,
		UpcomingCollectionsHandler:    subscriptionHandler.UpcomingCollectionsHandler,
		ListPlansHandler:              subscriptionHandler.ListPlansHandler,
		GetRenewalQRHandler:           subscriptionHandler.GetRenewalQRHandler,
		ResolveRenewalTokenHandler:    subscriptionHandler.ResolveRenewalTokenHandler,

		// Payment endpoints.
		InitiatePaymentHandler: paymentHandler.InitiatePaymentHandler,
		ConfirmPaymentHandler:  paymentHandler.ConfirmPaymentHandler,
		GetPaymentHandler:      paymentHandler.GetPaymentHandler,
		ListSubPaymentsHandler: paymentHandler.ListSubPaymentsHandler,

		// Collector endpoints.
		DailyRouteHandler:    collectorHandler.DailyRouteHandler,
		StartEventHandler:    collectorHandler.StartEventHandler,
		CompleteEventHandler: collectorHandler.CompleteEventHandler,
		MissEventHandler:     collectorHandler.MissEventHandler,
		CancelEventHandler:   collectorHandler.CancelEventHandler,

		// Notification endpoints.
		ListNotificationsHandler:    notificationHandler.ListNotificationsHandler,
		MarkNotificationReadHandler: notificationHandler.MarkNotificationReadHandler,
		MarkAllReadHandler:          notificationHandler.MarkAllReadHandler,
		UnreadCountHandler:          notificationHandler.UnreadCountHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
