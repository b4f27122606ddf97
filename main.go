package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkwise/config"
	"parkwise/cron"
	"parkwise/database"
	"parkwise/database/repository"
	"parkwise/handlers"
	"parkwise/middleware"
	"parkwise/routes"
	"parkwise/services/billing"
	"parkwise/services/geocode"
	"parkwise/services/invoice"
	"parkwise/services/lot"
	"parkwise/services/notification"
	"parkwise/services/parking"
	"parkwise/services/payment"
	"parkwise/services/qr"
	"parkwise/services/tasks"
	"parkwise/services/user"
	"parkwise/services/vehicle"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig
	if err := cfg.Validate(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	ctx := context.Background()
	if err := utils.FirebaseInit(ctx); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	objectStore, err := utils.Storage(ctx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize storage service: %v", err)
	}
	stripe.Key = cfg.StripeKey

	policy, err := billing.PolicyFromConfig(cfg.Billing)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid billing policy: %v", err)
	}
	parkingOpts, err := parking.OptionsFromConfig(cfg.Scan, cfg.Billing)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid scan config: %v", err)
	}

	// repositories.
	db := database.Database()
	lots := repository.NewMongoLotRepo(db)
	rates := repository.NewMongoRateRepo(db)
	sessions := repository.NewMongoSessionRepo(db)
	vehicles := repository.NewMongoVehicleRepo(db)
	invoices := repository.NewMongoInvoiceRepo(db)
	users := repository.NewMongoUserRepository(db)

	// services.
	qrService := qr.NewSignedService(cfg.QRSigningSecret, cfg.QRTokenTTL)

	notificationService, err := notification.NewDefaultNotificationService(users, utils.FCMClient, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	queue := asynq.NewClient(cron.RedisOpt())
	defer queue.Close()

	parkingService := &parking.DefaultParkingService{
		Lots:     lots,
		Rates:    rates,
		Sessions: sessions,
		Vehicles: vehicles,
		QR:       qrService,
		Locker:   &parking.RedisScanLocker{Client: utils.GetCacheClient()},
		Tasks:    tasks.NewInvoiceScheduler(queue, logger),
		Policy:   policy,
		Options:  parkingOpts,
		Logger:   logger,
	}

	scannerCache := utils.NewScannerKeyCache(utils.GetAuthCacheClient())
	lotService := &lot.DefaultLotService{
		Lots:            lots,
		Rates:           rates,
		Sessions:        sessions,
		Geocoder:        geocode.NewGoogleGeocoder(cfg.GoogleAPIKey),
		Storage:         objectStore,
		KeyCache:        scannerCache,
		DefaultCurrency: cfg.Billing.DefaultCurrency,
		Logger:          logger,
	}

	vehicleService := &vehicle.DefaultVehicleService{
		Vehicles: vehicles,
		Sessions: sessions,
		QR:       qrService,
		Storage:  objectStore,
		Logger:   logger,
	}

	invoiceService := &invoice.DefaultInvoiceService{
		Invoices: invoices,
		Lots:     lots,
		Gateway:  payment.NewStripeGateway(cfg.StripeWebhookSecret),
		Notifier: notificationService,
		Logger:   logger,
	}

	userService := &user.DefaultUserService{
		Repo:   users,
		Claims: utils.AuthClient,
		Logger: logger,
	}

	worker := cron.NewWorker(invoiceService, notificationService, logger)
	worker.Start()

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go utils.StartHealthMonitor(monitorCtx, 30*time.Second,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:        middleware.FirebaseAuthMiddleware(utils.AuthClient, utils.GetAuthCacheClient()),
		ScannerAuth: middleware.ScannerAuthMiddleware(lotService, scannerCache),

		LotHandler:     handlers.NewLotHandler(lotService),
		RateHandler:    handlers.NewRateHandler(lotService, parkingService),
		VehicleHandler: handlers.NewVehicleHandler(vehicleService),
		SessionHandler: handlers.NewSessionHandler(parkingService),
		InvoiceHandler: handlers.NewInvoiceHandler(invoiceService),
		UserHandler:    handlers.NewUserHandler(userService),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
