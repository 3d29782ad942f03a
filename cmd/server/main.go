package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "fixo-backend/internal/api/http"
	"fixo-backend/internal/config"
	"fixo-backend/internal/feed"
	"fixo-backend/internal/logger"
	"fixo-backend/internal/repository/postgres"
	"fixo-backend/internal/security"
	"fixo-backend/internal/service"
	"fixo-backend/internal/storage"
	"fixo-backend/internal/tracking"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Fixo Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize the location change feed. With a broker every instance
	// sees every update; without one the feed is process local.
	var locationFeed feed.Feed
	if cfg.AMQP.URL != "" {
		amqpFeed, err := feed.NewAMQPFeed(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
			log.Fatalf("Failed to connect to AMQP broker: %v", err)
		}
		defer amqpFeed.Close()
		locationFeed = amqpFeed
		logger.Info("Using AMQP location feed", "exchange", cfg.AMQP.Exchange)
	} else {
		locationFeed = feed.NewHub()
		logger.Info("Using in-process location feed")
	}

	// Initialize Image Storage
	imageStore, err := storage.NewFileStore(cfg.Server.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize image storage", "error", err)
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository)
	catalogSvc := service.NewCatalogService(store.ServiceRepository)
	payments := service.NewStripePayments(cfg.Stripe)
	resolver := service.NewAssignmentResolver(store.BookingRepository, store.ServiceRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.ServiceRepository,
		store.UserRepository,
		resolver,
		payments,
		emailSvc,
		noteSvc,
	)
	propertySvc := service.NewPropertyService(store.PropertyRepository)
	propertyBookingSvc := service.NewPropertyBookingService(
		store.PropertyBookingRepository,
		store.PropertyRepository,
		store.UserRepository,
		emailSvc,
		noteSvc,
	)
	locationSvc := service.NewLocationService(store.LocationRepository, store.BookingRepository, locationFeed)

	// Initialize the tracking manager. Every provider gets a report-fed
	// source; fixes arrive over the location report endpoint.
	trackingManager := tracking.NewManager(
		service.NewTrackingStore(locationSvc),
		service.NewTrackingNotifier(noteSvc),
		func(providerID string) tracking.PositionSource { return tracking.NewReportSource() },
		tracking.Options{
			HighAccuracy: cfg.Tracking.HighAccuracy,
			Timeout:      cfg.Tracking.RequestTimeout(),
			MaximumAge:   cfg.Tracking.MaximumAge(),
		},
	)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(tokenManager, httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc, userSvc),
		Catalog:      httpapi.NewCatalogHandler(catalogSvc),
		Booking:      httpapi.NewBookingHandler(bookingSvc),
		Property:     httpapi.NewPropertyHandler(propertySvc, propertyBookingSvc),
		Location:     httpapi.NewLocationHandler(trackingManager, locationSvc, locationFeed),
		Notification: httpapi.NewNotificationHandler(noteSvc),
		Images:       httpapi.NewPropertyImageHandler(imageStore, propertySvc),
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
