package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack/planner/internal/api"
	"fittrack/planner/internal/coach"
	"fittrack/planner/internal/config"
	"fittrack/planner/internal/logging"
	"fittrack/planner/internal/metrics"
	"fittrack/planner/internal/repository/mongo"
	"fittrack/planner/internal/service"
	"fittrack/planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title FitTrack Planner API
// @version 1.0
// @description AI generated workout plans, workout logging and progress tracking.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	configPath := "."
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Logging.File,
		LogToStdout:   cfg.Logging.ToStdout,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
		MaxBackups:    cfg.Logging.MaxBackups,
	})
	log.Info("starting fittrack planner server ...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB ...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Errorf("index creation finished with errors: %s", err)
			return
		}
		log.Info("index creation completed")
	}()

	// --- Metrics ---
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	promRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("fittrack", "planner", promRegistry)

	// --- Plan Coach ---
	if cfg.Gemini.APIKey == "" {
		log.Fatal("gemini.api_key is required")
	}
	gemini, err := coach.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("failed to create Gemini client: %s", err)
	}
	defer gemini.Close()
	planCoach := coach.New(gemini, metricsManager)

	// --- Storage (optional) ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %s", err)
		}
	} else {
		log.Warn("S3 disabled, plan exports are unavailable")
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	measurementRepo := mongo.NewMongoMeasurementRepository(appDB)
	exportRepo := mongo.NewMongoExportRepository(appDB)

	// --- Services ---
	store := service.StoreOptions{
		Timeout:     cfg.Store.Timeout,
		ReadRetries: cfg.Store.ReadRetries,
	}
	planService := service.NewPlanService(service.PlanServiceDeps{
		Plans:        planRepo,
		Profiles:     profileRepo,
		Exports:      exportRepo,
		Coach:        planCoach,
		Storage:      fileStorage,
		Metrics:      metricsManager,
		Store:        store,
		CoachTimeout: cfg.Gemini.Timeout,
		URLExpiry:    cfg.S3.URLExpiry,
	})
	services := api.Services{
		Auth:     service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Profile:  service.NewProfileService(profileRepo, store),
		Plan:     planService,
		Workout:  service.NewWorkoutService(planService, completionRepo, metricsManager, store),
		Progress: service.NewProgressService(planService, completionRepo, measurementRepo, store),
	}

	// --- Gin Engine ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, cfg.JWT.Secret, services, metricsManager, promRegistry)

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Plan generation waits on the model.
		WriteTimeout: cfg.Gemini.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server ...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}
	log.Info("server exiting")
}
