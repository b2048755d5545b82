package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medtour-backend/config"
	deliveryHttp "medtour-backend/internal/delivery/http"
	"medtour-backend/internal/delivery/http/handler"
	"medtour-backend/internal/delivery/http/middleware"
	"medtour-backend/internal/infrastructure/cache"
	"medtour-backend/internal/infrastructure/database"
	"medtour-backend/internal/repository"
	"medtour-backend/internal/service"
	"medtour-backend/internal/storage"
	"medtour-backend/internal/usecase"
	"medtour-backend/pkg/jwt"
	"medtour-backend/pkg/metrics"
	"medtour-backend/pkg/validator"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.App.AutoMigrate {
		if err := database.RunMigrations(db, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	server, err := initializeServer(cfg, log, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Storage
	writer, err := storage.NewAssetWriter(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	intake := storage.NewIntake(writer, cfg.Upload)
	log.WithField("driver", cfg.Storage.Driver).Info("Asset storage ready")

	// Services
	assetCache := service.NewNoopAssetCache()
	if cfg.Cache.Enabled {
		assetCache = service.NewRedisAssetCache(redisClient, log, cfg.Cache.TTL)
	}
	tokenStore := service.NewRedisTokenStore(redisClient)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	ownerRepo := repository.NewOwnerRepository()
	imageRepo := repository.NewImageRepository()
	faqRepo := repository.NewFAQRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, jwtService, tokenStore, auditService)
	imageUsecase := usecase.NewImageUsecase(db, log, imageRepo, auditService, assetCache, intake)
	faqUsecase := usecase.NewFAQUsecase(db, log, faqRepo, ownerRepo, auditService, assetCache)
	uploadUsecase := usecase.NewUploadUsecase(db, log, imageRepo, ownerRepo, auditService, assetCache, intake)
	ownerUsecase := usecase.NewOwnerUsecase(db, log, ownerRepo, imageRepo, faqRepo, imageUsecase, faqUsecase, auditService, assetCache, intake)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authUsecase.SeedAdmin(seedCtx, cfg.Admin); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	// Metrics
	m := metrics.NewMetrics("medtour", nil)
	if sqlDB, err := db.DB(); err == nil {
		if err := m.RegisterDBStats(sqlDB, cfg.DB.Name); err != nil {
			log.Warnf("Failed to register database metrics: %v", err)
		}
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	ownerHandler := handler.NewOwnerHandler(ownerUsecase, customValidator)
	imageHandler := handler.NewImageHandler(imageUsecase, uploadUsecase, customValidator, m, cfg.Upload)
	faqHandler := handler.NewFAQHandler(faqUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	observeMiddleware := middleware.NewObserveMiddleware(log, m)

	opts := []deliveryHttp.RouterOption{deliveryHttp.WithMetrics(promhttp.Handler())}
	if local, ok := writer.(*storage.LocalFileBackend); ok {
		opts = append(opts, deliveryHttp.WithMedia(mediaPrefix(cfg.Storage.PublicBaseURL), mediaHandler(local)))
	}

	router := deliveryHttp.NewRouter(
		authHandler, ownerHandler, imageHandler, faqHandler, auditLogHandler,
		authMiddleware, corsMiddleware, observeMiddleware,
		opts...,
	)

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// mediaHandler serves files written by the local backend straight from its Fs.
func mediaHandler(local *storage.LocalFileBackend) http.Handler {
	httpFs := afero.NewHttpFs(local.Fs())
	return http.FileServer(httpFs.Dir(local.Root()))
}

// mediaPrefix keeps only the path of the public base, which may be absolute.
func mediaPrefix(publicBase string) string {
	u, err := url.Parse(publicBase)
	if err != nil || u.Path == "" {
		return "/media"
	}
	return u.Path
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.App.ShutdownGrace)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
