package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/herafna/marketplace/internal/api/http"
	"github.com/herafna/marketplace/internal/api/http/handlers"
	"github.com/herafna/marketplace/internal/auth"
	"github.com/herafna/marketplace/internal/config"
	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/events"
	"github.com/herafna/marketplace/internal/media"
	"github.com/herafna/marketplace/internal/observability"
	"github.com/herafna/marketplace/internal/persistence"
	"github.com/herafna/marketplace/internal/repository"
	"github.com/herafna/marketplace/internal/service"
	"github.com/herafna/marketplace/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, err := docstore.NewClient(pg.PoolHandle(), logger)
	if err != nil {
		logger.Fatal("document store requires a database; set POSTGRES_DSN", zap.Error(err))
	}
	defer store.Close()

	credRepo := repository.NewCredentialRepository(pg.PoolHandle())
	resetRepo := repository.NewPasswordResetRepository(pg.PoolHandle())
	profileRepo := repository.NewProfileRepository(store)
	experienceRepo := repository.NewExperienceRepository(store)
	bookingRepo := repository.NewBookingRepository(store)

	dispatcher := events.NewInMemoryDispatcher()
	revoked := auth.NewRevocationList(redis.Client)
	uploader := media.NewUploader(cfg.Media, logger)

	identityService := service.NewIdentityService(*cfg, service.IdentityDependencies{
		CredentialRepo: credRepo,
		ProfileRepo:    profileRepo,
		ResetRepo:      resetRepo,
		Revoked:        revoked,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		ExperienceRepo: experienceRepo,
		Uploader:       uploader,
		Cache:          redis.Client,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo: bookingRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger)

	worker.StartNotificationWorker(notificationService)

	if err := catalogService.Start(); err != nil {
		logger.Fatal("failed to start catalog view", zap.Error(err))
	}
	defer catalogService.Stop()
	if err := bookingService.Start(); err != nil {
		logger.Fatal("failed to start booking view", zap.Error(err))
	}
	defer bookingService.Stop()

	authMiddleware := auth.NewAuthMiddleware(identityService.TokenManager(), revoked, identityService)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(identityService),
		Profile:        handlers.NewProfileHandler(identityService),
		Experiences:    handlers.NewExperiencesHandler(catalogService),
		Bookings:       handlers.NewBookingsHandler(bookingService, catalogService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
