package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/fahimunoffice-stack/her-well-being/api/swagger"
	"github.com/fahimunoffice-stack/her-well-being/internal/handler"
	"github.com/fahimunoffice-stack/her-well-being/internal/repository"
	"github.com/fahimunoffice-stack/her-well-being/internal/router"
	"github.com/fahimunoffice-stack/her-well-being/internal/service"
	"github.com/fahimunoffice-stack/her-well-being/pkg/cache"
	"github.com/fahimunoffice-stack/her-well-being/pkg/config"
	"github.com/fahimunoffice-stack/her-well-being/pkg/database"
	"github.com/fahimunoffice-stack/her-well-being/pkg/logger"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// @title Her Well-Being API
// @version 1.0.0
// @description Landing page, order form and admin back office for the e-book store.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	os.Exit(exitCode(logr, run(cfg, logr)))
}

// exitCode logs a failed run and flushes the logger before the process exits.
func exitCode(logr *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logr.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = logr.Sync()
	return code
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(client, cfg.Name, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.ContentTTL, logr, cfg.Cache.Enabled)

	store, local, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(db)
	orders := repository.NewOrderRepository(db)
	ebooks := repository.NewEbookRepository(db)
	content := repository.NewContentRepository(db)
	presets := repository.NewOrderPresetRepository(db)

	broker := service.NewSessionBroker(metrics)
	authSvc := service.NewAuthService(users, broker, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.Name,
		LoginPath:          cfg.Admin.LoginPath,
	})
	gateSvc := service.NewAdminGateService(authSvc, users, logr, cfg.Admin.LoginPath)
	setupSvc := service.NewSetupService(users, validate, logr, cfg.Admin.SetupToken)

	orderSvc := service.NewOrderService(orders, ebooks, store, users, metrics, validate, logr, service.OrderServiceConfig{
		Location:     cfg.Location(),
		EbooksBucket: cfg.Storage.EbooksBucket,
		SignedURLTTL: cfg.Storage.SignedURLTTL,
	})
	presetSvc := service.NewPresetService(presets, validate, logr, cfg.Admin.PresetLimit)
	analyticsSvc := service.NewAnalyticsService(orders, users, logr, cfg.Location())
	ebookSvc := service.NewEbookService(ebooks, store, users, metrics, logr, service.EbookServiceConfig{
		Bucket:       cfg.Storage.EbooksBucket,
		MaxFileSize:  cfg.Ebooks.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Ebooks.AllowedMIMEs,
		SignedURLTTL: cfg.Storage.SignedURLTTL,
	})
	mediaSvc := service.NewMediaService(store, users, metrics, logr, service.MediaServiceConfig{
		Bucket:      cfg.Storage.MediaBucket,
		MaxFileSize: cfg.Media.MaxFileSizeBytes,
		ListLimit:   cfg.Media.ListLimit,
	})
	contentSvc := service.NewContentService(content, cacheSvc, users, validate, logr, cfg.Cache.ContentTTL)
	landingSvc := service.NewLandingService(contentSvc, mediaSvc, service.LandingServiceConfig{
		BaseURL: cfg.PublicBaseURL,
	})

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Session:   handler.NewSessionHandler(gateSvc, broker),
		Setup:     handler.NewSetupHandler(setupSvc),
		Orders:    handler.NewOrderHandler(orderSvc),
		Presets:   handler.NewPresetHandler(presetSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Ebooks:    handler.NewEbookHandler(ebookSvc),
		Media:     handler.NewMediaHandler(mediaSvc),
		Content:   handler.NewContentHandler(contentSvc),
		Landing:   handler.NewLandingHandler(landingSvc),
		Metrics:   handler.NewMetricsHandler(metrics, db),
	}
	if local != nil {
		handlers.Storage = handler.NewStorageHandler(local, cfg.Storage.MediaBucket)
	}

	engine := router.New(router.Dependencies{
		Config:  cfg,
		Logger:  logr,
		Tokens:  authSvc,
		Gate:    gateSvc,
		Audit:   users,
		Metrics: metrics,
	}, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = server.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logr.Info("server stopped")
	return nil
}

// newObjectStore builds the configured backend. The local store is also
// returned so its objects can be served over HTTP.
func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, *storage.LocalStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Region:         cfg.Storage.S3.Region,
			Endpoint:       cfg.Storage.S3.Endpoint,
			PublicBaseURL:  cfg.Storage.S3.PublicBaseURL,
			ForcePathStyle: cfg.Storage.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return store, nil, nil
	case config.StorageDriverLocal, "":
		store, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.PublicBaseURL, storage.NewSigner(cfg.Storage.SigningSecret))
		if err != nil {
			return nil, nil, fmt.Errorf("init local storage: %w", err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
