package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/adapters/event"
	httpAdapter "github.com/khoahotran/soundfolio/adapters/http"
	"github.com/khoahotran/soundfolio/adapters/identity"
	"github.com/khoahotran/soundfolio/adapters/media_storage"
	"github.com/khoahotran/soundfolio/adapters/persistence"
	"github.com/khoahotran/soundfolio/internal/application/service"
	authUC "github.com/khoahotran/soundfolio/internal/application/usecase/auth"
	"github.com/khoahotran/soundfolio/internal/application/usecase/editor"
	embedUC "github.com/khoahotran/soundfolio/internal/application/usecase/embed"
	mediaUC "github.com/khoahotran/soundfolio/internal/application/usecase/media"
	"github.com/khoahotran/soundfolio/internal/application/usecase/public"
	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/pkg/auth"
	"github.com/khoahotran/soundfolio/pkg/logger"
	"github.com/khoahotran/soundfolio/pkg/tracing"
)

func main() {
	fmt.Println("Start Soundfolio API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "soundfolio-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			appLogger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	// Storage
	stores, err := persistence.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open storage", err, zap.String("driver", cfg.Storage.Driver))
	}
	defer stores.Close(appLogger)

	if cfg.Owner.Email != "" {
		created, err := authUC.EnsureOwner(ctx, stores.Users, authUC.OwnerInput{
			Email:    cfg.Owner.Email,
			Password: cfg.Owner.Password,
			Name:     cfg.Owner.Name,
		})
		if err != nil {
			appLogger.Fatal("Cannot create owner account", err)
		}
		if created {
			appLogger.Info("Owner account created", zap.String("email", cfg.Owner.Email))
		}
	}

	// Events
	publisher := service.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("No Kafka brokers configured, portfolio events are dropped")
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	var uploader service.Uploader
	if cfg.CloudinaryEnabled() {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
	}

	// Use Cases
	registry := editor.NewRegistry(stores.Volatile, stores.Durable, publisher, appLogger)
	go registry.RunSweeper(ctx, cfg.Editor.SweepInterval, cfg.Editor.SessionIdleTTL)
	loginUseCase := authUC.NewLoginUseCase(stores.Users, jwtSvc, appLogger)
	var oauthUseCase *authUC.OAuthUseCase
	if cfg.OAuthEnabled() {
		oauthUseCase = authUC.NewOAuthUseCase(identity.NewOAuthProvider(cfg), jwtSvc, appLogger)
	}
	embedUseCase := embedUC.NewEmbedUseCase(persistence.NewTierEmbedRepo(stores.Durable), appLogger)
	uploadImageUseCase := mediaUC.NewUploadImageUseCase(uploader, appLogger)
	getPublicProfileUseCase := public.NewGetPublicProfileUseCase(stores.Snapshots)
	feedUseCase := public.NewFeedUseCase(getPublicProfileUseCase, cfg.App.PublicURL, appLogger)

	// Router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      httpAdapter.NewAuthHandler(loginUseCase, oauthUseCase, appLogger),
		PortfolioHandler: httpAdapter.NewPortfolioHandler(registry, appLogger),
		ProfileHandler:   httpAdapter.NewProfileHandler(registry, getPublicProfileUseCase, feedUseCase, appLogger),
		ProjectHandler:   httpAdapter.NewProjectHandler(registry, appLogger),
		EmbedHandler:     httpAdapter.NewEmbedHandler(embedUseCase, appLogger),
		MediaHandler:     httpAdapter.NewMediaHandler(uploadImageUseCase, appLogger),
		JWTService:       jwtSvc,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		Logger:           appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
