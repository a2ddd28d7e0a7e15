package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/adapters/event"
	"github.com/khoahotran/soundfolio/adapters/media_storage"
	"github.com/khoahotran/soundfolio/adapters/persistence"
	backupUC "github.com/khoahotran/soundfolio/internal/application/usecase/backup"
	"github.com/khoahotran/soundfolio/internal/application/usecase/public"
	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
	"github.com/khoahotran/soundfolio/pkg/tracing"
)

func main() {
	fmt.Println("Starting Soundfolio Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("FATAL: worker needs kafka.brokers")
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "soundfolio-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx, tp)
	}()

	// Storage
	stores, err := persistence.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open storage", err)
	}
	defer stores.Close(appLogger)

	// Worker Use Cases
	publishUC := public.NewPublishSnapshotUseCase(stores.Durable, stores.Snapshots, appLogger)

	var backup *backupUC.BackupUseCase
	if cfg.CloudinaryEnabled() {
		uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
		backup = backupUC.NewBackupUseCase(stores.Durable, uploader, appLogger)
	}

	// Kafka Consumer
	consumer := event.NewPortfolioEventsReader(cfg)
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicPortfolioEvents), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		evt, err := event.DecodePortfolioEvent(msg)
		if err != nil {
			appLogger.Error("Failed to unmarshal event, skipping", err, zap.String("key", string(msg.Key)))
			commitMessage(ctx, consumer, msg, appLogger)
			continue
		}

		evtLog := appLogger.With(zap.String("event_type", evt.EventType), zap.String("user_id", evt.UserID))
		if _, err := publishUC.Execute(ctx, evt); err != nil {
			switch {
			case errors.Is(err, apperror.ErrNotFound):
				evtLog.Warn("Saved portfolio missing, skipping", zap.Error(err))
			case errors.Is(err, apperror.ErrConflict):
				evtLog.Warn("Username belongs to another user, skipping", zap.Error(err))
			default:
				// not committed; redelivered after a restart or rebalance
				evtLog.Error("Failed to publish snapshot", err)
				continue
			}
		}

		if backup != nil {
			if _, err := backup.Execute(ctx, evt.UserID); err != nil {
				evtLog.Warn("Backup failed", zap.Error(err))
			}
		}

		commitMessage(ctx, consumer, msg, evtLog)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
