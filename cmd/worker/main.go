package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/adapters/event"
	"github.com/khoahotran/personal-card/adapters/media_storage"
	"github.com/khoahotran/personal-card/adapters/persistence"
	profileUC "github.com/khoahotran/personal-card/internal/application/usecase/profile"
	"github.com/khoahotran/personal-card/internal/config"
	"github.com/khoahotran/personal-card/pkg/logger"
	"github.com/khoahotran/personal-card/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Personal Card Worker...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "personal-card-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracer provider", err)
	}
	defer tp.Shutdown(context.Background())

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Object store
	objectStore, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object store", err)
	}

	// Repositories
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)

	// Worker Use Case
	processProfileUC := profileUC.NewProcessProfileUseCase(profileRepo, objectStore, appLogger)

	// Kafka Consumer
	consumer, err := event.NewProfileEventConsumer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka consumer", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents))
	if err := consumer.Run(ctx, processProfileUC.Execute); err != nil {
		appLogger.Error("Worker stopped", err)
	}
	appLogger.Info("Worker shut down")
}
