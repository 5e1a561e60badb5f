package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/adapters/event"
	httpAdapter "github.com/khoahotran/personal-card/adapters/http"
	"github.com/khoahotran/personal-card/adapters/media_storage"
	"github.com/khoahotran/personal-card/adapters/persistence"
	authUC "github.com/khoahotran/personal-card/internal/application/usecase/auth"
	dashboardUC "github.com/khoahotran/personal-card/internal/application/usecase/dashboard"
	wizardUC "github.com/khoahotran/personal-card/internal/application/usecase/wizard"
	"github.com/khoahotran/personal-card/internal/config"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
	"github.com/khoahotran/personal-card/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Personal Card API Server...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "personal-card-api")
	if err != nil {
		appLogger.Fatal("cannot init tracer provider", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("failed to shutdown tracer provider", err)
		}
	}()

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	objectStore, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object store", err)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	pageRepo := persistence.NewPostgresPageRepo(dbPool, appLogger)
	sessionRepo := persistence.NewRedisWizardSessionRepo(redisClient, cfg.Wizard.SessionTTL, appLogger)
	denylist := persistence.NewRedisTokenDenylist(redisClient)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(denylist, appLogger)
	wizardUseCase := wizardUC.NewWizardUseCase(sessionRepo, objectStore, profileRepo, kafkaClient,
		wizardUC.Options{
			PictureFolder:   cfg.Wizard.PictureFolder,
			MaxPictureBytes: cfg.Wizard.MaxPictureBytes,
		}, appLogger)
	dashboardUseCase := dashboardUC.NewDashboardUseCase(pageRepo, profileRepo, kafkaClient, cfg.App.PublicOrigin, appLogger)
	publicPageUseCase := dashboardUC.NewGetPublicPageUseCase(pageRepo, profileRepo, appLogger)

	// HTTP Handlers
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:      httpAdapter.NewAuthHandler(loginUseCase, logoutUseCase),
		Wizard:    httpAdapter.NewWizardHandler(wizardUseCase, cfg.Wizard.MaxPictureBytes, appLogger),
		Dashboard: httpAdapter.NewDashboardHandler(dashboardUseCase, publicPageUseCase),
	}, jwtSvc, denylist, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Cannot run server", err)
			stop()
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
