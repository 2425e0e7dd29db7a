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

	"feedback-analytics/internal/config"
	"feedback-analytics/internal/database"
	"feedback-analytics/internal/handlers"
	"feedback-analytics/internal/logging"
	"feedback-analytics/internal/notify"
	"feedback-analytics/internal/repository"
	"feedback-analytics/internal/storage"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	warnOpenAdminLogin(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer closeStore()

	clock := clockwork.NewRealClock()
	feedbackRepo := repository.NewFeedbackRepo(ctx, store, cfg.StorageKey,
		repository.WithClock(clock),
		repository.WithLogger(logger.Named("repository")),
	)

	var notifier notify.Notifier
	if cfg.ResendAPIKey != "" && cfg.NotifyEmail != "" {
		notifier = notify.NewEmailNotifier(cfg.ResendAPIKey, cfg.FromEmail, cfg.NotifyEmail, logger.Named("notify"))
	} else {
		logger.Info("RESEND_API_KEY or NOTIFY_EMAIL not set, feedback events are only logged")
		notifier = notify.NewLogNotifier(logger.Named("notify"))
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		FeedbackRepo:    feedbackRepo,
		AuthHandler:     handlers.NewAuthHandler(cfg.JWTSecret, cfg.AdminPassword, cfg.SessionTTL, clock, logger.Named("auth")),
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackRepo, notifier, clock, logger.Named("feedback")),
		UserHandler:     handlers.NewUserHandler(),
		JWTSecret:       cfg.JWTSecret,
		Logger:          logger.Named("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("feedback service starting",
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageBackend),
			zap.Int("records", feedbackRepo.Count()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// warnOpenAdminLogin flags a deployment where anyone can log in as admin.
func warnOpenAdminLogin(cfg *config.Config, logger *zap.Logger) {
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, any user can log in as admin and clear all feedback")
	}
}

// openStorage returns the configured backend and a func releasing its connections.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Warn("memory storage selected, feedback will not survive a restart")
		return storage.NewMemoryStorage(), noop, nil

	case config.BackendFile:
		fs, err := storage.NewFileStorage(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil

	case config.BackendRedis:
		rdb, err := database.ConnectRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, noop, err
		}
		return storage.NewRedisStorage(rdb, "feedback:"), func() { _ = rdb.Close() }, nil

	case config.BackendMongo:
		db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName, logger)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() { _ = db.Client().Disconnect(context.Background()) }
		return storage.NewMongoStorage(db, "blobs"), closeFn, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
