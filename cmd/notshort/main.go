package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/auth"
	"github.com/notshort/notshort/internal/config"
	"github.com/notshort/notshort/internal/database"
	"github.com/notshort/notshort/internal/events"
	"github.com/notshort/notshort/internal/handlers"
	"github.com/notshort/notshort/internal/repositories"
	"github.com/notshort/notshort/internal/router"
	"github.com/notshort/notshort/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	a, err := auth.New(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTExpHours)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}

	if err := database.RunMigrations(cfg.DatabaseDSN, cfg.PgMigrationsPath, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.VisitQueue)
		if err != nil {
			logger.Fatal("failed to connect to broker", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Warn("AMQP_URL not set, visit events are disabled")
	}

	userRepo := repositories.NewUserRepository(db.Pool)
	urlRepo := repositories.NewURLRepository(db.Pool)
	tokenRepo := repositories.NewTokenRepository(db.Pool)
	visitRepo := repositories.NewVisitRepository(db.Pool)

	sessions := service.NewSessionService(userRepo, tokenRepo, a, logger)
	shortener := service.NewShortenerService(urlRepo, visitRepo, publisher, logger, cfg.SlugAlphabet, cfg.SlugMinLength)

	handler := handlers.NewHandler(sessions, shortener, a, logger)
	r := router.NewRouter(handler, a, logger, cfg.CORSOrigin)

	server := &http.Server{Addr: cfg.ServerAddress, Handler: r}

	go func() {
		logger.Info("server started", zap.String("address", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
