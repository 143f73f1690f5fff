package main

import (
	"context"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/config"
	"github.com/notshort/notshort/internal/database"
	"github.com/notshort/notshort/internal/events"
	"github.com/notshort/notshort/internal/repositories"
	"github.com/notshort/notshort/internal/storage"
)

// clickworker consumes visit events: each one becomes a visit row in the
// database and an archived click blob in the bucket.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.NewConfig()
	if cfg.AMQPURL == "" {
		logger.Fatal("AMQP_URL must be set")
	}
	if cfg.DatabaseDSN == "" {
		logger.Fatal("DATABASE_DSN must be set")
	}
	if cfg.ClicksBucket == "" {
		logger.Fatal("CLICKS_BUCKET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sink, err := storage.NewS3Sink(ctx, cfg.AWSRegion, cfg.ClicksBucket, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		logger.Fatal("failed to init blob sink", zap.Error(err))
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		logger.Fatal("failed to connect to broker", zap.Error(err))
	}
	defer conn.Close()

	consumer := events.NewVisitConsumer(
		repositories.NewURLRepository(db.Pool),
		repositories.NewVisitRepository(db.Pool),
		sink,
		logger,
	)

	if err := events.Consume(conn, cfg.VisitQueue, consumer, logger); err != nil {
		logger.Fatal("failed to start consumer", zap.Error(err))
	}

	logger.Info("click worker started", zap.String("queue", cfg.VisitQueue))
	<-ctx.Done()
	logger.Info("shutting down")
}
