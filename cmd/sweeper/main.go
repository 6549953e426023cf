package main

import (
	"context"

	"staybook/internal/bookings/repository"
	"staybook/internal/health"
	"staybook/internal/notifications"
	"staybook/internal/sweeper"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/kafka"
	kafkaconfig "staybook/pkg/kafka/config"
)

func main() {
	cfg := config.Load("sweeper")
	cfg.SetMongo()
	mongoClient := cfg.Client.Mongo

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Failed to load Kafka configuration", "error", err)
	}
	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	notifier := notifications.NewKafkaNotifier(producer, "sweeper", cfg.Log)

	bookings := repository.NewBookingRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)
	locks := repository.NewLockRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)

	if err := locks.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to create lock indexes", "error", err)
	}

	sw := sweeper.NewSweeper(bookings, locks, notifier, cfg.SweepLockTTL, cfg.SweepInterval, cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	go sw.Run(ctx)

	// The sweeper exposes only health endpoints.
	application := app.NewApplication(cfg, app.Handlers{
		Health: health.NewHandler(mongoClient, cfg.Log),
	})
	application.OnShutdown(cancel)
	application.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	})
	application.Run()
}
