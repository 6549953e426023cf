package main

import (
	"context"

	accommodationrepo "staybook/internal/accommodations/repository"
	"staybook/internal/bookings/handler"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/service"
	"staybook/internal/health"
	"staybook/internal/notifications"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/contracts"
	mongodb "staybook/pkg/db/mongo"
	"staybook/pkg/kafka"
	kafkaconfig "staybook/pkg/kafka/config"
)

func main() {
	cfg := config.Load("bookings")
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
	notifier := notifications.NewKafkaNotifier(producer, "bookings", cfg.Log)

	bookings := repository.NewBookingRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)
	locks := repository.NewLockRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)
	accommodations := accommodationrepo.NewAccommodationRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)

	ctx := context.Background()
	if err := bookings.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}
	if err := locks.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create lock indexes", "error", err)
	}

	tx := mongodb.NewTransactionManager(mongoClient)
	bookingService := service.NewBookingService(bookings, locks, accommodations, tx, notifier, cfg.BookingLockTTL, cfg.Log)
	bookingHandler := handler.NewBookingHandler(bookingService, cfg.Log)
	healthHandler := health.NewHandler(mongoClient, cfg.Log)

	application := app.NewApplication(cfg, app.Handlers{
		Health: healthHandler,
		API:    []contracts.Handler{bookingHandler},
	})
	application.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	})
	application.Run()
}
