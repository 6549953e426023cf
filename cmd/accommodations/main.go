package main

import (
	"context"

	"staybook/internal/accommodations/handler"
	"staybook/internal/accommodations/repository"
	"staybook/internal/accommodations/service"
	bookingrepo "staybook/internal/bookings/repository"
	"staybook/internal/health"
	"staybook/internal/notifications"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/contracts"
	"staybook/pkg/kafka"
	kafkaconfig "staybook/pkg/kafka/config"
)

func main() {
	cfg := config.Load("accommodations")
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
	notifier := notifications.NewKafkaNotifier(producer, "accommodations", cfg.Log)

	accommodations := repository.NewAccommodationRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)
	bookings := bookingrepo.NewBookingRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)

	if err := accommodations.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to create accommodation indexes", "error", err)
	}

	accommodationService := service.NewAccommodationService(accommodations, bookings, notifier, cfg.Log)
	accommodationHandler := handler.NewAccommodationHandler(accommodationService, cfg.Log)
	healthHandler := health.NewHandler(mongoClient, cfg.Log)

	application := app.NewApplication(cfg, app.Handlers{
		Health: healthHandler,
		API:    []contracts.Handler{accommodationHandler},
	})
	application.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	})
	application.Run()
}
