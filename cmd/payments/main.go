package main

import (
	"context"

	bookingrepo "staybook/internal/bookings/repository"
	"staybook/internal/health"
	"staybook/internal/notifications"
	"staybook/internal/payments/handler"
	"staybook/internal/payments/repository"
	"staybook/internal/payments/service"
	"staybook/internal/payments/stripe"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/contracts"
	"staybook/pkg/kafka"
	kafkaconfig "staybook/pkg/kafka/config"
)

func main() {
	cfg := config.Load("payments")
	if cfg.StripeSecretKey == "" {
		cfg.Log.Fatal("STRIPE_SECRET_KEY must be set")
	}
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
	notifier := notifications.NewKafkaNotifier(producer, "payments", cfg.Log)

	payments := repository.NewPaymentRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)
	bookings := bookingrepo.NewBookingRepository(mongoClient, cfg.MongoDatabaseName, cfg.Log)

	if err := payments.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to create payment indexes", "error", err)
	}

	sessions := stripe.NewCheckoutProvider(cfg.StripeSecretKey, cfg.StripeDomainURL, cfg.Log)
	paymentService := service.NewPaymentService(payments, bookings, sessions, notifier, cfg.Log)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.Log)
	callbackHandler := handler.NewCallbackHandler(paymentService, cfg.Log)
	healthHandler := health.NewHandler(mongoClient, cfg.Log)

	application := app.NewApplication(cfg, app.Handlers{
		Health: healthHandler,
		API:    []contracts.Handler{paymentHandler},
		Public: []contracts.Handler{callbackHandler},
	})
	application.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	})
	application.Run()
}
