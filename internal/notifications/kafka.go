package notifications

import (
	"context"

	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes events keyed by entity ID so downstream consumers
// see per-entity ordering.
type KafkaNotifier struct {
	producer publisher
	source   string
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, source string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithEventType(eventType).
		WithSource(n.source).
		WithValue(payload).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Warn("Failed to publish notification",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func (n *KafkaNotifier) BookingCreated(ctx context.Context, booking *model.Booking) {
	n.publish(ctx, EventBookingCreated, booking.ID, booking)
}

func (n *KafkaNotifier) BookingCanceled(ctx context.Context, booking *model.Booking) {
	n.publish(ctx, EventBookingCanceled, booking.ID, booking)
}

func (n *KafkaNotifier) BookingExpired(ctx context.Context, booking *model.Booking) {
	n.publish(ctx, EventBookingExpired, booking.ID, booking)
}

// SweepEmpty tells consumers a sweep ran and found nothing to expire.
func (n *KafkaNotifier) SweepEmpty(ctx context.Context) {
	n.publish(ctx, EventSweepEmpty, "sweep", map[string]string{"result": "empty"})
}

func (n *KafkaNotifier) PaymentSucceeded(ctx context.Context, payment *model.Payment) {
	n.publish(ctx, EventPaymentSucceeded, payment.BookingID, payment)
}

func (n *KafkaNotifier) AccommodationCreated(ctx context.Context, accommodation *model.Accommodation) {
	n.publish(ctx, EventAccommodationCreated, accommodation.ID, accommodation)
}

func (n *KafkaNotifier) AccommodationDeleted(ctx context.Context, accommodation *model.Accommodation) {
	n.publish(ctx, EventAccommodationDeleted, accommodation.ID, accommodation)
}
