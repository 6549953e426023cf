// Package notifications publishes domain events to the notification stream.
// Delivery is best effort; a failed publish never fails the request that
// triggered it.
package notifications

import (
	"context"

	"staybook/pkg/model"
)

// Event types carried in the event-type header.
const (
	EventBookingCreated       = "booking.created"
	EventBookingCanceled      = "booking.canceled"
	EventBookingExpired       = "booking.expired"
	EventSweepEmpty           = "sweep.empty"
	EventPaymentSucceeded     = "payment.succeeded"
	EventAccommodationCreated = "accommodation.created"
	EventAccommodationDeleted = "accommodation.deleted"
)

type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingCanceled(ctx context.Context, booking *model.Booking)
	BookingExpired(ctx context.Context, booking *model.Booking)
	SweepEmpty(ctx context.Context)
	PaymentSucceeded(ctx context.Context, payment *model.Payment)
	AccommodationCreated(ctx context.Context, accommodation *model.Accommodation)
	AccommodationDeleted(ctx context.Context, accommodation *model.Accommodation)
}

// NoopNotifier satisfies Notifier without a broker. Used in tests and when
// the notification stream is disabled.
type NoopNotifier struct{}

func (NoopNotifier) BookingCreated(context.Context, *model.Booking)             {}
func (NoopNotifier) BookingCanceled(context.Context, *model.Booking)            {}
func (NoopNotifier) BookingExpired(context.Context, *model.Booking)             {}
func (NoopNotifier) SweepEmpty(context.Context)                                 {}
func (NoopNotifier) PaymentSucceeded(context.Context, *model.Payment)           {}
func (NoopNotifier) AccommodationCreated(context.Context, *model.Accommodation) {}
func (NoopNotifier) AccommodationDeleted(context.Context, *model.Accommodation) {}
