// Package service implements payment initiation and reconciliation.
package service

import (
	"context"

	"staybook/internal/notifications"
	paymenterrors "staybook/internal/payments/errors"
	"staybook/internal/payments/stripe"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentStore interface {
	Create(ctx context.Context, payment *model.Payment) (string, error)
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error)
	FindByBookingID(ctx context.Context, bookingID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error
	FindByUser(ctx context.Context, bookingIDs []string, limit int, offset int64) ([]model.Payment, int64, error)
}

// BookingResolver is the slice of the booking store the payment flow needs.
type BookingResolver interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	FindIDsByUser(ctx context.Context, userID string) ([]string, error)
}

type PaymentService struct {
	payments PaymentStore
	bookings BookingResolver
	sessions stripe.SessionProvider
	notifier notifications.Notifier
	validate *validator.Validate
	log      *logger.Logger
}

func NewPaymentService(payments PaymentStore, bookings BookingResolver, sessions stripe.SessionProvider, notifier notifications.Notifier, log *logger.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		sessions: sessions,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// CreatePayment opens a checkout session for a pending booking. A still-open
// session for the same booking is returned as is, so retrying the call does
// not spawn a second session.
func (s *PaymentService) CreatePayment(ctx context.Context, userID string, req *model.PaymentRequest) (*model.Payment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Payment request validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFoundWithID("Booking", req.BookingID)
	}
	if booking.UserID != userID {
		return nil, apperrors.Unauthorized("Booking does not belong to the requesting user")
	}
	if booking.Status != model.BookingPending {
		return nil, paymenterrors.ErrBookingNotPayable(req.BookingID, string(booking.Status))
	}

	existing, err := s.payments.FindByBookingID(ctx, req.BookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to look up existing payment", err)
	}
	if existing != nil {
		switch existing.Status {
		case model.PaymentPaid:
			return nil, paymenterrors.ErrPaymentClosed(existing.ID, string(existing.Status))
		case model.PaymentPending:
			return existing, nil
		}
		// A canceled payment gets a fresh session.
	}

	session, err := s.sessions.CreateSession(ctx, req.BookingID, req.AmountToPay)
	if err != nil {
		s.log.Error("Checkout session creation failed", "booking_id", req.BookingID, "error", err)
		return nil, apperrors.Unavailable("Payment provider")
	}

	payment := &model.Payment{
		BookingID:   req.BookingID,
		Status:      model.PaymentPending,
		AmountToPay: req.AmountToPay,
		SessionID:   session.ID,
		SessionURL:  session.URL,
	}
	if _, err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperrors.Internal("Failed to create payment", err)
	}

	s.log.Info("Payment created", "payment_id", payment.ID, "booking_id", req.BookingID, "session_id", session.ID)
	return payment, nil
}

// Success reconciles a completed checkout: the payment becomes paid and the
// booking becomes confirmed. Replayed callbacks are no-ops.
func (s *PaymentService) Success(ctx context.Context, sessionID string) (*model.Payment, error) {
	payment, err := s.payments.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load payment", err)
	}
	if payment == nil {
		return nil, paymenterrors.ErrSessionNotFound(sessionID)
	}

	if payment.Status == model.PaymentPaid {
		return payment, nil
	}
	if payment.Status == model.PaymentCanceled {
		return nil, paymenterrors.ErrPaymentClosed(payment.ID, string(payment.Status))
	}

	booking, err := s.bookings.FindByID(ctx, payment.BookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booking", err)
	}
	if booking == nil {
		return nil, paymenterrors.ErrOrphanedPayment(payment.ID, payment.BookingID, nil)
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, model.PaymentPaid); err != nil {
		return nil, apperrors.Internal("Failed to mark payment paid", err)
	}
	payment.Status = model.PaymentPaid

	if booking.Status == model.BookingPending {
		if err := s.bookings.UpdateStatus(ctx, booking.ID, model.BookingConfirmed); err != nil && err != mongo.ErrNoDocuments {
			return nil, apperrors.Internal("Failed to confirm booking", err)
		}
	}

	s.log.Info("Payment succeeded", "payment_id", payment.ID, "booking_id", payment.BookingID)
	s.notifier.PaymentSucceeded(ctx, payment)
	return payment, nil
}

// Cancel reconciles an abandoned checkout: the payment and the booking both
// become canceled. Cancellations are deliberate, so no notification goes out.
func (s *PaymentService) Cancel(ctx context.Context, sessionID string) (*model.Payment, error) {
	payment, err := s.payments.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load payment", err)
	}
	if payment == nil {
		return nil, paymenterrors.ErrSessionNotFound(sessionID)
	}

	if payment.Status == model.PaymentCanceled {
		return payment, nil
	}
	if payment.Status == model.PaymentPaid {
		return nil, paymenterrors.ErrPaymentClosed(payment.ID, string(payment.Status))
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, model.PaymentCanceled); err != nil {
		return nil, apperrors.Internal("Failed to cancel payment", err)
	}
	payment.Status = model.PaymentCanceled

	booking, err := s.bookings.FindByID(ctx, payment.BookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booking", err)
	}
	if booking != nil && booking.Status.IsActive() {
		if err := s.bookings.UpdateStatus(ctx, booking.ID, model.BookingCanceled); err != nil && err != mongo.ErrNoDocuments {
			return nil, apperrors.Internal("Failed to cancel booking", err)
		}
	}

	s.log.Info("Payment canceled", "payment_id", payment.ID, "booking_id", payment.BookingID)
	return payment, nil
}

func (s *PaymentService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]model.Payment, int64, error) {
	bookingIDs, err := s.bookings.FindIDsByUser(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to resolve user bookings", err)
	}
	if len(bookingIDs) == 0 {
		return []model.Payment{}, 0, nil
	}

	payments, total, err := s.payments.FindByUser(ctx, bookingIDs, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list payments", err)
	}
	return payments, total, nil
}
