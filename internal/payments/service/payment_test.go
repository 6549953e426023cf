package service

import (
	"context"
	"net/http"
	"testing"

	"staybook/internal/notifications"
	"staybook/internal/payments/stripe"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type mockPaymentStore struct {
	createFn        func(ctx context.Context, payment *model.Payment) (string, error)
	findBySessionFn func(ctx context.Context, sessionID string) (*model.Payment, error)
	findByBookingFn func(ctx context.Context, bookingID string) (*model.Payment, error)
	updateStatusFn  func(ctx context.Context, id string, status model.PaymentStatus) error
}

func (m *mockPaymentStore) Create(ctx context.Context, payment *model.Payment) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, payment)
	}
	payment.ID = "65f000000000000000000099"
	return payment.ID, nil
}

func (m *mockPaymentStore) FindByID(context.Context, string) (*model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentStore) FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	if m.findBySessionFn != nil {
		return m.findBySessionFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockPaymentStore) FindByBookingID(ctx context.Context, bookingID string) (*model.Payment, error) {
	if m.findByBookingFn != nil {
		return m.findByBookingFn(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockPaymentStore) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockPaymentStore) FindByUser(context.Context, []string, int, int64) ([]model.Payment, int64, error) {
	return nil, 0, nil
}

type mockBookingResolver struct {
	findByIDFn     func(ctx context.Context, id string) (*model.Booking, error)
	updateStatusFn func(ctx context.Context, id string, status model.BookingStatus) error
	idsFn          func(ctx context.Context, userID string) ([]string, error)
}

func (m *mockBookingResolver) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.Booking{ID: id, UserID: "user-1", Status: model.BookingPending}, nil
}

func (m *mockBookingResolver) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockBookingResolver) FindIDsByUser(ctx context.Context, userID string) ([]string, error) {
	if m.idsFn != nil {
		return m.idsFn(ctx, userID)
	}
	return nil, nil
}

type mockSessions struct {
	createFn func(ctx context.Context, bookingID string, amount float64) (*stripe.Session, error)
}

func (m *mockSessions) CreateSession(ctx context.Context, bookingID string, amount float64) (*stripe.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, bookingID, amount)
	}
	return &stripe.Session{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

type recordingNotifier struct {
	notifications.NoopNotifier
	succeeded int
}

func (n *recordingNotifier) PaymentSucceeded(context.Context, *model.Payment) { n.succeeded++ }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatText})
}

const testBookingID = "65f000000000000000000001"

func TestCreatePayment(t *testing.T) {
	payments := &mockPaymentStore{}
	svc := NewPaymentService(payments, &mockBookingResolver{}, &mockSessions{}, &recordingNotifier{}, testLogger())

	payment, err := svc.CreatePayment(context.Background(), "user-1", &model.PaymentRequest{
		BookingID:   testBookingID,
		AmountToPay: 360,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != model.PaymentPending {
		t.Errorf("expected pending payment, got %s", payment.Status)
	}
	if payment.SessionID != "cs_test_1" {
		t.Errorf("expected session id, got %q", payment.SessionID)
	}
}

func TestCreatePaymentReusesOpenSession(t *testing.T) {
	sessionCalls := 0
	payments := &mockPaymentStore{
		findByBookingFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{
				ID: "65f000000000000000000099", BookingID: testBookingID,
				Status: model.PaymentPending, SessionID: "cs_old",
			}, nil
		},
	}
	sessions := &mockSessions{
		createFn: func(context.Context, string, float64) (*stripe.Session, error) {
			sessionCalls++
			return &stripe.Session{ID: "cs_new"}, nil
		},
	}
	svc := NewPaymentService(payments, &mockBookingResolver{}, sessions, &recordingNotifier{}, testLogger())

	payment, err := svc.CreatePayment(context.Background(), "user-1", &model.PaymentRequest{
		BookingID:   testBookingID,
		AmountToPay: 360,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.SessionID != "cs_old" {
		t.Errorf("expected the open session to be reused, got %q", payment.SessionID)
	}
	if sessionCalls != 0 {
		t.Errorf("no new session expected, got %d", sessionCalls)
	}
}

func TestCreatePaymentRejectsNonPendingBooking(t *testing.T) {
	bookings := &mockBookingResolver{
		findByIDFn: func(_ context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: "user-1", Status: model.BookingConfirmed}, nil
		},
	}
	svc := NewPaymentService(&mockPaymentStore{}, bookings, &mockSessions{}, &recordingNotifier{}, testLogger())

	_, err := svc.CreatePayment(context.Background(), "user-1", &model.PaymentRequest{
		BookingID:   testBookingID,
		AmountToPay: 360,
	})
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestSuccessConfirmsBooking(t *testing.T) {
	var paymentStatus model.PaymentStatus
	var bookingStatus model.BookingStatus

	payments := &mockPaymentStore{
		findBySessionFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{
				ID: "65f000000000000000000099", BookingID: testBookingID,
				Status: model.PaymentPending, SessionID: "cs_test_1",
			}, nil
		},
		updateStatusFn: func(_ context.Context, _ string, status model.PaymentStatus) error {
			paymentStatus = status
			return nil
		},
	}
	bookings := &mockBookingResolver{
		updateStatusFn: func(_ context.Context, _ string, status model.BookingStatus) error {
			bookingStatus = status
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := NewPaymentService(payments, bookings, &mockSessions{}, notifier, testLogger())

	payment, err := svc.Success(context.Background(), "cs_test_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != model.PaymentPaid || paymentStatus != model.PaymentPaid {
		t.Errorf("expected paid payment, got %s", payment.Status)
	}
	if bookingStatus != model.BookingConfirmed {
		t.Errorf("expected confirmed booking, got %s", bookingStatus)
	}
	if notifier.succeeded != 1 {
		t.Errorf("expected 1 success notification, got %d", notifier.succeeded)
	}
}

func TestSuccessIsIdempotent(t *testing.T) {
	updates := 0
	payments := &mockPaymentStore{
		findBySessionFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{
				ID: "65f000000000000000000099", BookingID: testBookingID,
				Status: model.PaymentPaid, SessionID: "cs_test_1",
			}, nil
		},
		updateStatusFn: func(context.Context, string, model.PaymentStatus) error {
			updates++
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := NewPaymentService(payments, &mockBookingResolver{}, &mockSessions{}, notifier, testLogger())

	if _, err := svc.Success(context.Background(), "cs_test_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates != 0 {
		t.Errorf("replayed callback must not write, got %d updates", updates)
	}
	if notifier.succeeded != 0 {
		t.Errorf("replayed callback must not notify, got %d", notifier.succeeded)
	}
}

func TestSuccessUnknownSession(t *testing.T) {
	svc := NewPaymentService(&mockPaymentStore{}, &mockBookingResolver{}, &mockSessions{}, &recordingNotifier{}, testLogger())

	_, err := svc.Success(context.Background(), "cs_missing")
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.StatusCode() != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestSuccessOrphanedPayment(t *testing.T) {
	payments := &mockPaymentStore{
		findBySessionFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{
				ID: "65f000000000000000000099", BookingID: testBookingID,
				Status: model.PaymentPending, SessionID: "cs_test_1",
			}, nil
		},
	}
	bookings := &mockBookingResolver{
		findByIDFn: func(context.Context, string) (*model.Booking, error) {
			return nil, nil
		},
	}
	svc := NewPaymentService(payments, bookings, &mockSessions{}, &recordingNotifier{}, testLogger())

	_, err := svc.Success(context.Background(), "cs_test_1")
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("expected integrity fault, got %v", err)
	}
}

func TestCancelCancelsBookingWithoutNotification(t *testing.T) {
	var bookingStatus model.BookingStatus
	payments := &mockPaymentStore{
		findBySessionFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{
				ID: "65f000000000000000000099", BookingID: testBookingID,
				Status: model.PaymentPending, SessionID: "cs_test_1",
			}, nil
		},
	}
	bookings := &mockBookingResolver{
		updateStatusFn: func(_ context.Context, _ string, status model.BookingStatus) error {
			bookingStatus = status
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := NewPaymentService(payments, bookings, &mockSessions{}, notifier, testLogger())

	payment, err := svc.Cancel(context.Background(), "cs_test_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != model.PaymentCanceled {
		t.Errorf("expected canceled payment, got %s", payment.Status)
	}
	if bookingStatus != model.BookingCanceled {
		t.Errorf("expected canceled booking, got %s", bookingStatus)
	}
	if notifier.succeeded != 0 {
		t.Errorf("cancel must not notify, got %d", notifier.succeeded)
	}
}

func TestCancelAfterPaidIsConflict(t *testing.T) {
	payments := &mockPaymentStore{
		findBySessionFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{
				ID: "65f000000000000000000099", BookingID: testBookingID,
				Status: model.PaymentPaid, SessionID: "cs_test_1",
			}, nil
		},
	}
	svc := NewPaymentService(payments, &mockBookingResolver{}, &mockSessions{}, &recordingNotifier{}, testLogger())

	_, err := svc.Cancel(context.Background(), "cs_test_1")
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}
