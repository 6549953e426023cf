package sweeper

import (
	"context"
	"testing"
	"time"

	"staybook/internal/notifications"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type mockBookingStore struct {
	findExpirableFn func(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	statusUpdates   map[string]model.BookingStatus
}

func (m *mockBookingStore) FindExpirable(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	if m.findExpirableFn != nil {
		return m.findExpirableFn(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockBookingStore) UpdateStatus(_ context.Context, id string, status model.BookingStatus) error {
	if m.statusUpdates == nil {
		m.statusUpdates = make(map[string]model.BookingStatus)
	}
	m.statusUpdates[id] = status
	return nil
}

type mockLockStore struct {
	held     bool
	released int
}

func (m *mockLockStore) Acquire(context.Context, string, time.Duration) (bool, error) {
	return !m.held, nil
}

func (m *mockLockStore) Release(context.Context, string) error {
	m.released++
	return nil
}

type recordingNotifier struct {
	notifications.NoopNotifier
	expired []string
	empty   int
}

func (n *recordingNotifier) BookingExpired(_ context.Context, booking *model.Booking) {
	n.expired = append(n.expired, booking.ID)
}

func (n *recordingNotifier) SweepEmpty(context.Context) { n.empty++ }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatText})
}

func newTestSweeper(bookings *mockBookingStore, locks *mockLockStore, notifier notifications.Notifier) *Sweeper {
	return NewSweeper(bookings, locks, notifier, 10*time.Minute, 24*time.Hour, testLogger())
}

func day(base time.Time, offset int) time.Time {
	return base.AddDate(0, 0, offset)
}

func TestSweepExpiresStaleBookings(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	bookings := &mockBookingStore{
		findExpirableFn: func(_ context.Context, cutoff time.Time) ([]model.Booking, error) {
			want := day(today, 1)
			if !cutoff.Equal(want) {
				t.Errorf("expected cutoff %v, got %v", want, cutoff)
			}
			return []model.Booking{
				{ID: "b1", Status: model.BookingPending, CheckOutDate: day(today, -1)},
				{ID: "b2", Status: model.BookingConfirmed, CheckOutDate: day(today, 0)},
			}, nil
		},
	}
	locks := &mockLockStore{}
	notifier := &recordingNotifier{}
	sw := newTestSweeper(bookings, locks, notifier)

	expired, err := sw.Sweep(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 2 {
		t.Errorf("expected 2 expirations, got %d", expired)
	}
	for _, id := range []string{"b1", "b2"} {
		if bookings.statusUpdates[id] != model.BookingExpired {
			t.Errorf("booking %s not expired, got %q", id, bookings.statusUpdates[id])
		}
	}
	if len(notifier.expired) != 2 {
		t.Errorf("expected 2 expiration notifications, got %d", len(notifier.expired))
	}
	if locks.released != 1 {
		t.Errorf("expected lock release, got %d", locks.released)
	}
}

func TestSweepSkipsTerminalBookings(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	bookings := &mockBookingStore{
		findExpirableFn: func(context.Context, time.Time) ([]model.Booking, error) {
			return []model.Booking{
				{ID: "b1", Status: model.BookingCanceled},
				{ID: "b2", Status: model.BookingExpired},
				{ID: "b3", Status: model.BookingPending},
			}, nil
		},
	}
	notifier := &recordingNotifier{}
	sw := newTestSweeper(bookings, &mockLockStore{}, notifier)

	expired, err := sw.Sweep(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 1 {
		t.Errorf("expected 1 expiration, got %d", expired)
	}
	if _, touched := bookings.statusUpdates["b1"]; touched {
		t.Error("canceled booking must not be rewritten")
	}
	if _, touched := bookings.statusUpdates["b2"]; touched {
		t.Error("already expired booking must not be rewritten")
	}
	if len(notifier.expired) != 1 || notifier.expired[0] != "b3" {
		t.Errorf("only b3 should notify, got %v", notifier.expired)
	}
}

func TestSweepEmptyNotifies(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{}
	sw := newTestSweeper(&mockBookingStore{}, &mockLockStore{}, notifier)

	expired, err := sw.Sweep(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 0 {
		t.Errorf("expected no expirations, got %d", expired)
	}
	if notifier.empty != 1 {
		t.Errorf("expected empty-sweep notification, got %d", notifier.empty)
	}
}

func TestSweepSkipsWhenLockHeld(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	bookings := &mockBookingStore{
		findExpirableFn: func(context.Context, time.Time) ([]model.Booking, error) {
			t.Fatal("sweep must not query while the lock is held")
			return nil, nil
		},
	}
	sw := newTestSweeper(bookings, &mockLockStore{held: true}, &recordingNotifier{})

	expired, err := sw.Sweep(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 0 {
		t.Errorf("expected no expirations, got %d", expired)
	}
}
