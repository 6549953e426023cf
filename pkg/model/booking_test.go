package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseBookingStatus(t *testing.T) {
	for _, valid := range []string{"pending", "confirmed", "canceled", "expired"} {
		if _, err := ParseBookingStatus(valid); err != nil {
			t.Errorf("ParseBookingStatus(%q) returned error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "PENDING", "done", "cancelled"} {
		if _, err := ParseBookingStatus(invalid); err == nil {
			t.Errorf("ParseBookingStatus(%q) expected error, got none", invalid)
		}
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCanceled, true},
		{BookingPending, BookingExpired, true},
		{BookingConfirmed, BookingCanceled, true},
		{BookingConfirmed, BookingExpired, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCanceled, BookingPending, false},
		{BookingCanceled, BookingConfirmed, false},
		{BookingExpired, BookingConfirmed, false},
		{BookingExpired, BookingCanceled, false},
		// re-asserting the current state is a no-op, not a violation
		{BookingPending, BookingPending, true},
		{BookingCanceled, BookingCanceled, true},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStatusIsActive(t *testing.T) {
	if !BookingPending.IsActive() || !BookingConfirmed.IsActive() {
		t.Error("pending and confirmed must count against availability")
	}
	if BookingCanceled.IsActive() || BookingExpired.IsActive() {
		t.Error("canceled and expired must never count against availability")
	}
}

func TestBookingOverlaps(t *testing.T) {
	b := &Booking{
		CheckInDate:  date(2024, 3, 18),
		CheckOutDate: date(2024, 3, 25),
	}

	if !b.Overlaps(date(2024, 3, 20), date(2024, 3, 22)) {
		t.Error("range inside the stay must overlap")
	}
	if !b.Overlaps(date(2024, 3, 10), date(2024, 3, 19)) {
		t.Error("range covering the check-in day must overlap")
	}
	// half-open: checkout day is free for the next guest
	if b.Overlaps(date(2024, 3, 25), date(2024, 3, 30)) {
		t.Error("range starting on the checkout day must not overlap")
	}
	if b.Overlaps(date(2024, 3, 10), date(2024, 3, 18)) {
		t.Error("range ending on the check-in day must not overlap")
	}
}
