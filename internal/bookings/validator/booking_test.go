package validator

import (
	"net/http"
	"testing"
	"time"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
)

func day(offset int) time.Time {
	t := time.Now().UTC().AddDate(0, 0, offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func TestValidateCreate(t *testing.T) {
	v := NewBookingValidator()

	tests := []struct {
		name     string
		booking  model.Booking
		wantCode int
	}{
		{
			name: "valid",
			booking: model.Booking{
				AccommodationID: "65f0000000000000000000aa",
				UserID:          "user-1",
				CheckInDate:     day(3),
				CheckOutDate:    day(6),
				Status:          model.BookingPending,
			},
		},
		{
			name: "missing accommodation",
			booking: model.Booking{
				UserID:       "user-1",
				CheckInDate:  day(3),
				CheckOutDate: day(6),
				Status:       model.BookingPending,
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "check-in in the past",
			booking: model.Booking{
				AccommodationID: "65f0000000000000000000aa",
				UserID:          "user-1",
				CheckInDate:     day(-1),
				CheckOutDate:    day(6),
				Status:          model.BookingPending,
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "zero-length stay",
			booking: model.Booking{
				AccommodationID: "65f0000000000000000000aa",
				UserID:          "user-1",
				CheckInDate:     day(3),
				CheckOutDate:    day(3),
				Status:          model.BookingPending,
			},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateCreate(&tc.booking)
			if tc.wantCode == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := err.(*apperrors.AppError)
			if !ok || appErr.StatusCode() != tc.wantCode {
				t.Fatalf("expected status %d, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewBookingValidator()
	checkIn, checkOut := day(3), day(6)

	if err := v.ValidateUpdate(&model.BookingUpdate{CheckInDate: &checkIn, CheckOutDate: &checkOut}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.ValidateUpdate(&model.BookingUpdate{}); err == nil {
		t.Error("empty update must be rejected")
	}

	// Dates must travel as a pair.
	if err := v.ValidateUpdate(&model.BookingUpdate{CheckInDate: &checkIn}); err == nil {
		t.Error("lone check-in date must be rejected")
	}

	if err := v.ValidateUpdate(&model.BookingUpdate{Status: "unknown"}); err == nil {
		t.Error("unknown status must be rejected")
	}
}
