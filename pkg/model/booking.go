package model

import (
	"fmt"
	"time"
)

// BookingStatus is the closed set of booking lifecycle states. Raw strings
// coming from the API are decoded exactly once, at the boundary, via
// ParseBookingStatus; everything below the handlers only ever sees one of
// these values.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
	BookingExpired   BookingStatus = "expired"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCanceled, BookingExpired:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// IsActive reports whether a booking in this state counts against an
// accommodation's availability.
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

// IsTerminal reports whether this state permits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCanceled || s == BookingExpired
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// transition. Re-asserting the current state is always allowed, terminal
// states allow nothing else.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCanceled || next == BookingExpired
	case BookingConfirmed:
		return next == BookingCanceled || next == BookingExpired
	}
	return false
}

type Booking struct {
	ID              string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AccommodationID string        `json:"accommodation_id" bson:"accommodation_id" validate:"required,mongodb"`
	UserID          string        `json:"user_id" bson:"user_id" validate:"required"`
	CheckInDate     time.Time     `json:"check_in_date" bson:"check_in_date" validate:"required"`
	CheckOutDate    time.Time     `json:"check_out_date" bson:"check_out_date" validate:"required,gtfield=CheckInDate"`
	Status          BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed canceled expired"`
	IsDeleted       bool          `json:"-" bson:"is_deleted"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Overlaps applies the half-open interval test: a stay ending the day
// another begins does not overlap.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckInDate.Before(checkOut) && b.CheckOutDate.After(checkIn)
}

// BookingUpdate carries the mutable booking fields for PATCH requests.
// Nil / empty fields are left untouched. Status arrives as a raw string and
// is parsed at the service boundary before any transition check.
type BookingUpdate struct {
	CheckInDate  *time.Time `json:"check_in_date,omitempty" validate:"omitempty"`
	CheckOutDate *time.Time `json:"check_out_date,omitempty" validate:"omitempty"`
	Status       string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed canceled expired"`
}
