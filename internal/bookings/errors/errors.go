// Package errors defines booking domain errors.
package errors

import (
	apperrors "staybook/pkg/errors"
)

func ErrBookingNotFound(id string) *apperrors.AppError {
	return apperrors.NotFoundWithID("Booking", id)
}

func ErrAccommodationNotFound(id string) *apperrors.AppError {
	return apperrors.NotFoundWithID("Accommodation", id)
}

// ErrNoAvailability is returned when every unit of the accommodation is
// already taken by an active booking for some night of the requested stay.
func ErrNoAvailability(accommodationID string) *apperrors.AppError {
	return apperrors.Conflict("Accommodation is not available for the requested dates").
		WithDetails(map[string]any{"accommodation_id": accommodationID})
}

// ErrBookingInProgress is returned when another request currently holds the
// advisory lock for the same accommodation.
func ErrBookingInProgress(accommodationID string) *apperrors.AppError {
	return apperrors.Conflict("Accommodation is being booked by another request, retry shortly").
		WithDetails(map[string]any{"accommodation_id": accommodationID})
}

func ErrInvalidTransition(from, to string) *apperrors.AppError {
	return apperrors.Conflict("Booking status transition is not allowed").
		WithDetails(map[string]any{"from": from, "to": to})
}

func ErrBookingClosed(id, status string) *apperrors.AppError {
	return apperrors.Conflict("Booking is closed and can no longer be modified").
		WithDetails(map[string]any{"booking_id": id, "status": status})
}

func ErrNotOwner(id string) *apperrors.AppError {
	return apperrors.Unauthorized("Booking does not belong to the requesting user").
		WithDetails(map[string]any{"booking_id": id})
}
