// Package errors defines accommodation domain errors.
package errors

import (
	apperrors "staybook/pkg/errors"
)

func ErrAccommodationNotFound(id string) *apperrors.AppError {
	return apperrors.NotFoundWithID("Accommodation", id)
}

// ErrHasActiveBookings blocks deletion while guests still hold stays.
func ErrHasActiveBookings(id string, count int64) *apperrors.AppError {
	return apperrors.Conflict("Accommodation still has active bookings").
		WithDetails(map[string]any{"accommodation_id": id, "active_bookings": count})
}
