// Package errors defines payment domain errors.
package errors

import (
	apperrors "staybook/pkg/errors"
)

func ErrPaymentNotFound(id string) *apperrors.AppError {
	return apperrors.NotFoundWithID("Payment", id)
}

func ErrSessionNotFound(sessionID string) *apperrors.AppError {
	return apperrors.NotFoundWithID("Payment session", sessionID)
}

func ErrPaymentClosed(id, status string) *apperrors.AppError {
	return apperrors.Conflict("Payment is already settled").
		WithDetails(map[string]any{"payment_id": id, "status": status})
}

func ErrBookingNotPayable(bookingID, status string) *apperrors.AppError {
	return apperrors.Conflict("Booking is not in a payable state").
		WithDetails(map[string]any{"booking_id": bookingID, "status": status})
}

// ErrOrphanedPayment flags a payment whose booking no longer exists. That is
// a data integrity fault, not a client error.
func ErrOrphanedPayment(paymentID, bookingID string, cause error) *apperrors.AppError {
	return apperrors.Internal("Payment references a missing booking", cause).
		WithDetails(map[string]any{"payment_id": paymentID, "booking_id": bookingID})
}
