// Package validator validates booking input at the service boundary.
package validator

import (
	"time"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *BookingValidator) ValidateCreate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		return apperrors.Validation("Booking validation failed", fieldDetails(err))
	}
	return v.validateDates(booking.CheckInDate, booking.CheckOutDate)
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return apperrors.Validation("Booking update validation failed", fieldDetails(err))
	}
	if update.CheckInDate == nil && update.CheckOutDate == nil && update.Status == "" {
		return apperrors.InvalidInput("Booking update must change at least one field")
	}
	// Dates travel as a pair so the interval stays well formed.
	if (update.CheckInDate == nil) != (update.CheckOutDate == nil) {
		return apperrors.InvalidInput("Both check-in and check-out dates must be provided together")
	}
	if update.CheckInDate != nil {
		return v.validateDates(*update.CheckInDate, *update.CheckOutDate)
	}
	return nil
}

func (v *BookingValidator) validateDates(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return apperrors.Validation("Check-out date must be after check-in date", map[string]any{
			"check_in_date":  checkIn,
			"check_out_date": checkOut,
		})
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return apperrors.Validation("Check-in date must not be in the past", map[string]any{
			"check_in_date": checkIn,
		})
	}
	return nil
}

func fieldDetails(err error) map[string]any {
	details := make(map[string]any)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}
