// Package service implements the booking lifecycle.
package service

import (
	"context"
	"time"

	bookingerrors "staybook/internal/bookings/errors"
	"staybook/internal/bookings/validator"
	"staybook/internal/notifications"
	mongodb "staybook/pkg/db/mongo"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) (string, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	CountActiveOverlapping(ctx context.Context, accommodationID string, checkIn, checkOut time.Time, excludeID string) (int64, error)
	UpdateDates(ctx context.Context, id string, checkIn, checkOut time.Time) error
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	Delete(ctx context.Context, id string) error
	FindByUser(ctx context.Context, userID string, status model.BookingStatus, limit int, offset int64) ([]model.Booking, int64, error)
}

type LockStore interface {
	Acquire(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, id string) error
}

type AccommodationReader interface {
	FindByID(ctx context.Context, id string) (*model.Accommodation, error)
}

type BookingService struct {
	bookings       BookingStore
	locks          LockStore
	accommodations AccommodationReader
	tx             mongodb.TransactionManager
	notifier       notifications.Notifier
	validator      *validator.BookingValidator
	lockTTL        time.Duration
	log            *logger.Logger
}

func NewBookingService(
	bookings BookingStore,
	locks LockStore,
	accommodations AccommodationReader,
	tx mongodb.TransactionManager,
	notifier notifications.Notifier,
	lockTTL time.Duration,
	log *logger.Logger,
) *BookingService {
	return &BookingService{
		bookings:       bookings,
		locks:          locks,
		accommodations: accommodations,
		tx:             tx,
		notifier:       notifier,
		validator:      validator.NewBookingValidator(),
		lockTTL:        lockTTL,
		log:            log,
	}
}

func accommodationLockID(accommodationID string) string {
	return "accommodation:" + accommodationID
}

// normalizeDate drops the time-of-day component. Bookings are per night, so
// all interval math runs on UTC midnights.
func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create books a stay. The availability check and the insert run inside one
// transaction, under a per-accommodation advisory lock, so two concurrent
// requests for the last unit cannot both succeed.
func (s *BookingService) Create(ctx context.Context, userID string, booking *model.Booking) (*model.Booking, error) {
	booking.UserID = userID
	booking.Status = model.BookingPending
	booking.IsDeleted = false
	booking.CheckInDate = normalizeDate(booking.CheckInDate)
	booking.CheckOutDate = normalizeDate(booking.CheckOutDate)

	if err := s.validator.ValidateCreate(booking); err != nil {
		return nil, err
	}

	accommodation, err := s.accommodations.FindByID(ctx, booking.AccommodationID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load accommodation", err)
	}
	if accommodation == nil {
		return nil, bookingerrors.ErrAccommodationNotFound(booking.AccommodationID)
	}
	if accommodation.Availability == 0 {
		return nil, bookingerrors.ErrNoAvailability(booking.AccommodationID)
	}

	release, err := s.acquireLock(ctx, accommodationLockID(booking.AccommodationID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.tx.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		count, err := s.bookings.CountActiveOverlapping(sessCtx, booking.AccommodationID, booking.CheckInDate, booking.CheckOutDate, "")
		if err != nil {
			return apperrors.Internal("Failed to check availability", err)
		}
		if count >= int64(accommodation.Availability) {
			return bookingerrors.ErrNoAvailability(booking.AccommodationID)
		}
		if _, err := s.bookings.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		"booking_id", booking.ID,
		"accommodation_id", booking.AccommodationID,
		"user_id", userID,
	)
	s.notifier.BookingCreated(ctx, booking)
	return booking, nil
}

func (s *BookingService) acquireLock(ctx context.Context, lockID string) (func(), error) {
	acquired, err := s.locks.Acquire(ctx, lockID, s.lockTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}
	if !acquired {
		return nil, bookingerrors.ErrBookingInProgress(lockID)
	}
	release := func() {
		// The request context may already be canceled by the time we release.
		releaseCtx := context.WithoutCancel(ctx)
		if err := s.locks.Release(releaseCtx, lockID); err != nil {
			s.log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
		}
	}
	return release, nil
}

func (s *BookingService) GetByID(ctx context.Context, userID, id string) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booking", err)
	}
	if booking == nil {
		return nil, bookingerrors.ErrBookingNotFound(id)
	}
	if booking.UserID != userID {
		return nil, bookingerrors.ErrNotOwner(id)
	}
	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID, statusFilter string, limit int, offset int64) ([]model.Booking, int64, error) {
	var status model.BookingStatus
	if statusFilter != "" {
		parsed, err := model.ParseBookingStatus(statusFilter)
		if err != nil {
			return nil, 0, apperrors.InvalidInput("Unknown booking status filter: " + statusFilter)
		}
		status = parsed
	}

	bookings, total, err := s.bookings.FindByUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", err)
	}
	return bookings, total, nil
}

// Update applies date and status changes. Date changes re-run the
// availability check under the accommodation lock, excluding the booking
// itself so it does not conflict with its own old dates.
func (s *BookingService) Update(ctx context.Context, userID, id string, update *model.BookingUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, err
	}

	booking, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, bookingerrors.ErrBookingClosed(id, string(booking.Status))
	}

	var nextStatus model.BookingStatus
	if update.Status != "" {
		parsed, err := model.ParseBookingStatus(update.Status)
		if err != nil {
			return nil, apperrors.InvalidInput("Unknown booking status: " + update.Status)
		}
		if !booking.Status.CanTransitionTo(parsed) {
			return nil, bookingerrors.ErrInvalidTransition(string(booking.Status), string(parsed))
		}
		nextStatus = parsed
	}

	if update.CheckInDate != nil {
		checkIn := normalizeDate(*update.CheckInDate)
		checkOut := normalizeDate(*update.CheckOutDate)

		accommodation, err := s.accommodations.FindByID(ctx, booking.AccommodationID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load accommodation", err)
		}
		if accommodation == nil {
			return nil, bookingerrors.ErrAccommodationNotFound(booking.AccommodationID)
		}

		release, err := s.acquireLock(ctx, accommodationLockID(booking.AccommodationID))
		if err != nil {
			return nil, err
		}
		defer release()

		err = s.tx.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			count, err := s.bookings.CountActiveOverlapping(sessCtx, booking.AccommodationID, checkIn, checkOut, id)
			if err != nil {
				return apperrors.Internal("Failed to check availability", err)
			}
			if count >= int64(accommodation.Availability) {
				return bookingerrors.ErrNoAvailability(booking.AccommodationID)
			}
			if err := s.bookings.UpdateDates(sessCtx, id, checkIn, checkOut); err != nil {
				if err == mongo.ErrNoDocuments {
					return bookingerrors.ErrBookingNotFound(id)
				}
				return apperrors.Internal("Failed to update booking dates", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		booking.CheckInDate = checkIn
		booking.CheckOutDate = checkOut
	}

	if nextStatus != "" && nextStatus != booking.Status {
		if err := s.bookings.UpdateStatus(ctx, id, nextStatus); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, bookingerrors.ErrBookingNotFound(id)
			}
			return nil, apperrors.Internal("Failed to update booking status", err)
		}
		previous := booking.Status
		booking.Status = nextStatus

		s.log.Info("Booking status changed",
			"booking_id", id,
			"from", previous,
			"to", nextStatus,
		)
		if nextStatus == model.BookingCanceled {
			s.notifier.BookingCanceled(ctx, booking)
		}
	}

	return booking, nil
}

// Delete cancels an active booking and soft-deletes it.
func (s *BookingService) Delete(ctx context.Context, userID, id string) error {
	booking, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if booking.Status.IsActive() {
		if err := s.bookings.UpdateStatus(ctx, id, model.BookingCanceled); err != nil && err != mongo.ErrNoDocuments {
			return apperrors.Internal("Failed to cancel booking", err)
		}
		booking.Status = model.BookingCanceled
		s.notifier.BookingCanceled(ctx, booking)
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return bookingerrors.ErrBookingNotFound(id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.log.Info("Booking deleted", "booking_id", id, "user_id", userID)
	return nil
}
