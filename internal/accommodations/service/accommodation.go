// Package service implements accommodation management.
package service

import (
	"context"

	accommodationerrors "staybook/internal/accommodations/errors"
	"staybook/internal/notifications"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AccommodationStore interface {
	Create(ctx context.Context, accommodation *model.Accommodation) (string, error)
	FindByID(ctx context.Context, id string) (*model.Accommodation, error)
	List(ctx context.Context, accommodationType model.AccommodationType, limit int, offset int64) ([]model.Accommodation, int64, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

// ActiveBookingCounter reports how many active bookings reference an
// accommodation. Deleting a listing with guests still booked is refused.
type ActiveBookingCounter interface {
	CountActiveForAccommodation(ctx context.Context, accommodationID string) (int64, error)
}

type AccommodationService struct {
	store    AccommodationStore
	bookings ActiveBookingCounter
	notifier notifications.Notifier
	validate *validator.Validate
	log      *logger.Logger
}

func NewAccommodationService(store AccommodationStore, bookings ActiveBookingCounter, notifier notifications.Notifier, log *logger.Logger) *AccommodationService {
	return &AccommodationService{
		store:    store,
		bookings: bookings,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (s *AccommodationService) Create(ctx context.Context, accommodation *model.Accommodation) (*model.Accommodation, error) {
	accommodation.Address = sanitizer.SanitizeAddress(accommodation.Address)
	accommodation.Amenities = sanitizer.SanitizeSlice(accommodation.Amenities, sanitizer.SanitizeAmenity)
	accommodation.IsDeleted = false

	if err := s.validate.Struct(accommodation); err != nil {
		return nil, apperrors.Validation("Accommodation validation failed", validationDetails(err))
	}

	if _, err := s.store.Create(ctx, accommodation); err != nil {
		return nil, apperrors.Internal("Failed to create accommodation", err)
	}

	s.log.Info("Accommodation created", "accommodation_id", accommodation.ID, "type", accommodation.Type)
	s.notifier.AccommodationCreated(ctx, accommodation)
	return accommodation, nil
}

func (s *AccommodationService) GetByID(ctx context.Context, id string) (*model.Accommodation, error) {
	accommodation, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load accommodation", err)
	}
	if accommodation == nil {
		return nil, accommodationerrors.ErrAccommodationNotFound(id)
	}
	return accommodation, nil
}

func (s *AccommodationService) List(ctx context.Context, typeFilter string, limit int, offset int64) ([]model.Accommodation, int64, error) {
	var accommodationType model.AccommodationType
	if typeFilter != "" {
		parsed, err := model.ParseAccommodationType(typeFilter)
		if err != nil {
			return nil, 0, apperrors.InvalidInput("Unknown accommodation type filter: " + typeFilter)
		}
		accommodationType = parsed
	}

	accommodations, total, err := s.store.List(ctx, accommodationType, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list accommodations", err)
	}
	return accommodations, total, nil
}

func (s *AccommodationService) Update(ctx context.Context, id string, update *model.AccommodationUpdate) (*model.Accommodation, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, apperrors.Validation("Accommodation update validation failed", validationDetails(err))
	}

	fields := bson.M{}
	if update.Address != "" {
		fields["address"] = sanitizer.SanitizeAddress(update.Address)
	}
	if update.Size != "" {
		fields["size"] = update.Size
	}
	if update.Amenities != nil {
		fields["amenities"] = sanitizer.SanitizeSlice(*update.Amenities, sanitizer.SanitizeAmenity)
	}
	if update.DailyRate != nil {
		fields["daily_rate"] = *update.DailyRate
	}
	if update.Availability != nil {
		// Zero is allowed: the listing stays visible but accepts no new bookings.
		fields["availability"] = *update.Availability
	}
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("Accommodation update must change at least one field")
	}

	if err := s.store.Update(ctx, id, fields); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, accommodationerrors.ErrAccommodationNotFound(id)
		}
		return nil, apperrors.Internal("Failed to update accommodation", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AccommodationService) Delete(ctx context.Context, id string) error {
	accommodation, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.bookings.CountActiveForAccommodation(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to count active bookings", err)
	}
	if active > 0 {
		return accommodationerrors.ErrHasActiveBookings(id, active)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return accommodationerrors.ErrAccommodationNotFound(id)
		}
		return apperrors.Internal("Failed to delete accommodation", err)
	}

	s.log.Info("Accommodation deleted", "accommodation_id", id)
	s.notifier.AccommodationDeleted(ctx, accommodation)
	return nil
}

func validationDetails(err error) map[string]any {
	details := make(map[string]any)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}
