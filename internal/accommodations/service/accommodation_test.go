package service

import (
	"context"
	"net/http"
	"testing"

	"staybook/internal/notifications"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type mockStore struct {
	createFn   func(ctx context.Context, accommodation *model.Accommodation) (string, error)
	findByIDFn func(ctx context.Context, id string) (*model.Accommodation, error)
	listFn     func(ctx context.Context, accommodationType model.AccommodationType, limit int, offset int64) ([]model.Accommodation, int64, error)
	updateFn   func(ctx context.Context, id string, fields bson.M) error
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockStore) Create(ctx context.Context, accommodation *model.Accommodation) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, accommodation)
	}
	accommodation.ID = "65f0000000000000000000aa"
	return accommodation.ID, nil
}

func (m *mockStore) FindByID(ctx context.Context, id string) (*model.Accommodation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.Accommodation{
		ID: id, Type: model.AccommodationCondo, Address: "3 Pier Ave",
		Size: "70m2", DailyRate: 150, Availability: 2,
	}, nil
}

func (m *mockStore) List(ctx context.Context, accommodationType model.AccommodationType, limit int, offset int64) ([]model.Accommodation, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, accommodationType, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockStore) Update(ctx context.Context, id string, fields bson.M) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockCounter struct {
	active int64
}

func (m *mockCounter) CountActiveForAccommodation(context.Context, string) (int64, error) {
	return m.active, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatText})
}

func TestCreateSanitizesInput(t *testing.T) {
	var stored *model.Accommodation
	store := &mockStore{
		createFn: func(_ context.Context, accommodation *model.Accommodation) (string, error) {
			stored = accommodation
			accommodation.ID = "65f0000000000000000000aa"
			return accommodation.ID, nil
		},
	}
	svc := NewAccommodationService(store, &mockCounter{}, notifications.NoopNotifier{}, testLogger())

	_, err := svc.Create(context.Background(), &model.Accommodation{
		Type:         model.AccommodationHouse,
		Address:      "  12   Harbor  Lane ",
		Size:         "120m2",
		Amenities:    []string{" Free WiFi ", "free wifi", "Pool!"},
		DailyRate:    220,
		Availability: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Address != "12 Harbor Lane" {
		t.Errorf("address not sanitized: %q", stored.Address)
	}
	if len(stored.Amenities) != 2 {
		t.Errorf("amenities not deduplicated: %v", stored.Amenities)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc := NewAccommodationService(&mockStore{}, &mockCounter{}, notifications.NoopNotifier{}, testLogger())

	_, err := svc.Create(context.Background(), &model.Accommodation{
		Type:    "castle",
		Address: "1 Hill",
	})
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestUpdateAvailabilityZero(t *testing.T) {
	var gotFields bson.M
	store := &mockStore{
		updateFn: func(_ context.Context, _ string, fields bson.M) error {
			gotFields = fields
			return nil
		},
	}
	svc := NewAccommodationService(store, &mockCounter{}, notifications.NoopNotifier{}, testLogger())

	zero := 0
	_, err := svc.Update(context.Background(), "65f0000000000000000000aa", &model.AccommodationUpdate{
		Availability: &zero,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := gotFields["availability"]; !ok || v != 0 {
		t.Errorf("explicit zero availability must be persisted, got %v", gotFields)
	}
}

func TestDeleteBlockedByActiveBookings(t *testing.T) {
	svc := NewAccommodationService(&mockStore{}, &mockCounter{active: 3}, notifications.NoopNotifier{}, testLogger())

	err := svc.Delete(context.Background(), "65f0000000000000000000aa")
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestListRejectsUnknownType(t *testing.T) {
	svc := NewAccommodationService(&mockStore{}, &mockCounter{}, notifications.NoopNotifier{}, testLogger())

	_, _, err := svc.List(context.Background(), "igloo", 10, 0)
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
