// Package repository implements Mongo persistence for bookings.
package repository

import (
	"context"
	"fmt"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bookingCollection = "bookings"
	defaultTimeout    = 5 * time.Second
)

type BookingRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewBookingRepository(client *mongo.Client, database string, log *logger.Logger) *BookingRepository {
	return &BookingRepository{
		collection: client.Database(database).Collection(bookingCollection),
		log:        log,
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}
	booking.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return "", fmt.Errorf("failed to insert booking: %w", err)
	}
	return booking.ID, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking %s: %w", id, err)
	}
	return &booking, nil
}

// CountActiveOverlapping counts non-deleted pending or confirmed bookings on
// the accommodation whose stay intersects [checkIn, checkOut). excludeID may
// be empty; when set, that booking is left out of the count so an update does
// not collide with itself.
func (r *BookingRepository) CountActiveOverlapping(ctx context.Context, accommodationID string, checkIn, checkOut time.Time, excludeID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"accommodation_id": accommodationID,
		"is_deleted":       false,
		"status":           bson.M{"$in": bson.A{model.BookingPending, model.BookingConfirmed}},
		"check_in_date":    bson.M{"$lt": checkOut},
		"check_out_date":   bson.M{"$gt": checkIn},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

func (r *BookingRepository) UpdateDates(ctx context.Context, id string, checkIn, checkOut time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "is_deleted": false}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s dates: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete soft-deletes the booking, keeping the document for audit.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *BookingRepository) FindByUser(ctx context.Context, userID string, status model.BookingStatus, limit int, offset int64) ([]model.Booking, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"user_id": userID, "is_deleted": false}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]model.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

// FindIDsByUser returns the IDs of every booking the user ever made,
// including soft-deleted ones, so payment history stays complete.
func (r *BookingRepository) FindIDsByUser(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to find booking ids: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode booking ids: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// CountActiveForAccommodation counts all pending or confirmed bookings on the
// accommodation regardless of dates. Used to guard accommodation deletion.
func (r *BookingRepository) CountActiveForAccommodation(ctx context.Context, accommodationID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"accommodation_id": accommodationID,
		"is_deleted":       false,
		"status":           bson.M{"$in": bson.A{model.BookingPending, model.BookingConfirmed}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

// FindExpirable returns active bookings whose checkout falls on or before
// the cutoff. The sweeper calls this once per run.
func (r *BookingRepository) FindExpirable(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"is_deleted":     false,
		"status":         bson.M{"$in": bson.A{model.BookingPending, model.BookingConfirmed}},
		"check_out_date": bson.M{"$lte": cutoff},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find expirable bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]model.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode expirable bookings: %w", err)
	}
	return bookings, nil
}

// EnsureIndexes creates the indexes the hot paths rely on. Safe to call on
// every startup.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "accommodation_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "check_in_date", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "check_out_date", Value: 1},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
