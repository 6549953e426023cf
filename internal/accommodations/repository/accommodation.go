// Package repository implements Mongo persistence for accommodations.
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
	accommodationCollection = "accommodations"
	defaultTimeout          = 5 * time.Second
)

type AccommodationRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewAccommodationRepository(client *mongo.Client, database string, log *logger.Logger) *AccommodationRepository {
	return &AccommodationRepository{
		collection: client.Database(database).Collection(accommodationCollection),
		log:        log,
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

func (r *AccommodationRepository) Create(ctx context.Context, accommodation *model.Accommodation) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if accommodation.ID == "" {
		accommodation.ID = primitive.NewObjectID().Hex()
	}
	accommodation.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, accommodation); err != nil {
		return "", fmt.Errorf("failed to insert accommodation: %w", err)
	}
	return accommodation.ID, nil
}

func (r *AccommodationRepository) FindByID(ctx context.Context, id string) (*model.Accommodation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var accommodation model.Accommodation
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&accommodation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find accommodation %s: %w", id, err)
	}
	return &accommodation, nil
}

func (r *AccommodationRepository) List(ctx context.Context, accommodationType model.AccommodationType, limit int, offset int64) ([]model.Accommodation, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"is_deleted": false}
	if accommodationType != "" {
		filter["type"] = accommodationType
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count accommodations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accommodations: %w", err)
	}
	defer cursor.Close(ctx)

	accommodations := make([]model.Accommodation, 0)
	if err := cursor.All(ctx, &accommodations); err != nil {
		return nil, 0, fmt.Errorf("failed to decode accommodations: %w", err)
	}
	return accommodations, total, nil
}

func (r *AccommodationRepository) Update(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("failed to update accommodation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *AccommodationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete accommodation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *AccommodationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "type", Value: 1},
			{Key: "is_deleted", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create accommodation indexes: %w", err)
	}
	return nil
}
