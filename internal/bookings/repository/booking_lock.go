package repository

import (
	"context"
	"fmt"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lockCollection = "booking_locks"

// LockRepository hands out advisory locks backed by unique _id inserts. A
// duplicate-key error on insert means someone else holds the lock.
type LockRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewLockRepository(client *mongo.Client, database string, log *logger.Logger) *LockRepository {
	return &LockRepository{
		collection: client.Database(database).Collection(lockCollection),
		log:        log,
	}
}

// Acquire claims the lock named by id. Returns (false, nil) when the lock is
// already held.
func (r *LockRepository) Acquire(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        id,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock %s: %w", id, err)
	}
	return true, nil
}

func (r *LockRepository) Release(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", id, err)
	}
	return nil
}

// EnsureIndexes installs the TTL index that reaps locks left behind by a
// crashed holder.
func (r *LockRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create lock TTL index: %w", err)
	}
	return nil
}
