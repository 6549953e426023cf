// Package repository implements Mongo persistence for payments.
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
	paymentCollection = "payments"
	defaultTimeout    = 5 * time.Second
)

type PaymentRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewPaymentRepository(client *mongo.Client, database string, log *logger.Logger) *PaymentRepository {
	return &PaymentRepository{
		collection: client.Database(database).Collection(paymentCollection),
		log:        log,
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if payment.ID == "" {
		payment.ID = primitive.NewObjectID().Hex()
	}
	payment.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, payment); err != nil {
		return "", fmt.Errorf("failed to insert payment: %w", err)
	}
	return payment.ID, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var payment model.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", id, err)
	}
	return &payment, nil
}

// FindBySessionID resolves the provider callback back to the payment.
func (r *PaymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var payment model.Payment
	err := r.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment by session %s: %w", sessionID, err)
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var payment model.Payment
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment for booking %s: %w", bookingID, err)
	}
	return &payment, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *PaymentRepository) FindByUser(ctx context.Context, bookingIDs []string, limit int, offset int64) ([]model.Payment, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"booking_id": bson.M{"$in": bookingIDs}}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer cursor.Close(ctx)

	payments := make([]model.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, total, nil
}

// EnsureIndexes installs the unique session lookup index.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}
