package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edvin/retailpos/internal/model"
)

const paymentCollectionName = "payments"

type PaymentStore struct {
	collection *mongo.Collection
}

func NewPaymentStore(db *mongo.Database) *PaymentStore {
	return &PaymentStore{collection: db.Collection(paymentCollectionName)}
}

func (s *PaymentStore) Create(ctx context.Context, payment *model.Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	result, err := s.collection.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("payment for intent %s: %w", payment.PaymentIntentID, model.ErrConflict)
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid
	}
	return nil
}

// List returns payments newest first plus the total count. A zero limit returns all.
func (s *PaymentStore) List(ctx context.Context, limit, offset int64) ([]model.Payment, int64, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	if offset > 0 {
		findOptions.SetSkip(offset)
	}

	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	cursor, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []model.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, 0, fmt.Errorf("decode payments: %w", err)
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, total, nil
}
