package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"banglabnb/database"
	"banglabnb/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository is the durable audit log for inbound gateway callbacks.
// Every delivery is appended before processing, whether or not processing
// later succeeds, so the stream can be replayed.
type EventRepository interface {
	Append(ctx context.Context, event *models.PaymentEvent) error
	ListByTransaction(ctx context.Context, tranID string) ([]models.PaymentEvent, error)
}

// MongoEventRepo implements EventRepository using MongoDB.
type MongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo constructs a new instance of MongoEventRepo.
func NewMongoEventRepo() EventRepository {
	return &MongoEventRepo{coll: database.DB().Collection("payment_events")}
}

// Append inserts a callback payload record.
func (repo *MongoEventRepo) Append(ctx context.Context, event *models.PaymentEvent) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, event); err != nil {
		return fmt.Errorf("error logging payment event: %w", err)
	}
	return nil
}

// ListByTransaction returns every recorded delivery for a transaction id,
// oldest first.
func (repo *MongoEventRepo) ListByTransaction(ctx context.Context, tranID string) ([]models.PaymentEvent, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "received_at", Value: 1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"transaction_id": tranID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing payment events: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var events []models.PaymentEvent
	if err := cursor.All(ctxWithTimeout, &events); err != nil {
		return nil, fmt.Errorf("error decoding payment events: %w", err)
	}
	return events, nil
}
