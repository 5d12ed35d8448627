package payoutRepo

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

// PayoutRepository persists host payout records created by the payout scan.
type PayoutRepository interface {
	Create(ctx context.Context, payout *models.Payout) error
	MarkPaid(ctx context.Context, payoutID string, at time.Time) error
	MarkFailed(ctx context.Context, payoutID, notes string) error
	ListByHost(ctx context.Context, hostID string) ([]models.Payout, error)
}

// MongoPayoutRepo implements PayoutRepository using MongoDB.
type MongoPayoutRepo struct {
	coll *mongo.Collection
}

// NewMongoPayoutRepo constructs a new instance of MongoPayoutRepo.
func NewMongoPayoutRepo() PayoutRepository {
	return &MongoPayoutRepo{coll: database.DB().Collection("payouts")}
}

// Create inserts a new payout record.
func (repo *MongoPayoutRepo) Create(ctx context.Context, payout *models.Payout) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, payout); err != nil {
		return fmt.Errorf("error creating payout: %w", err)
	}
	return nil
}

// MarkPaid records a successful disbursement.
func (repo *MongoPayoutRepo) MarkPaid(ctx context.Context, payoutID string, at time.Time) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": payoutID}
	update := bson.M{"$set": bson.M{
		"status":     models.PayoutPaid,
		"paid_at":    at,
		"updated_at": at,
	}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error marking payout %s paid: %w", payoutID, err)
	}
	return nil
}

// MarkFailed records a failed disbursement with its reason.
func (repo *MongoPayoutRepo) MarkFailed(ctx context.Context, payoutID, notes string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": payoutID}
	update := bson.M{"$set": bson.M{
		"status":     models.PayoutFailed,
		"notes":      notes,
		"updated_at": time.Now(),
	}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error marking payout %s failed: %w", payoutID, err)
	}
	return nil
}

// ListByHost returns the host's payouts, newest first.
func (repo *MongoPayoutRepo) ListByHost(ctx context.Context, hostID string) ([]models.Payout, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"host_id": hostID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing payouts: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var payouts []models.Payout
	if err := cursor.All(ctxWithTimeout, &payouts); err != nil {
		return nil, fmt.Errorf("error decoding payouts: %w", err)
	}
	return payouts, nil
}
