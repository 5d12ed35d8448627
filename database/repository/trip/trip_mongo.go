package tripRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banglabnb/database"
	"banglabnb/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTripRepo implements TripRepository using MongoDB.
type MongoTripRepo struct {
	coll *mongo.Collection
}

// NewMongoTripRepo constructs a new instance of MongoTripRepo.
func NewMongoTripRepo() TripRepository {
	return &MongoTripRepo{coll: database.DB().Collection("trips")}
}

// ErrNotFound is returned when no trip matches the lookup key.
var ErrNotFound = errors.New("trip not found")

// Create inserts a new trip document.
func (repo *MongoTripRepo) Create(ctx context.Context, trip *models.Trip) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, trip); err != nil {
		return fmt.Errorf("error creating trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by its ID.
func (repo *MongoTripRepo) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var trip models.Trip
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching trip %s: %w", id, err)
	}
	return &trip, nil
}

// ListAvailable returns trips still open for reservation.
func (repo *MongoTripRepo) ListAvailable(ctx context.Context) ([]models.Trip, error) {
	return repo.list(ctx, bson.M{"status": models.TripAvailable})
}

// ListByDriver returns the driver's trips, newest first.
func (repo *MongoTripRepo) ListByDriver(ctx context.Context, driverID string) ([]models.Trip, error) {
	return repo.list(ctx, bson.M{"driver_id": driverID})
}

// ListPaidReservations returns trips on which the rider holds a paid,
// non-cancelled passenger entry.
func (repo *MongoTripRepo) ListPaidReservations(ctx context.Context, userID string) ([]models.Trip, error) {
	return repo.list(ctx, bson.M{
		"passengers": bson.M{"$elemMatch": bson.M{
			"user_id":        userID,
			"status":         bson.M{"$ne": models.PassengerCancelled},
			"payment_status": models.PaymentPaid,
		}},
	})
}

func (repo *MongoTripRepo) list(ctx context.Context, filter bson.M) ([]models.Trip, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing trips: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var trips []models.Trip
	if err := cursor.All(ctxWithTimeout, &trips); err != nil {
		return nil, fmt.Errorf("error decoding trips: %w", err)
	}
	return trips, nil
}

// CancelTrip sets the terminal cancelled status, conditional on the trip not
// being cancelled already.
func (repo *MongoTripRepo) CancelTrip(ctx context.Context, tripID string, at time.Time, reason string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": tripID, "status": bson.M{"$ne": models.TripCancelled}}
	update := bson.M{"$set": bson.M{
		"status":        models.TripCancelled,
		"cancelled_at":  at,
		"cancel_reason": reason,
		"updated_at":    at,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error cancelling trip %s: %w", tripID, err)
	}
	return res.ModifiedCount > 0, nil
}

// MarkCompleted flags the trip for earnings and statistics; seat accounting
// is untouched.
func (repo *MongoTripRepo) MarkCompleted(ctx context.Context, tripID string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": tripID, "status": bson.M{"$ne": models.TripCancelled}}
	update := bson.M{"$set": bson.M{"is_completed": true, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error marking trip %s completed: %w", tripID, err)
	}
	return res.MatchedCount > 0, nil
}
