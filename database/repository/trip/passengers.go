package tripRepo

import (
	"context"
	"fmt"
	"time"

	"banglabnb/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// reservedSeatsExpr computes the reserved-seat total from the embedded
// passenger list inside the update filter, so the capacity check and the
// append are one atomic document operation.
var reservedSeatsExpr = bson.M{
	"$sum": bson.M{
		"$map": bson.M{
			"input": bson.M{"$ifNull": bson.A{"$passengers", bson.A{}}},
			"as":    "p",
			"in": bson.M{"$cond": bson.A{
				bson.M{"$ne": bson.A{"$$p.status", models.PassengerCancelled}},
				"$$p.seats",
				0,
			}},
		},
	},
}

// AppendPassenger reserves seats with a single conditional write: the filter
// only matches while the trip is not cancelled, the rider has no active
// entry, and capacity can absorb the requested seats.
func (repo *MongoTripRepo) AppendPassenger(ctx context.Context, tripID string, p models.TripPassenger) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     tripID,
		"status": bson.M{"$ne": models.TripCancelled},
		"passengers": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"user_id": p.UserID,
			"status":  bson.M{"$ne": models.PassengerCancelled},
		}}},
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{reservedSeatsExpr, p.Seats}},
			"$total_seats",
		}},
	}
	update := bson.M{
		"$push": bson.M{"passengers": p},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error appending passenger to trip %s: %w", tripID, err)
	}
	return res.MatchedCount > 0, nil
}

// CancelPassenger marks the rider's active entry cancelled.
func (repo *MongoTripRepo) CancelPassenger(ctx context.Context, tripID, userID string, at time.Time, reason string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": tripID,
		"passengers": bson.M{"$elemMatch": bson.M{
			"user_id": userID,
			"status":  bson.M{"$ne": models.PassengerCancelled},
		}},
	}
	update := bson.M{"$set": bson.M{
		"passengers.$.status":        models.PassengerCancelled,
		"passengers.$.cancelled_at":  at,
		"passengers.$.cancel_reason": reason,
		"updated_at":                 at,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error cancelling passenger on trip %s: %w", tripID, err)
	}
	return res.MatchedCount > 0, nil
}

// RecomputeStatus re-derives the trip status from the passenger list with an
// aggregation-pipeline update. Cancelled is terminal and is never overwritten.
func (repo *MongoTripRepo) RecomputeStatus(ctx context.Context, tripID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.TripCancelled}},
				models.TripCancelled,
				bson.M{"$cond": bson.A{
					bson.M{"$gte": bson.A{reservedSeatsExpr, "$total_seats"}},
					models.TripBooked,
					models.TripAvailable,
				}},
			}}},
		}}},
	}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": tripID}, pipeline); err != nil {
		return fmt.Errorf("error recomputing status for trip %s: %w", tripID, err)
	}
	return nil
}

// SetPassengerTransaction persists the minted transaction id on the rider's
// active entry before the outbound gateway call.
func (repo *MongoTripRepo) SetPassengerTransaction(ctx context.Context, tripID, userID, tranID string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": tripID,
		"passengers": bson.M{"$elemMatch": bson.M{
			"user_id": userID,
			"status":  bson.M{"$ne": models.PassengerCancelled},
		}},
	}
	update := bson.M{"$set": bson.M{
		"passengers.$.transaction_id": tranID,
		"updated_at":                  time.Now(),
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error setting passenger transaction on trip %s: %w", tripID, err)
	}
	return res.MatchedCount > 0, nil
}

// FindByPassengerTransaction locates the trip holding the passenger entry
// minted with the given transaction id.
func (repo *MongoTripRepo) FindByPassengerTransaction(ctx context.Context, tranID string) (*models.Trip, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var trip models.Trip
	filter := bson.M{"passengers.transaction_id": tranID}
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching trip by passenger transaction %s: %w", tranID, err)
	}
	return &trip, nil
}

// MarkPassengerPaidByTransaction flips the matching entry to paid, conditional
// on it not being paid already.
func (repo *MongoTripRepo) MarkPassengerPaidByTransaction(ctx context.Context, tranID, valID string, amount float64, at time.Time) (bool, error) {
	filter := bson.M{
		"passengers": bson.M{"$elemMatch": bson.M{
			"transaction_id": tranID,
			"payment_status": bson.M{"$ne": models.PaymentPaid},
		}},
	}
	return repo.markPassengerPaid(ctx, filter, valID, amount, at)
}

// MarkPassengerPaidByBooking flips the combined-order passenger entry to paid,
// idempotently, keyed by the linked booking id.
func (repo *MongoTripRepo) MarkPassengerPaidByBooking(ctx context.Context, tripID, bookingID, valID string, amount float64, at time.Time) (bool, error) {
	filter := bson.M{
		"id": tripID,
		"passengers": bson.M{"$elemMatch": bson.M{
			"booking_id":     bookingID,
			"payment_status": bson.M{"$ne": models.PaymentPaid},
		}},
	}
	return repo.markPassengerPaid(ctx, filter, valID, amount, at)
}

func (repo *MongoTripRepo) markPassengerPaid(ctx context.Context, filter bson.M, valID string, amount float64, at time.Time) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"passengers.$.payment_status": models.PaymentPaid,
		"passengers.$.gateway_val_id": valID,
		"passengers.$.paid_amount":    amount,
		"passengers.$.paid_at":        at,
		"updated_at":                  at,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error marking passenger paid: %w", err)
	}
	return res.ModifiedCount > 0, nil
}
