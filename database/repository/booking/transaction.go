package bookingRepo

import (
	"context"
	"fmt"

	"banglabnb/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CreateIfNoOverlap re-validates the overlap condition and inserts the booking
// inside one session transaction. A check followed by a separate insert would
// let two concurrent requests for intersecting intervals both succeed.
func (repo *MongoBookingRepo) CreateIfNoOverlap(ctx context.Context, booking *models.Booking) (bool, error) {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return false, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	created := false
	txnFn := func(sc mongo.SessionContext) error {
		existing, err := repo.FindOverlapping(sc, booking.ListingID, booking.DateFrom, booking.DateTo)
		if err != nil {
			return err
		}
		if existing != nil {
			// Leave created false; the caller surfaces the conflict.
			return nil
		}
		if _, err := repo.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		created = true
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return false, fmt.Errorf("booking creation transaction failed: %w", err)
	}

	return created, nil
}
