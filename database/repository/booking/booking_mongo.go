package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banglabnb/database"
	"banglabnb/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	return &MongoBookingRepo{coll: database.DB().Collection("bookings")}
}

// ErrNotFound is returned when no booking matches the lookup key.
var ErrNotFound = errors.New("booking not found")

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByTransactionID retrieves a booking solely by its payment transaction id.
func (repo *MongoBookingRepo) GetByTransactionID(ctx context.Context, tranID string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"transaction_id": tranID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking by transaction %s: %w", tranID, err)
	}
	return &booking, nil
}

// Update replaces the mutable fields of an existing booking document.
func (repo *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking.UpdatedAt = time.Now()
	filter := bson.M{"id": booking.ID}
	update := bson.M{"$set": booking}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	return nil
}

// Delete removes a booking record; used by the combined-order rollback path.
func (repo *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id, err)
	}
	return nil
}

// SetTransaction persists the minted transaction id on the booking before the
// outbound gateway call, resetting the payment status to unpaid.
func (repo *MongoBookingRepo) SetTransaction(ctx context.Context, bookingID, tranID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{
		"transaction_id": tranID,
		"payment_status": models.PaymentUnpaid,
		"updated_at":     time.Now(),
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("error setting transaction on booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid flips the booking to paid+confirmed, conditional on it not being
// paid already, so duplicate concurrent callbacks cannot both win.
func (repo *MongoBookingRepo) MarkPaid(ctx context.Context, tranID, valID string, amount float64, at time.Time) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"transaction_id": tranID,
		"payment_status": bson.M{"$ne": models.PaymentPaid},
	}
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentPaid,
		"status":         models.BookingConfirmed,
		"gateway_val_id": valID,
		"paid_amount":    amount,
		"paid_at":        at,
		"updated_at":     at,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error marking booking paid for transaction %s: %w", tranID, err)
	}
	return res.ModifiedCount > 0, nil
}

// MarkPaymentFailed records a failed gateway outcome; paid orders are never
// downgraded.
func (repo *MongoBookingRepo) MarkPaymentFailed(ctx context.Context, tranID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"transaction_id": tranID,
		"payment_status": bson.M{"$ne": models.PaymentPaid},
	}
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentFailed,
		"updated_at":     time.Now(),
	}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error marking payment failed for transaction %s: %w", tranID, err)
	}
	return nil
}

// MarkPayoutIssued flags a booking after its host payout has been scheduled.
func (repo *MongoBookingRepo) MarkPayoutIssued(ctx context.Context, bookingID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{"payout_issued": true, "updated_at": time.Now()}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error marking payout issued for booking %s: %w", bookingID, err)
	}
	return nil
}
