package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"banglabnb/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// overlapFilter matches non-cancelled bookings on the listing whose interval
// intersects [from, to] (existing.from <= to AND existing.to >= from).
func overlapFilter(listingID string, from, to time.Time) bson.M {
	return bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$ne": models.BookingCancelled},
		"date_from":  bson.M{"$lte": to},
		"date_to":    bson.M{"$gte": from},
	}
}

// FindOverlapping returns one non-cancelled booking intersecting the interval,
// or nil when the interval is free.
func (repo *MongoBookingRepo) FindOverlapping(ctx context.Context, listingID string, from, to time.Time) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.coll.FindOne(ctxWithTimeout, overlapFilter(listingID, from, to)).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error checking overlapping bookings: %w", err)
	}
	return &booking, nil
}

// ListByGuest returns the guest's bookings, newest first.
func (repo *MongoBookingRepo) ListByGuest(ctx context.Context, guestID string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"guest_id": guestID})
}

// ListByListings returns bookings across the given listings, newest first.
// Hosts use this to see bookings on everything they own.
func (repo *MongoBookingRepo) ListByListings(ctx context.Context, listingIDs []string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}})
}

// ActiveRanges returns the occupied intervals of a listing for client-side
// calendar rendering.
func (repo *MongoBookingRepo) ActiveRanges(ctx context.Context, listingID string) ([]models.DateRange, error) {
	bookings, err := repo.list(ctx, bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$ne": models.BookingCancelled},
	})
	if err != nil {
		return nil, err
	}
	ranges := make([]models.DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, models.DateRange{From: b.DateFrom, To: b.DateTo})
	}
	return ranges, nil
}

// ListPayoutEligible returns paid bookings checked in before the given cutoff
// that have not yet had a payout issued.
func (repo *MongoBookingRepo) ListPayoutEligible(ctx context.Context, checkedInBefore time.Time) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{
		"payment_status": models.PaymentPaid,
		"check_in_at":    bson.M{"$lte": checkedInBefore},
		"payout_issued":  bson.M{"$ne": true},
	})
}

func (repo *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
