package booking

import (
	"context"
	"fmt"

	"banglabnb/models"
	"banglabnb/services/fault"
	"banglabnb/services/trip"
	"banglabnb/utils"

	"go.uber.org/zap"
)

// CreateCombinedOrder creates a stay booking and, when a trip is named,
// reserves matching seats under the same logical order. The booking is
// written first; if the seat reservation then fails the booking is rolled
// back, so the caller never ends up holding only half an order.
func (svc *DefaultBookingService) CreateCombinedOrder(ctx context.Context, guestID string, input CombinedOrderInput) (*models.CombinedOrderResult, error) {
	booking, err := svc.CreateBooking(ctx, guestID, input.CreateBookingInput)
	if err != nil {
		return nil, err
	}

	var farePerSeat float64
	if input.TripID != "" {
		reserved, rerr := svc.Trips.ReserveSeats(ctx, guestID, trip.ReserveInput{
			TripID:    input.TripID,
			Seats:     input.Guests,
			BookingID: booking.ID,
		})
		if rerr != nil {
			if derr := svc.Repo.Delete(ctx, booking.ID); derr != nil {
				// The orphaned pending booking still blocks the dates;
				// flag it loudly for the reconciliation sweep.
				utils.GetLogger().Error("combined-order rollback failed",
					zap.String("bookingID", booking.ID), zap.Error(derr))
				return nil, fault.Inconsistent("seat reservation failed and booking rollback failed: %v", rerr)
			}
			return nil, rerr
		}
		farePerSeat = reserved.FarePerSeat

		booking.TripID = input.TripID
		booking.Combined = true
		booking.UpdatedAt = svc.now()
		if err := svc.Repo.Update(ctx, booking); err != nil {
			return nil, fmt.Errorf("failed to link booking to trip: %w", err)
		}
	}

	listing, err := svc.Listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, fault.NotFound("listing", booking.ListingID)
	}
	breakdown := svc.price(listing.Price, farePerSeat, input)

	return &models.CombinedOrderResult{
		BookingID: booking.ID,
		TripID:    input.TripID,
		Amount:    breakdown.Total,
		Breakdown: *breakdown,
	}, nil
}
