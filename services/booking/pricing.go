package booking

import (
	"context"
	"math"

	"banglabnb/models"
	"banglabnb/services/fault"
)

// Fee rates applied to the stay subtotal.
const (
	serviceFeeRate = 0.15
	taxRate        = 0.10
)

// QuotePrice computes the itemized total for a stay, optionally with a ride
// leg. The same function prices real orders, so quotes never drift from what
// the gateway is asked to charge.
func (svc *DefaultBookingService) QuotePrice(ctx context.Context, input CombinedOrderInput) (*models.PriceBreakdown, error) {
	if err := svc.validateDates(input.DateFrom, input.DateTo); err != nil {
		return nil, err
	}
	listing, err := svc.Listings.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, fault.NotFound("listing", input.ListingID)
	}

	var farePerSeat float64
	if input.TripID != "" {
		trip, err := svc.Trips.GetTrip(ctx, input.TripID)
		if err != nil {
			return nil, err
		}
		farePerSeat = trip.FarePerSeat
	}
	return svc.price(listing.Price, farePerSeat, input), nil
}

// price builds the breakdown from already-resolved rates.
func (svc *DefaultBookingService) price(pricePerNight, farePerSeat float64, input CombinedOrderInput) *models.PriceBreakdown {
	nights := int(input.DateTo.Sub(input.DateFrom).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	subtotal := float64(nights) * pricePerNight
	serviceFee := math.Round(subtotal * serviceFeeRate)
	tax := math.Round(subtotal * taxRate)

	var tripFare float64
	if input.TripID != "" {
		tripFare = farePerSeat * float64(input.Guests)
	}

	total := subtotal + serviceFee + tax + tripFare
	var discount float64
	if input.DiscountRate > 0 {
		discount = math.Round(total * input.DiscountRate)
		total -= discount
	}

	return &models.PriceBreakdown{
		Nights:        nights,
		PricePerNight: pricePerNight,
		StaySubtotal:  subtotal,
		ServiceFee:    serviceFee,
		Tax:           tax,
		TripFare:      tripFare,
		Discount:      discount,
		Total:         total,
	}
}
