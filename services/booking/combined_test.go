package booking

import (
	"context"
	"testing"

	"banglabnb/models"
	"banglabnb/services/fault"
	"banglabnb/services/trip"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTripService stubs the ride leg of combined orders.
type fakeTripService struct {
	trip.TripService // unused methods panic if called

	fare       float64
	reserveErr error
	reserved   []trip.ReserveInput
	cancelled  []string
}

func (f *fakeTripService) ReserveSeats(ctx context.Context, riderID string, input trip.ReserveInput) (*models.Trip, error) {
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	f.reserved = append(f.reserved, input)
	return &models.Trip{ID: input.TripID, FarePerSeat: f.fare}, nil
}

func (f *fakeTripService) CancelReservation(ctx context.Context, riderID, tripID, reason string) (*models.Trip, error) {
	f.cancelled = append(f.cancelled, tripID)
	return &models.Trip{ID: tripID}, nil
}

func (f *fakeTripService) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	return &models.Trip{ID: id, FarePerSeat: f.fare}, nil
}

func TestCreateCombinedOrder(t *testing.T) {
	svc, repo, _, _ := newTestService()
	trips := &fakeTripService{fare: 300}
	svc.Trips = trips
	ctx := context.Background()

	result, err := svc.CreateCombinedOrder(ctx, "guest-1", CombinedOrderInput{
		CreateBookingInput: CreateBookingInput{
			ListingID: "listing-1", DateFrom: day(5), DateTo: day(7), Guests: 2,
		},
		TripID: "trip-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "trip-1", result.TripID)

	// The seat reservation carries the booking id so payment reconciliation
	// can settle both halves from one callback.
	require.Len(t, trips.reserved, 1)
	assert.Equal(t, result.BookingID, trips.reserved[0].BookingID)
	assert.Equal(t, 2, trips.reserved[0].Seats)

	stored, err := repo.GetByID(ctx, result.BookingID)
	require.NoError(t, err)
	assert.True(t, stored.Combined)
	assert.Equal(t, "trip-1", stored.TripID)

	// 2 nights x 1500 + 15% fee + 10% tax + 2 seats x 300.
	assert.Equal(t, float64(3000), result.Breakdown.StaySubtotal)
	assert.Equal(t, float64(450), result.Breakdown.ServiceFee)
	assert.Equal(t, float64(300), result.Breakdown.Tax)
	assert.Equal(t, float64(600), result.Breakdown.TripFare)
	assert.Equal(t, float64(4350), result.Amount)
}

func TestCreateCombinedOrderRollsBackOnSeatFailure(t *testing.T) {
	svc, repo, _, _ := newTestService()
	trips := &fakeTripService{
		fare:       300,
		reserveErr: fault.Conflictf(fault.CodeInsufficientSeats, "only 1 seat(s) available"),
	}
	svc.Trips = trips
	ctx := context.Background()

	_, err := svc.CreateCombinedOrder(ctx, "guest-1", CombinedOrderInput{
		CreateBookingInput: CreateBookingInput{
			ListingID: "listing-1", DateFrom: day(5), DateTo: day(7), Guests: 2,
		},
		TripID: "trip-1",
	})
	assert.Equal(t, fault.CodeInsufficientSeats, fault.CodeOf(err))

	// The booking was rolled back and the dates freed.
	require.Len(t, repo.deleted, 1)
	_, err = svc.CreateBooking(ctx, "guest-2", CreateBookingInput{
		ListingID: "listing-1", DateFrom: day(5), DateTo: day(7), Guests: 1,
	})
	assert.NoError(t, err)
}

func TestCreateCombinedOrderWithoutTrip(t *testing.T) {
	svc, repo, _, _ := newTestService()
	svc.Trips = &fakeTripService{}
	ctx := context.Background()

	result, err := svc.CreateCombinedOrder(ctx, "guest-1", CombinedOrderInput{
		CreateBookingInput: CreateBookingInput{
			ListingID: "listing-1", DateFrom: day(5), DateTo: day(7), Guests: 2,
		},
	})
	require.NoError(t, err)
	assert.Empty(t, result.TripID)
	assert.Equal(t, float64(0), result.Breakdown.TripFare)
	assert.Equal(t, float64(3750), result.Amount)

	stored, err := repo.GetByID(ctx, result.BookingID)
	require.NoError(t, err)
	assert.False(t, stored.Combined)
}

func TestCancelCombinedBookingReleasesRideLeg(t *testing.T) {
	svc, _, _, _ := newTestService()
	trips := &fakeTripService{fare: 300}
	svc.Trips = trips
	ctx := context.Background()

	result, err := svc.CreateCombinedOrder(ctx, "guest-1", CombinedOrderInput{
		CreateBookingInput: CreateBookingInput{
			ListingID: "listing-1", DateFrom: day(5), DateTo: day(7), Guests: 2,
		},
		TripID: "trip-1",
	})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, "guest-1", result.BookingID)
	require.NoError(t, err)
	assert.Equal(t, []string{"trip-1"}, trips.cancelled)
}

func TestQuotePriceDiscount(t *testing.T) {
	svc, _, _, _ := newTestService()
	svc.Trips = &fakeTripService{fare: 300}

	breakdown, err := svc.QuotePrice(context.Background(), CombinedOrderInput{
		CreateBookingInput: CreateBookingInput{
			ListingID: "listing-1", DateFrom: day(5), DateTo: day(7), Guests: 2,
		},
		TripID:       "trip-1",
		DiscountRate: 0.10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, breakdown.Nights)
	assert.Equal(t, float64(435), breakdown.Discount)
	assert.Equal(t, float64(3915), breakdown.Total)
}
