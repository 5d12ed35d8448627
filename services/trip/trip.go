package trip

import (
	"context"
	"fmt"
	"time"

	"banglabnb/models"
	"banglabnb/services/fault"

	"github.com/google/uuid"
)

// CreateTrip publishes a new ride for the driver.
func (svc *DefaultTripService) CreateTrip(ctx context.Context, driverID string, input CreateTripInput) (*models.Trip, error) {
	if driverID == "" {
		return nil, fault.Invalid("missing driver id")
	}
	if input.From == "" || input.To == "" {
		return nil, fault.Invalid("trip route requires both origin and destination")
	}
	if input.TotalSeats < 1 {
		return nil, fault.Invalid("total seats must be at least 1")
	}
	if input.FarePerSeat <= 0 {
		return nil, fault.Invalid("fare per seat must be positive")
	}
	if !input.DepartureAt.After(svc.now()) {
		return nil, fault.Invalid("departure time must be in the future")
	}

	now := svc.now()
	trip := &models.Trip{
		ID:          uuid.New().String(),
		DriverID:    driverID,
		From:        input.From,
		To:          input.To,
		DepartureAt: input.DepartureAt,
		VehicleType: input.VehicleType,
		TotalSeats:  input.TotalSeats,
		FarePerSeat: input.FarePerSeat,
		Status:      models.TripAvailable,
		Passengers:  []models.TripPassenger{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := svc.Repo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return trip, nil
}

// GetTrip fetches a trip by id.
func (svc *DefaultTripService) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	trip, err := svc.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fault.NotFound("trip", id)
	}
	return trip, nil
}

// ListAvailable returns trips still open for reservation.
func (svc *DefaultTripService) ListAvailable(ctx context.Context) ([]models.Trip, error) {
	return svc.Repo.ListAvailable(ctx)
}

// ListDriverTrips returns the driver's trips.
func (svc *DefaultTripService) ListDriverTrips(ctx context.Context, driverID string) ([]models.Trip, error) {
	return svc.Repo.ListByDriver(ctx, driverID)
}

// ListPaidReservations returns the trips a rider holds paid seats on.
func (svc *DefaultTripService) ListPaidReservations(ctx context.Context, riderID string) ([]models.Trip, error) {
	return svc.Repo.ListPaidReservations(ctx, riderID)
}

// CheckSeatAvailability validates that the rider could reserve the requested
// seats right now. Pure read; reservation itself re-validates atomically.
func (svc *DefaultTripService) CheckSeatAvailability(ctx context.Context, tripID, riderID string, seats int) (*models.Trip, error) {
	if seats < 1 {
		return nil, fault.Invalid("requested seats must be at least 1")
	}
	trip, err := svc.Repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, fault.NotFound("trip", tripID)
	}
	if err := svc.checkSeats(trip, riderID, seats); err != nil {
		return nil, err
	}
	return trip, nil
}

// checkSeats applies the seat-availability rules against an in-memory trip.
func (svc *DefaultTripService) checkSeats(trip *models.Trip, riderID string, seats int) error {
	if trip.Status == models.TripCancelled {
		return fault.Conflictf(fault.CodeTripCancelled, "trip has been cancelled by the driver")
	}
	if !trip.DepartureAt.After(svc.now()) {
		return fault.Conflictf(fault.CodeDeparted, "trip has already departed")
	}
	if trip.ActivePassenger(riderID) != nil {
		return fault.Conflictf(fault.CodeDuplicateReservation, "you already hold a reservation on this trip")
	}
	if available := trip.SeatsAvailable(); seats > available {
		return fault.Conflictf(fault.CodeInsufficientSeats, "only %d seat(s) available", available)
	}
	return nil
}

// departureWindow is how long before departure a rider may still cancel.
const departureWindow = 24 * time.Hour
