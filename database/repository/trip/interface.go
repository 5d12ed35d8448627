package tripRepo

import (
	"context"
	"time"

	"banglabnb/models"
)

// TripRepository defines data access for trips and their embedded passenger
// lists. Seat capacity is guarded at the mutation boundary: AppendPassenger is
// one conditional write that only matches while the resulting reserved-seat
// total stays within capacity, so read-decide-write races cannot oversell.
type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	ListAvailable(ctx context.Context) ([]models.Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]models.Trip, error)
	ListPaidReservations(ctx context.Context, userID string) ([]models.Trip, error)

	// AppendPassenger reserves seats atomically. Returns false when capacity
	// would be exceeded, the trip is cancelled, or the rider already holds an
	// active entry.
	AppendPassenger(ctx context.Context, tripID string, p models.TripPassenger) (bool, error)
	// CancelPassenger marks the rider's active entry cancelled. Returns false
	// when no active entry exists.
	CancelPassenger(ctx context.Context, tripID, userID string, at time.Time, reason string) (bool, error)
	// RecomputeStatus re-derives the trip status from the passenger list.
	// Called after every passenger mutation; never sets status independently.
	RecomputeStatus(ctx context.Context, tripID string) error

	SetPassengerTransaction(ctx context.Context, tripID, userID, tranID string) (bool, error)
	FindByPassengerTransaction(ctx context.Context, tranID string) (*models.Trip, error)
	// MarkPassengerPaidByTransaction flips the matching entry to paid only if
	// it is not already paid. Returns false on a duplicate delivery.
	MarkPassengerPaidByTransaction(ctx context.Context, tranID, valID string, amount float64, at time.Time) (bool, error)
	// MarkPassengerPaidByBooking is the combined-order half of the paid flip,
	// idempotent so reconciliation can resume after a partial failure.
	MarkPassengerPaidByBooking(ctx context.Context, tripID, bookingID, valID string, amount float64, at time.Time) (bool, error)

	// CancelTrip sets the terminal cancelled status. Returns false when the
	// trip was already cancelled.
	CancelTrip(ctx context.Context, tripID string, at time.Time, reason string) (bool, error)
	MarkCompleted(ctx context.Context, tripID string) (bool, error)
}
