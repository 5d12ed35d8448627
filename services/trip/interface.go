package trip

import (
	"context"
	"time"

	tripRepo "banglabnb/database/repository/trip"
	"banglabnb/models"
	"banglabnb/services/notification"
)

// CreateTripInput is the validated request for a driver publishing a ride.
type CreateTripInput struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	DepartureAt time.Time `json:"departure_at"`
	VehicleType string    `json:"vehicle_type"`
	TotalSeats  int       `json:"total_seats"`
	FarePerSeat float64   `json:"fare_per_seat"`
}

// ReserveInput is the validated request for a rider reserving seats.
type ReserveInput struct {
	TripID    string `json:"trip_id"`
	Seats     int    `json:"seats"`
	BookingID string `json:"booking_id,omitempty"` // set for combined orders
}

// TripService manages the seat-reservation state machine. Every operation
// takes the acting user explicitly; nothing is read from ambient state.
type TripService interface {
	CreateTrip(ctx context.Context, driverID string, input CreateTripInput) (*models.Trip, error)
	GetTrip(ctx context.Context, id string) (*models.Trip, error)
	ListAvailable(ctx context.Context) ([]models.Trip, error)
	ListDriverTrips(ctx context.Context, driverID string) ([]models.Trip, error)
	ListPaidReservations(ctx context.Context, riderID string) ([]models.Trip, error)

	CheckSeatAvailability(ctx context.Context, tripID, riderID string, seats int) (*models.Trip, error)
	ReserveSeats(ctx context.Context, riderID string, input ReserveInput) (*models.Trip, error)
	CancelReservation(ctx context.Context, riderID, tripID, reason string) (*models.Trip, error)
	DriverCancelTrip(ctx context.Context, driverID, tripID, reason string) error
	MarkCompleted(ctx context.Context, driverID, tripID string) error
}

// DefaultTripService implements TripService.
type DefaultTripService struct {
	Repo     tripRepo.TripRepository
	Notifier notification.NotificationService

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (svc *DefaultTripService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}
