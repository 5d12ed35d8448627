package trip

import (
	"context"
	"fmt"

	"banglabnb/models"
	"banglabnb/services/fault"
	"banglabnb/utils"

	"go.uber.org/zap"
)

// CancelReservation cancels the rider's active entry. The 24-hour departure
// window is a hard business rule enforced here, never left to clients.
func (svc *DefaultTripService) CancelReservation(ctx context.Context, riderID, tripID, reason string) (*models.Trip, error) {
	trip, err := svc.Repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, fault.NotFound("trip", tripID)
	}
	entry := trip.ActivePassenger(riderID)
	if entry == nil {
		return nil, fault.NotFound("reservation", tripID)
	}

	if trip.DepartureAt.Sub(svc.now()) < departureWindow {
		return nil, fault.Conflictf(fault.CodeCancellationWindow,
			"reservations can only be cancelled at least 24 hours before departure")
	}

	now := svc.now()
	ok, err := svc.Repo.CancelPassenger(ctx, tripID, riderID, now, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if !ok {
		return nil, fault.NotFound("reservation", tripID)
	}
	if err := svc.Repo.RecomputeStatus(ctx, tripID); err != nil {
		utils.GetLogger().Error("failed to recompute trip status",
			zap.String("tripID", tripID), zap.Error(err))
	}

	svc.notify(ctx, trip.DriverID, "reservation_cancelled",
		fmt.Sprintf("A passenger released %d seat(s) on your trip %s → %s.", entry.Seats, trip.From, trip.To),
		map[string]string{"trip_id": trip.ID, "rider_id": riderID})

	return svc.Repo.GetByID(ctx, tripID)
}

// DriverCancelTrip lets the driver cancel the whole trip before departure.
// Every passenger still holding a reserved entry is notified.
func (svc *DefaultTripService) DriverCancelTrip(ctx context.Context, driverID, tripID, reason string) error {
	trip, err := svc.Repo.GetByID(ctx, tripID)
	if err != nil {
		return fault.NotFound("trip", tripID)
	}
	if trip.DriverID != driverID {
		return fault.Unauthorized("only the trip's driver may cancel it")
	}
	if trip.Status == models.TripCancelled {
		return fault.Conflictf(fault.CodeTripCancelled, "trip is already cancelled")
	}
	if !trip.DepartureAt.After(svc.now()) {
		return fault.Conflictf(fault.CodeDeparted, "trip has already departed")
	}

	ok, err := svc.Repo.CancelTrip(ctx, tripID, svc.now(), reason)
	if err != nil {
		return fmt.Errorf("failed to cancel trip: %w", err)
	}
	if !ok {
		return fault.Conflictf(fault.CodeTripCancelled, "trip is already cancelled")
	}

	for _, p := range trip.Passengers {
		if p.Status != models.PassengerReserved {
			continue
		}
		svc.notify(ctx, p.UserID, "trip_cancelled",
			fmt.Sprintf("Your trip %s → %s was cancelled by the driver.", trip.From, trip.To),
			map[string]string{"trip_id": trip.ID, "reason": reason})
	}
	return nil
}

// MarkCompleted flags the trip after departure for earnings and statistics.
func (svc *DefaultTripService) MarkCompleted(ctx context.Context, driverID, tripID string) error {
	trip, err := svc.Repo.GetByID(ctx, tripID)
	if err != nil {
		return fault.NotFound("trip", tripID)
	}
	if trip.DriverID != driverID {
		return fault.Unauthorized("only the trip's driver may mark it completed")
	}
	if trip.Status == models.TripCancelled {
		return fault.Conflictf(fault.CodeTripCancelled, "cancelled trips cannot be completed")
	}
	if svc.now().Before(trip.DepartureAt) {
		return fault.Conflictf(fault.CodeTooEarly, "trip has not departed yet")
	}

	ok, err := svc.Repo.MarkCompleted(ctx, tripID)
	if err != nil {
		return fmt.Errorf("failed to mark trip completed: %w", err)
	}
	if !ok {
		return fault.NotFound("trip", tripID)
	}
	return nil
}

// notify is fire-and-forget; failures are logged and never surfaced.
func (svc *DefaultTripService) notify(ctx context.Context, userID, kind, message string, data map[string]string) {
	if svc.Notifier == nil {
		return
	}
	if err := svc.Notifier.Notify(ctx, userID, kind, message, data); err != nil {
		utils.GetLogger().Warn("trip notification failed",
			zap.String("userID", userID), zap.String("kind", kind), zap.Error(err))
	}
}
