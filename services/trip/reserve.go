package trip

import (
	"context"
	"fmt"

	"banglabnb/models"
	"banglabnb/services/fault"
	"banglabnb/utils"

	"go.uber.org/zap"
)

// ReserveSeats appends a reserved passenger entry for the rider. The capacity
// and duplicate-rider invariants are re-validated by the repository inside a
// single conditional write, so concurrent reservations cannot oversell.
func (svc *DefaultTripService) ReserveSeats(ctx context.Context, riderID string, input ReserveInput) (*models.Trip, error) {
	if riderID == "" {
		return nil, fault.Invalid("missing rider id")
	}
	if input.Seats < 1 {
		return nil, fault.Invalid("requested seats must be at least 1")
	}

	trip, err := svc.Repo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, fault.NotFound("trip", input.TripID)
	}
	if err := svc.checkSeats(trip, riderID, input.Seats); err != nil {
		return nil, err
	}

	entry := models.TripPassenger{
		UserID:        riderID,
		BookingID:     input.BookingID,
		Seats:         input.Seats,
		Status:        models.PassengerReserved,
		PaymentStatus: models.PaymentPending,
		ReservedAt:    svc.now(),
	}
	ok, err := svc.Repo.AppendPassenger(ctx, trip.ID, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}
	if !ok {
		// A concurrent writer got in between the read and the append.
		// Re-read to give the caller the precise conflict.
		fresh, ferr := svc.Repo.GetByID(ctx, trip.ID)
		if ferr != nil {
			return nil, fault.Conflictf(fault.CodeInsufficientSeats, "seats no longer available")
		}
		if cerr := svc.checkSeats(fresh, riderID, input.Seats); cerr != nil {
			return nil, cerr
		}
		return nil, fault.Conflictf(fault.CodeInsufficientSeats, "only %d seat(s) available", fresh.SeatsAvailable())
	}

	if err := svc.Repo.RecomputeStatus(ctx, trip.ID); err != nil {
		utils.GetLogger().Error("failed to recompute trip status",
			zap.String("tripID", trip.ID), zap.Error(err))
	}
	return svc.Repo.GetByID(ctx, trip.ID)
}
