package booking

import (
	"context"
	"fmt"

	"banglabnb/models"
	"banglabnb/services/fault"

	"banglabnb/utils"

	"go.uber.org/zap"
)

// AcceptBooking lets the host confirm a pending booking. Accepting an
// already-confirmed booking is a no-op so retried requests stay safe.
func (svc *DefaultBookingService) AcceptBooking(ctx context.Context, hostID, bookingID string) (*models.Booking, error) {
	booking, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fault.NotFound("booking", bookingID)
	}
	listing, err := svc.Listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, fault.NotFound("listing", booking.ListingID)
	}
	if listing.HostID != hostID {
		return nil, fault.Unauthorized("only the listing's host may accept this booking")
	}

	switch booking.Status {
	case models.BookingConfirmed:
		return booking, nil
	case models.BookingCancelled:
		return nil, fault.Conflictf(fault.CodeCancelled, "booking has been cancelled")
	}

	booking.Status = models.BookingConfirmed
	booking.UpdatedAt = svc.now()
	if err := svc.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to accept booking: %w", err)
	}

	svc.notify(ctx, booking.GuestID, "booking_accepted",
		fmt.Sprintf("Your booking for %s was accepted.", listing.Title),
		map[string]string{"booking_id": booking.ID})
	return booking, nil
}

// CancelBooking releases the date interval. Either the guest or the listing's
// host may cancel; anyone else is rejected. Cancelling a paid booking flags
// the refund owed rather than moving money here.
func (svc *DefaultBookingService) CancelBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fault.NotFound("booking", bookingID)
	}
	if booking.Status == models.BookingCancelled {
		return booking, nil
	}
	if booking.CheckOutAt != nil {
		return nil, fault.Conflictf(fault.CodeCancelled, "booking cannot be cancelled after check-out")
	}

	listing, err := svc.Listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, fault.NotFound("listing", booking.ListingID)
	}
	if actorID != booking.GuestID && actorID != listing.HostID {
		return nil, fault.Unauthorized("only the guest or the host may cancel this booking")
	}

	now := svc.now()
	booking.Status = models.BookingCancelled
	booking.CancelledBy = actorID
	booking.CancelledAt = &now
	booking.UpdatedAt = now
	if booking.PaymentStatus == models.PaymentPaid {
		booking.RefundOwed = true
	}
	if err := svc.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	// Release the ride leg of a combined order too. Past the trip's own
	// cancellation window the seats stay held; that is the rider's loss.
	if booking.Combined && booking.TripID != "" && svc.Trips != nil {
		if _, terr := svc.Trips.CancelReservation(ctx, booking.GuestID, booking.TripID, "stay cancelled"); terr != nil {
			utils.GetLogger().Warn("failed to release combined ride leg",
				zap.String("bookingID", booking.ID), zap.String("tripID", booking.TripID), zap.Error(terr))
		}
	}

	other := listing.HostID
	if actorID == listing.HostID {
		other = booking.GuestID
	}
	svc.notify(ctx, other, "booking_cancelled",
		fmt.Sprintf("Booking for %s was cancelled.", listing.Title),
		map[string]string{"booking_id": booking.ID})
	return booking, nil
}

// CheckIn records the guest's arrival. Set once; a repeat call is a no-op.
func (svc *DefaultBookingService) CheckIn(ctx context.Context, guestID, bookingID string) (*models.Booking, error) {
	booking, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fault.NotFound("booking", bookingID)
	}
	if booking.GuestID != guestID {
		return nil, fault.Unauthorized("only the booking's guest may check in")
	}
	if booking.Status != models.BookingConfirmed {
		return nil, fault.Conflictf(fault.CodeNotConfirmed, "only confirmed bookings can check in")
	}
	if booking.CheckInAt != nil {
		return booking, nil
	}
	now := svc.now()
	if now.Before(booking.DateFrom) {
		return nil, fault.Conflictf(fault.CodeTooEarly, "check-in opens on the booking's start date")
	}

	booking.CheckInAt = &now
	booking.UpdatedAt = now
	if err := svc.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return booking, nil
}

// CheckOut records the guest's departure. Requires a prior check-in and
// cannot happen before the booking's end date.
func (svc *DefaultBookingService) CheckOut(ctx context.Context, guestID, bookingID string) (*models.Booking, error) {
	booking, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fault.NotFound("booking", bookingID)
	}
	if booking.GuestID != guestID {
		return nil, fault.Unauthorized("only the booking's guest may check out")
	}
	if booking.CheckInAt == nil {
		return nil, fault.Conflictf(fault.CodeNotConfirmed, "cannot check out before checking in")
	}
	if booking.CheckOutAt != nil {
		return booking, nil
	}

	now := svc.now()
	if now.Before(booking.DateTo) {
		return nil, fault.Conflictf(fault.CodeTooEarly, "check-out opens on the booking's end date")
	}
	booking.CheckOutAt = &now
	booking.UpdatedAt = now
	if err := svc.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to record check-out: %w", err)
	}
	return booking, nil
}
