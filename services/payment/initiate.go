package payment

import (
	"context"
	"fmt"

	"banglabnb/models"
	"banglabnb/services/fault"
)

// mintTransactionID builds "{PREFIX}_{orderID}_{unix-millis}". The timestamp
// makes retried initiations mint fresh ids, so a stale gateway session can
// never complete against a newer one.
func (svc *DefaultPaymentService) mintTransactionID(prefix, orderID string) string {
	return fmt.Sprintf("%s_%s_%d", prefix, orderID, svc.now().UnixMilli())
}

// InitiateBookingPayment opens a gateway session for a booking or combined
// order. The transaction id is persisted on the order BEFORE the gateway is
// called, so a callback racing the initiation response can still resolve it.
func (svc *DefaultPaymentService) InitiateBookingPayment(ctx context.Context, guestID, bookingID string, amount float64, customer models.Customer) (*Session, error) {
	if amount <= 0 {
		return nil, fault.Invalid("payment amount must be positive")
	}
	booking, err := svc.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fault.NotFound("booking", bookingID)
	}
	if booking.GuestID != guestID {
		return nil, fault.Unauthorized("only the booking's guest may pay for it")
	}
	if booking.Status == models.BookingCancelled {
		return nil, fault.Conflictf(fault.CodeCancelled, "cancelled bookings cannot be paid")
	}
	if booking.PaymentStatus == models.PaymentPaid {
		return nil, fault.Conflictf(fault.CodeDuplicateReservation, "booking is already paid")
	}

	prefix, kind := PrefixBooking, "booking"
	if booking.Combined {
		prefix, kind = PrefixCombined, "combined"
	}
	tranID := svc.mintTransactionID(prefix, booking.ID)
	if err := svc.Bookings.SetTransaction(ctx, booking.ID, tranID); err != nil {
		return nil, fmt.Errorf("failed to record transaction id: %w", err)
	}

	session, err := svc.Gateway.CreateSession(ctx, SessionRequest{
		TransactionID: tranID,
		Amount:        amount,
		ProductName:   "Lodging reservation",
		Customer:      customer,
		ValueA:        kind,
		ValueB:        booking.ID,
	})
	if err != nil {
		// The order keeps its minted id but stays unpaid; a retry mints a
		// fresh id and overwrites it.
		return nil, err
	}
	return session, nil
}

// InitiateTripPayment opens a gateway session for a standalone seat
// reservation. The id lands on the rider's embedded passenger entry.
func (svc *DefaultPaymentService) InitiateTripPayment(ctx context.Context, riderID, tripID string, customer models.Customer) (*Session, error) {
	trip, err := svc.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fault.NotFound("trip", tripID)
	}
	entry := trip.ActivePassenger(riderID)
	if entry == nil {
		return nil, fault.NotFound("reservation", tripID)
	}
	if entry.PaymentStatus == models.PaymentPaid {
		return nil, fault.Conflictf(fault.CodeDuplicateReservation, "reservation is already paid")
	}

	tranID := svc.mintTransactionID(PrefixTrip, trip.ID)
	ok, err := svc.Trips.SetPassengerTransaction(ctx, trip.ID, riderID, tranID)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction id: %w", err)
	}
	if !ok {
		return nil, fault.NotFound("reservation", tripID)
	}

	amount := trip.FarePerSeat * float64(entry.Seats)
	return svc.Gateway.CreateSession(ctx, SessionRequest{
		TransactionID: tranID,
		Amount:        amount,
		ProductName:   fmt.Sprintf("Ride %s to %s", trip.From, trip.To),
		Customer:      customer,
		ValueA:        "trip",
		ValueB:        trip.ID,
	})
}
