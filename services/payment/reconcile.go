package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"banglabnb/models"
	"banglabnb/services/fault"
	"banglabnb/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recordEvent durably logs the callback before any processing. A delivery we
// crash on can then be replayed from the event stream.
func (svc *DefaultPaymentService) recordEvent(ctx context.Context, tranID, kind string, payload map[string]string) {
	event := &models.PaymentEvent{
		ID:            uuid.New().String(),
		TransactionID: tranID,
		Kind:          kind,
		Payload:       payload,
		ReceivedAt:    svc.now(),
	}
	if err := svc.Events.Append(ctx, event); err != nil {
		utils.GetLogger().Error("failed to log payment event",
			zap.String("tranID", tranID), zap.String("kind", kind), zap.Error(err))
	}
}

// lock serializes concurrent deliveries of one transaction id. Best effort:
// the conditional updates stay correct without it, so a lost lock only means
// duplicate work, never a double flip.
func (svc *DefaultPaymentService) lock(ctx context.Context, tranID string) func() {
	if svc.Locker == nil {
		return func() {}
	}
	key := "paylock:" + tranID
	svc.Locker.SetNX(ctx, key, "1", 30*time.Second)
	return func() { svc.Locker.Del(context.Background(), key) }
}

// orderKind extracts the prefix from "{PREFIX}_{orderID}_{timestamp}".
func orderKind(tranID string) string {
	if i := strings.IndexByte(tranID, '_'); i > 0 {
		return tranID[:i]
	}
	return ""
}

// HandleSuccess applies a successful payment callback. Idempotent: the flip
// to paid is a conditional update, so only the first delivery reports
// Applied and fires side effects; duplicates resolve to Applied=false.
func (svc *DefaultPaymentService) HandleSuccess(ctx context.Context, tranID, valID string, amount float64) (*CallbackResult, error) {
	if tranID == "" {
		return nil, fault.Invalid("missing transaction id")
	}
	svc.recordEvent(ctx, tranID, "success", map[string]string{
		"val_id": valID, "amount": fmt.Sprintf("%.2f", amount),
	})
	unlock := svc.lock(ctx, tranID)
	defer unlock()

	return svc.applyPaid(ctx, tranID, valID, amount)
}

// applyPaid routes the flip by transaction prefix and settles both halves of
// a combined order. Called from both the success redirect and the IPN.
func (svc *DefaultPaymentService) applyPaid(ctx context.Context, tranID, valID string, amount float64) (*CallbackResult, error) {
	now := svc.now()

	switch orderKind(tranID) {
	case PrefixBooking, PrefixCombined:
		booking, err := svc.Bookings.GetByTransactionID(ctx, tranID)
		if err != nil {
			return nil, fault.NotFound("order for transaction", tranID)
		}
		applied, err := svc.Bookings.MarkPaid(ctx, tranID, valID, amount, now)
		if err != nil {
			return nil, fmt.Errorf("failed to mark booking paid: %w", err)
		}

		// The ride leg of a combined order is settled by booking id so a
		// crash between the two writes is repaired by redelivery.
		if booking.Combined && booking.TripID != "" {
			tripApplied, terr := svc.Trips.MarkPassengerPaidByBooking(ctx, booking.TripID, booking.ID, valID, amount, now)
			if terr != nil {
				return nil, fault.Inconsistent("combined order %s: stay settled but ride leg failed: %v", booking.ID, terr)
			}
			// A delivery that only repaired the ride leg still counts as
			// applied so its side effects fire once.
			applied = applied || tripApplied
		}

		result := &CallbackResult{TransactionID: tranID, Applied: applied, OrderKind: orderKind(tranID), OrderID: booking.ID}
		if applied {
			svc.notify(ctx, booking.GuestID, "payment_received",
				"Your payment was received and the reservation is confirmed.",
				map[string]string{"booking_id": booking.ID, "transaction_id": tranID})
		}
		return result, nil

	case PrefixTrip:
		trip, err := svc.Trips.FindByPassengerTransaction(ctx, tranID)
		if err != nil || trip == nil {
			return nil, fault.NotFound("order for transaction", tranID)
		}
		applied, err := svc.Trips.MarkPassengerPaidByTransaction(ctx, tranID, valID, amount, now)
		if err != nil {
			return nil, fmt.Errorf("failed to mark reservation paid: %w", err)
		}

		result := &CallbackResult{TransactionID: tranID, Applied: applied, OrderKind: PrefixTrip, OrderID: trip.ID}
		if applied {
			for _, p := range trip.Passengers {
				if p.TransactionID == tranID {
					svc.notify(ctx, p.UserID, "payment_received",
						"Your seat payment was received.",
						map[string]string{"trip_id": trip.ID, "transaction_id": tranID})
					break
				}
			}
			svc.notify(ctx, trip.DriverID, "seat_paid",
				fmt.Sprintf("A seat on your trip %s to %s was paid.", trip.From, trip.To),
				map[string]string{"trip_id": trip.ID})
		}
		return result, nil
	}

	return nil, fault.Invalid("unrecognized transaction id %q", tranID)
}

// HandleFailure records a failed or abandoned checkout. A booking already
// flipped to paid is never downgraded.
func (svc *DefaultPaymentService) HandleFailure(ctx context.Context, tranID string) error {
	if tranID == "" {
		return fault.Invalid("missing transaction id")
	}
	svc.recordEvent(ctx, tranID, "failure", nil)

	switch orderKind(tranID) {
	case PrefixBooking, PrefixCombined:
		return svc.Bookings.MarkPaymentFailed(ctx, tranID)
	case PrefixTrip:
		// The passenger entry stays pending; the rider can retry, which
		// mints a fresh transaction id.
		return nil
	}
	return fault.Invalid("unrecognized transaction id %q", tranID)
}

// HandleIPN applies the gateway's server-to-server notification. Only a
// VALID status settles the order; anything else records a failure. The IPN
// and the success redirect race freely; whichever lands first wins the flip.
func (svc *DefaultPaymentService) HandleIPN(ctx context.Context, tranID, status, valID string, amount float64, payload map[string]string) (*CallbackResult, error) {
	if tranID == "" {
		return nil, fault.Invalid("missing transaction id")
	}
	svc.recordEvent(ctx, tranID, "ipn", payload)
	unlock := svc.lock(ctx, tranID)
	defer unlock()

	if status != "VALID" {
		if err := svc.HandleFailure(ctx, tranID); err != nil {
			return nil, err
		}
		return &CallbackResult{TransactionID: tranID, Applied: false, OrderKind: orderKind(tranID)}, nil
	}
	return svc.applyPaid(ctx, tranID, valID, amount)
}

// ListEvents returns the recorded deliveries for a transaction id.
func (svc *DefaultPaymentService) ListEvents(ctx context.Context, tranID string) ([]models.PaymentEvent, error) {
	return svc.Events.ListByTransaction(ctx, tranID)
}
