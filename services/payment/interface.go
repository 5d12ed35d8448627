package payment

import (
	"context"
	"time"

	bookingRepo "banglabnb/database/repository/booking"
	paymentRepo "banglabnb/database/repository/payment"
	tripRepo "banglabnb/database/repository/trip"
	"banglabnb/models"
	"banglabnb/services/notification"
	"banglabnb/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Transaction id prefixes. The prefix names the order kind so a callback can
// be routed without a registry lookup.
const (
	PrefixBooking  = "BNB"
	PrefixCombined = "COMBINED"
	PrefixTrip     = "TRIP"
)

// CallbackResult tells the handler what the reconciliation concluded.
type CallbackResult struct {
	TransactionID string `json:"transaction_id"`
	Applied       bool   `json:"applied"` // false on a duplicate delivery
	OrderKind     string `json:"order_kind"`
	OrderID       string `json:"order_id"`
}

// PaymentService initiates gateway sessions and reconciles their callbacks.
// Reconciliation is idempotent: any callback may be delivered any number of
// times, and the paid flip with its side effects happens exactly once.
type PaymentService interface {
	InitiateBookingPayment(ctx context.Context, guestID, bookingID string, amount float64, customer models.Customer) (*Session, error)
	InitiateTripPayment(ctx context.Context, riderID, tripID string, customer models.Customer) (*Session, error)

	HandleSuccess(ctx context.Context, tranID, valID string, amount float64) (*CallbackResult, error)
	HandleFailure(ctx context.Context, tranID string) error
	HandleIPN(ctx context.Context, tranID, status, valID string, amount float64, payload map[string]string) (*CallbackResult, error)

	ListEvents(ctx context.Context, tranID string) ([]models.PaymentEvent, error)
}

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	Bookings bookingRepo.BookingRepository
	Trips    tripRepo.TripRepository
	Events   paymentRepo.EventRepository
	Gateway  GatewayClient
	Notifier notification.NotificationService

	// Locker serializes concurrent deliveries of the same transaction id.
	// Nil disables locking; the conditional updates stay correct without it,
	// locking only removes wasted duplicate work.
	Locker *redis.Client

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (svc *DefaultPaymentService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

func (svc *DefaultPaymentService) notify(ctx context.Context, userID, kind, message string, data map[string]string) {
	if svc.Notifier == nil {
		return
	}
	if err := svc.Notifier.Notify(ctx, userID, kind, message, data); err != nil {
		utils.GetLogger().Warn("payment notification failed",
			zap.String("userID", userID), zap.String("kind", kind), zap.Error(err))
	}
}
