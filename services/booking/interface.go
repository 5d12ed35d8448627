package booking

import (
	"context"
	"time"

	bookingRepo "banglabnb/database/repository/booking"
	listingRepo "banglabnb/database/repository/listing"
	"banglabnb/models"
	"banglabnb/services/notification"
	"banglabnb/services/trip"
	"banglabnb/utils"

	"go.uber.org/zap"
)

// CreateBookingInput is the validated request for claiming a date interval.
type CreateBookingInput struct {
	ListingID string    `json:"listing_id"`
	DateFrom  time.Time `json:"date_from"`
	DateTo    time.Time `json:"date_to"`
	Guests    int       `json:"guests"`
}

// CombinedOrderInput bundles a stay with an optional ride leg. When TripID is
// empty the order degenerates to a plain booking with a price breakdown.
type CombinedOrderInput struct {
	CreateBookingInput
	TripID       string  `json:"trip_id,omitempty"`
	DiscountRate float64 `json:"discount_rate,omitempty"`
}

// BookingService manages the lodging booking state machine and the combined
// stay+ride coordinator. Acting users are passed explicitly on every call.
type BookingService interface {
	CheckAvailability(ctx context.Context, listingID string, from, to time.Time) error
	CreateBooking(ctx context.Context, guestID string, input CreateBookingInput) (*models.Booking, error)
	CreateCombinedOrder(ctx context.Context, guestID string, input CombinedOrderInput) (*models.CombinedOrderResult, error)
	QuotePrice(ctx context.Context, input CombinedOrderInput) (*models.PriceBreakdown, error)

	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListGuestBookings(ctx context.Context, guestID string) ([]models.Booking, error)
	ListHostBookings(ctx context.Context, hostID string) ([]models.Booking, error)
	ListingCalendar(ctx context.Context, listingID string) ([]models.DateRange, error)

	AcceptBooking(ctx context.Context, hostID, bookingID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	CheckIn(ctx context.Context, guestID, bookingID string) (*models.Booking, error)
	CheckOut(ctx context.Context, guestID, bookingID string) (*models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Listings listingRepo.ListingRepository
	Trips    trip.TripService
	Notifier notification.NotificationService

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (svc *DefaultBookingService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// notify is fire-and-forget; failures are logged and never surfaced.
func (svc *DefaultBookingService) notify(ctx context.Context, userID, kind, message string, data map[string]string) {
	if svc.Notifier == nil {
		return
	}
	if err := svc.Notifier.Notify(ctx, userID, kind, message, data); err != nil {
		utils.GetLogger().Warn("booking notification failed",
			zap.String("userID", userID), zap.String("kind", kind), zap.Error(err))
	}
}
