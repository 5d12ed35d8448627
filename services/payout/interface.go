package payout

import (
	"context"
	"time"

	bookingRepo "banglabnb/database/repository/booking"
	listingRepo "banglabnb/database/repository/listing"
	payoutRepo "banglabnb/database/repository/payout"
	"banglabnb/models"
	"banglabnb/services/notification"
)

// PayoutService schedules host payouts for paid bookings once the guest has
// been checked in past the hold window.
type PayoutService interface {
	// ProcessDue scans for eligible bookings and issues one payout each.
	// Returns the number of payouts issued.
	ProcessDue(ctx context.Context) (int, error)
	ListHostPayouts(ctx context.Context, hostID string) ([]models.Payout, error)
}

// DefaultPayoutService implements PayoutService.
type DefaultPayoutService struct {
	Bookings bookingRepo.BookingRepository
	Listings listingRepo.ListingRepository
	Payouts  payoutRepo.PayoutRepository
	Disburse DisbursementClient
	Notifier notification.NotificationService

	// HoldHours is how long after check-in a payout becomes due.
	HoldHours int

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (svc *DefaultPayoutService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}
