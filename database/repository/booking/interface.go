package bookingRepo

import (
	"context"
	"time"

	"banglabnb/models"
)

// BookingRepository defines data access for lodging bookings. Mutations that
// guard invariants (overlap-free creation, the unpaid-to-paid flip) are single
// conditional operations so two concurrent writers cannot both succeed.
type BookingRepository interface {
	// CreateIfNoOverlap re-validates the overlap condition and inserts the
	// booking inside one transaction. Returns false when a competing
	// non-cancelled booking holds an intersecting interval.
	CreateIfNoOverlap(ctx context.Context, booking *models.Booking) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByTransactionID(ctx context.Context, tranID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error

	FindOverlapping(ctx context.Context, listingID string, from, to time.Time) (*models.Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]models.Booking, error)
	ListByListings(ctx context.Context, listingIDs []string) ([]models.Booking, error)
	ActiveRanges(ctx context.Context, listingID string) ([]models.DateRange, error)

	SetTransaction(ctx context.Context, bookingID, tranID string) error
	// MarkPaid flips the order to paid and confirmed only if it is not
	// already paid. Returns false on a duplicate delivery.
	MarkPaid(ctx context.Context, tranID, valID string, amount float64, at time.Time) (bool, error)
	MarkPaymentFailed(ctx context.Context, tranID string) error

	ListPayoutEligible(ctx context.Context, checkedInBefore time.Time) ([]models.Booking, error)
	MarkPayoutIssued(ctx context.Context, bookingID string) error
}
