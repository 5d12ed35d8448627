package booking

import (
	"context"
	"fmt"

	"banglabnb/models"
	"banglabnb/services/fault"

	"github.com/google/uuid"
)

// CreateBooking claims the date interval for the guest. The overlap invariant
// is re-validated inside the repository's transaction, so a concurrent create
// for an intersecting interval loses cleanly instead of double-booking.
func (svc *DefaultBookingService) CreateBooking(ctx context.Context, guestID string, input CreateBookingInput) (*models.Booking, error) {
	if guestID == "" {
		return nil, fault.Invalid("missing guest id")
	}
	if input.Guests < 1 {
		return nil, fault.Invalid("guest count must be at least 1")
	}
	if err := svc.validateDates(input.DateFrom, input.DateTo); err != nil {
		return nil, err
	}

	listing, err := svc.Listings.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, fault.NotFound("listing", input.ListingID)
	}
	if listing.MaxGuests > 0 && input.Guests > listing.MaxGuests {
		return nil, fault.Invalid("listing sleeps at most %d guests", listing.MaxGuests)
	}
	for _, blocked := range listing.BlockedDates {
		if blocked.Intersects(input.DateFrom, input.DateTo) {
			return nil, fault.Conflictf(fault.CodeBlocked, "listing is unavailable for those dates")
		}
	}

	now := svc.now()
	booking := &models.Booking{
		ID:            uuid.New().String(),
		ListingID:     listing.ID,
		GuestID:       guestID,
		DateFrom:      input.DateFrom,
		DateTo:        input.DateTo,
		Guests:        input.Guests,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ok, err := svc.Repo.CreateIfNoOverlap(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if !ok {
		return nil, fault.Conflictf(fault.CodeDateOverlap, "already booked for those dates")
	}

	svc.notify(ctx, listing.HostID, "booking_requested",
		fmt.Sprintf("New booking request for %s.", listing.Title),
		map[string]string{"booking_id": booking.ID, "listing_id": listing.ID})
	return booking, nil
}

// GetBooking fetches a booking by id.
func (svc *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := svc.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fault.NotFound("booking", id)
	}
	return booking, nil
}

// ListGuestBookings returns the guest's bookings, newest first.
func (svc *DefaultBookingService) ListGuestBookings(ctx context.Context, guestID string) ([]models.Booking, error) {
	return svc.Repo.ListByGuest(ctx, guestID)
}

// ListHostBookings returns bookings across every listing the host owns.
func (svc *DefaultBookingService) ListHostBookings(ctx context.Context, hostID string) ([]models.Booking, error) {
	listings, err := svc.Listings.ListByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list host listings: %w", err)
	}
	if len(listings) == 0 {
		return []models.Booking{}, nil
	}
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return svc.Repo.ListByListings(ctx, ids)
}
