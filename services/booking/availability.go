package booking

import (
	"context"
	"time"

	"banglabnb/models"
	"banglabnb/services/fault"
)

// CheckAvailability reports whether [from, to] is free on the listing.
// Returns nil when available; otherwise a typed conflict naming the reason.
// A nil result is advisory only: creation re-validates transactionally.
func (svc *DefaultBookingService) CheckAvailability(ctx context.Context, listingID string, from, to time.Time) error {
	if err := svc.validateDates(from, to); err != nil {
		return err
	}
	listing, err := svc.Listings.GetByID(ctx, listingID)
	if err != nil {
		return fault.NotFound("listing", listingID)
	}

	for _, blocked := range listing.BlockedDates {
		if blocked.Intersects(from, to) {
			return fault.Conflictf(fault.CodeBlocked, "listing is unavailable for those dates")
		}
	}

	existing, err := svc.Repo.FindOverlapping(ctx, listingID, from, to)
	if err != nil {
		return err
	}
	if existing != nil {
		return fault.Conflictf(fault.CodeDateOverlap, "already booked for those dates")
	}
	return nil
}

// validateDates rejects inverted or past intervals before touching storage.
func (svc *DefaultBookingService) validateDates(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fault.Invalid("both dates are required")
	}
	if !to.After(from) {
		return fault.Invalid("check-out date must be after check-in date")
	}
	if from.Before(svc.now().Truncate(24 * time.Hour)) {
		return fault.Invalid("check-in date cannot be in the past")
	}
	return nil
}

// ListingCalendar returns the date intervals currently held by non-cancelled
// bookings, for rendering an availability calendar.
func (svc *DefaultBookingService) ListingCalendar(ctx context.Context, listingID string) ([]models.DateRange, error) {
	return svc.Repo.ActiveRanges(ctx, listingID)
}
