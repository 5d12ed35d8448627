package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "banglabnb/database/repository/booking"
	listingRepo "banglabnb/database/repository/listing"
	"banglabnb/models"
)

// fakeBookingRepo reproduces the conditional semantics of the Mongo
// repository: overlap-guarded insert and the once-only paid flip.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	deleted  []string
}

var _ bookingRepo.BookingRepository = (*fakeBookingRepo)(nil)

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*models.Booking{}}
}

func (f *fakeBookingRepo) CreateIfNoOverlap(ctx context.Context, b *models.Booking) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bookings {
		if existing.ListingID == b.ListingID && existing.Active() && existing.Overlaps(b.DateFrom, b.DateTo) {
			return false, nil
		}
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return true, nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) GetByTransactionID(ctx context.Context, tranID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TransactionID == tranID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bookings, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBookingRepo) FindOverlapping(ctx context.Context, listingID string, from, to time.Time) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ListingID == listingID && b.Active() && b.Overlaps(from, to) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) ListByGuest(ctx context.Context, guestID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.GuestID == guestID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByListings(ctx context.Context, listingIDs []string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := map[string]bool{}
	for _, id := range listingIDs {
		ids[id] = true
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if ids[b.ListingID] {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ActiveRanges(ctx context.Context, listingID string) ([]models.DateRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DateRange
	for _, b := range f.bookings {
		if b.ListingID == listingID && b.Active() {
			out = append(out, models.DateRange{From: b.DateFrom, To: b.DateTo})
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) SetTransaction(ctx context.Context, bookingID, tranID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[bookingID]; ok {
		b.TransactionID = tranID
		b.PaymentStatus = models.PaymentUnpaid
	}
	return nil
}

func (f *fakeBookingRepo) MarkPaid(ctx context.Context, tranID, valID string, amount float64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TransactionID == tranID && b.PaymentStatus != models.PaymentPaid {
			b.PaymentStatus = models.PaymentPaid
			b.Status = models.BookingConfirmed
			b.GatewayValID = valID
			b.PaidAmount = amount
			b.PaidAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) MarkPaymentFailed(ctx context.Context, tranID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TransactionID == tranID && b.PaymentStatus != models.PaymentPaid {
			b.PaymentStatus = models.PaymentFailed
		}
	}
	return nil
}

func (f *fakeBookingRepo) ListPayoutEligible(ctx context.Context, checkedInBefore time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.PaymentStatus == models.PaymentPaid && !b.PayoutIssued &&
			b.CheckInAt != nil && !b.CheckInAt.After(checkedInBefore) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkPayoutIssued(ctx context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[bookingID]; ok {
		b.PayoutIssued = true
	}
	return nil
}

// fakeListingRepo serves listings from a map.
type fakeListingRepo struct {
	listings map[string]*models.Listing
}

var _ listingRepo.ListingRepository = (*fakeListingRepo)(nil)

func (f *fakeListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, listingRepo.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) ListByHost(ctx context.Context, hostID string) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.listings {
		if l.HostID == hostID {
			out = append(out, *l)
		}
	}
	return out, nil
}

// fakeNotifier records notifications instead of queueing them.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

type notifyCall struct {
	UserID string
	Kind   string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, kind, message string, data map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{UserID: userID, Kind: kind})
	return nil
}

func (f *fakeNotifier) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
