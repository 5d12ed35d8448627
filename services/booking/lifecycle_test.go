package booking

import (
	"context"
	"testing"
	"time"

	"banglabnb/models"
	"banglabnb/services/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func newTestService() (*DefaultBookingService, *fakeBookingRepo, *fakeListingRepo, *fakeNotifier) {
	repo := newFakeBookingRepo()
	listings := &fakeListingRepo{listings: map[string]*models.Listing{
		"listing-1": {
			ID:        "listing-1",
			HostID:    "host-1",
			Title:     "Lakeside cottage",
			Price:     1500,
			MaxGuests: 4,
			BlockedDates: []models.DateRange{
				{From: day(20), To: day(22)},
			},
		},
	}}
	notifier := &fakeNotifier{}
	svc := &DefaultBookingService{
		Repo:     repo,
		Listings: listings,
		Notifier: notifier,
		Now:      func() time.Time { return baseTime },
	}
	return svc, repo, listings, notifier
}

func mustCreate(t *testing.T, svc *DefaultBookingService, guestID string, from, to time.Time) *models.Booking {
	t.Helper()
	b, err := svc.CreateBooking(context.Background(), guestID, CreateBookingInput{
		ListingID: "listing-1",
		DateFrom:  from,
		DateTo:    to,
		Guests:    2,
	})
	require.NoError(t, err)
	return b
}

func TestCheckAvailability(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	t.Run("free interval", func(t *testing.T) {
		assert.NoError(t, svc.CheckAvailability(ctx, "listing-1", day(5), day(8)))
	})

	t.Run("inverted dates", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, "listing-1", day(8), day(5))
		assert.Equal(t, fault.KindInvalidInput, fault.KindOf(err))
	})

	t.Run("past start", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, "listing-1", day(-2), day(3))
		assert.Equal(t, fault.KindInvalidInput, fault.KindOf(err))
	})

	t.Run("host-blocked range", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, "listing-1", day(21), day(24))
		assert.Equal(t, fault.CodeBlocked, fault.CodeOf(err))
	})

	t.Run("unknown listing", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, "missing", day(5), day(8))
		assert.Equal(t, fault.KindNotFound, fault.KindOf(err))
	})
}

func TestCreateBookingOverlap(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "guest-1", day(5), day(8))

	// Touching intervals overlap under the closed comparison.
	cases := []struct{ from, to time.Time }{
		{day(5), day(8)},  // identical
		{day(6), day(7)},  // contained
		{day(3), day(5)},  // touches the start
		{day(8), day(10)}, // touches the end
	}
	for _, tc := range cases {
		_, err := svc.CreateBooking(ctx, "guest-2", CreateBookingInput{
			ListingID: "listing-1", DateFrom: tc.from, DateTo: tc.to, Guests: 1,
		})
		assert.Equal(t, fault.CodeDateOverlap, fault.CodeOf(err))
	}

	// Disjoint interval is fine.
	_, err := svc.CreateBooking(ctx, "guest-2", CreateBookingInput{
		ListingID: "listing-1", DateFrom: day(9), DateTo: day(11), Guests: 1,
	})
	assert.NoError(t, err)
}

func TestCreateBookingCapacity(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateBooking(context.Background(), "guest-1", CreateBookingInput{
		ListingID: "listing-1", DateFrom: day(5), DateTo: day(8), Guests: 9,
	})
	assert.Equal(t, fault.KindInvalidInput, fault.KindOf(err))
}

func TestCancelledBookingReleasesDates(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc, "guest-1", day(5), day(8))

	_, err := svc.CancelBooking(ctx, "guest-1", b.ID)
	require.NoError(t, err)

	// The interval is immediately reusable.
	_, err = svc.CreateBooking(ctx, "guest-2", CreateBookingInput{
		ListingID: "listing-1", DateFrom: day(5), DateTo: day(8), Guests: 1,
	})
	assert.NoError(t, err)
}

func TestAcceptBooking(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc, "guest-1", day(5), day(8))

	_, err := svc.AcceptBooking(ctx, "not-the-host", b.ID)
	assert.Equal(t, fault.KindUnauthorized, fault.KindOf(err))

	accepted, err := svc.AcceptBooking(ctx, "host-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, accepted.Status)
	assert.Equal(t, 1, notifier.count("booking_accepted"))

	// Idempotent on retry; no second notification.
	again, err := svc.AcceptBooking(ctx, "host-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, again.Status)
	assert.Equal(t, 1, notifier.count("booking_accepted"))
}

func TestCancelBookingAuthorizationAndRefundFlag(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc, "guest-1", day(5), day(8))

	_, err := svc.CancelBooking(ctx, "stranger", b.ID)
	assert.Equal(t, fault.KindUnauthorized, fault.KindOf(err))

	// Paid bookings carry the refund flag after cancellation.
	stored, _ := repo.GetByID(ctx, b.ID)
	stored.PaymentStatus = models.PaymentPaid
	require.NoError(t, repo.Update(ctx, stored))

	cancelled, err := svc.CancelBooking(ctx, "host-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.True(t, cancelled.RefundOwed)
	assert.Equal(t, "host-1", cancelled.CancelledBy)

	// Cancelling again is a no-op.
	again, err := svc.CancelBooking(ctx, "guest-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "host-1", again.CancelledBy)
}

func TestCheckInRules(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc, "guest-1", day(5), day(8))

	// Pending bookings cannot check in.
	_, err := svc.CheckIn(ctx, "guest-1", b.ID)
	assert.Equal(t, fault.CodeNotConfirmed, fault.CodeOf(err))

	_, err = svc.AcceptBooking(ctx, "host-1", b.ID)
	require.NoError(t, err)

	// Before the start date.
	_, err = svc.CheckIn(ctx, "guest-1", b.ID)
	assert.Equal(t, fault.CodeTooEarly, fault.CodeOf(err))

	svc.Now = func() time.Time { return day(5).Add(15 * time.Hour) }
	checked, err := svc.CheckIn(ctx, "guest-1", b.ID)
	require.NoError(t, err)
	require.NotNil(t, checked.CheckInAt)
	firstCheckIn := *checked.CheckInAt

	// Repeat check-in keeps the original timestamp.
	svc.Now = func() time.Time { return day(6) }
	again, err := svc.CheckIn(ctx, "guest-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, firstCheckIn, *again.CheckInAt)

	_, err = svc.CheckIn(ctx, "someone-else", b.ID)
	assert.Equal(t, fault.KindUnauthorized, fault.KindOf(err))
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc, "guest-1", day(5), day(8))
	_, err := svc.AcceptBooking(ctx, "host-1", b.ID)
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, "guest-1", b.ID)
	assert.Equal(t, fault.CodeNotConfirmed, fault.CodeOf(err))

	svc.Now = func() time.Time { return day(5).Add(15 * time.Hour) }
	_, err = svc.CheckIn(ctx, "guest-1", b.ID)
	require.NoError(t, err)

	// Checked in but the stay is not over yet.
	svc.Now = func() time.Time { return day(6) }
	_, err = svc.CheckOut(ctx, "guest-1", b.ID)
	assert.Equal(t, fault.CodeTooEarly, fault.CodeOf(err))

	svc.Now = func() time.Time { return day(8).Add(10 * time.Hour) }
	out, err := svc.CheckOut(ctx, "guest-1", b.ID)
	require.NoError(t, err)
	require.NotNil(t, out.CheckOutAt)

	// Repeat check-out keeps the original timestamp.
	firstCheckOut := *out.CheckOutAt
	svc.Now = func() time.Time { return day(9) }
	again, err := svc.CheckOut(ctx, "guest-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, firstCheckOut, *again.CheckOutAt)
}

func TestCancelBookingAfterCheckIn(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc, "guest-1", day(5), day(8))
	_, err := svc.AcceptBooking(ctx, "host-1", b.ID)
	require.NoError(t, err)

	svc.Now = func() time.Time { return day(5).Add(15 * time.Hour) }
	_, err = svc.CheckIn(ctx, "guest-1", b.ID)
	require.NoError(t, err)

	// A checked-in stay can still be cancelled, up until check-out.
	svc.Now = func() time.Time { return day(6) }
	cancelled, err := svc.CancelBooking(ctx, "guest-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
}

func TestCancelBookingAfterCheckOut(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, svc, "guest-1", day(5), day(8))
	_, err := svc.AcceptBooking(ctx, "host-1", b.ID)
	require.NoError(t, err)

	svc.Now = func() time.Time { return day(5).Add(15 * time.Hour) }
	_, err = svc.CheckIn(ctx, "guest-1", b.ID)
	require.NoError(t, err)
	svc.Now = func() time.Time { return day(8).Add(10 * time.Hour) }
	_, err = svc.CheckOut(ctx, "guest-1", b.ID)
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, "guest-1", b.ID)
	assert.Equal(t, fault.CodeCancelled, fault.CodeOf(err))
}
