package payment

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	bookingRepo "banglabnb/database/repository/booking"
	tripRepo "banglabnb/database/repository/trip"
	"banglabnb/models"
	"banglabnb/services/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeBookings implements only the repository methods payments touch; the
// embedded interface panics on anything else.
type fakeBookings struct {
	bookingRepo.BookingRepository
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookings(bookings ...*models.Booking) *fakeBookings {
	f := &fakeBookings{bookings: map[string]*models.Booking{}}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookings) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) GetByTransactionID(ctx context.Context, tranID string) (*models.Booking, error) {
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

func (f *fakeBookings) SetTransaction(ctx context.Context, bookingID, tranID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[bookingID]; ok {
		b.TransactionID = tranID
		b.PaymentStatus = models.PaymentUnpaid
	}
	return nil
}

func (f *fakeBookings) MarkPaid(ctx context.Context, tranID, valID string, amount float64, at time.Time) (bool, error) {
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

func (f *fakeBookings) MarkPaymentFailed(ctx context.Context, tranID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TransactionID == tranID && b.PaymentStatus != models.PaymentPaid {
			b.PaymentStatus = models.PaymentFailed
		}
	}
	return nil
}

// fakeTrips mirrors the passenger-entry conditional updates.
type fakeTrips struct {
	tripRepo.TripRepository
	mu    sync.Mutex
	trips map[string]*models.Trip
}

func newFakeTrips(trips ...*models.Trip) *fakeTrips {
	f := &fakeTrips{trips: map[string]*models.Trip{}}
	for _, t := range trips {
		f.trips[t.ID] = t
	}
	return f
}

func (f *fakeTrips) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok {
		return nil, tripRepo.ErrNotFound
	}
	cp := *t
	cp.Passengers = append([]models.TripPassenger(nil), t.Passengers...)
	return &cp, nil
}

func (f *fakeTrips) SetPassengerTransaction(ctx context.Context, tripID, userID, tranID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[tripID]
	if !ok {
		return false, nil
	}
	for i := range t.Passengers {
		if t.Passengers[i].UserID == userID && t.Passengers[i].Status != models.PassengerCancelled {
			t.Passengers[i].TransactionID = tranID
			t.Passengers[i].PaymentStatus = models.PaymentPending
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTrips) FindByPassengerTransaction(ctx context.Context, tranID string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.trips {
		for _, p := range t.Passengers {
			if p.TransactionID == tranID {
				cp := *t
				cp.Passengers = append([]models.TripPassenger(nil), t.Passengers...)
				return &cp, nil
			}
		}
	}
	return nil, tripRepo.ErrNotFound
}

func (f *fakeTrips) MarkPassengerPaidByTransaction(ctx context.Context, tranID, valID string, amount float64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.trips {
		for i := range t.Passengers {
			if t.Passengers[i].TransactionID == tranID && t.Passengers[i].PaymentStatus != models.PaymentPaid {
				t.Passengers[i].PaymentStatus = models.PaymentPaid
				t.Passengers[i].GatewayValID = valID
				t.Passengers[i].PaidAmount = amount
				t.Passengers[i].PaidAt = &at
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeTrips) MarkPassengerPaidByBooking(ctx context.Context, tripID, bookingID, valID string, amount float64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[tripID]
	if !ok {
		return false, nil
	}
	for i := range t.Passengers {
		if t.Passengers[i].BookingID == bookingID && t.Passengers[i].PaymentStatus != models.PaymentPaid {
			t.Passengers[i].PaymentStatus = models.PaymentPaid
			t.Passengers[i].GatewayValID = valID
			t.Passengers[i].PaidAmount = amount
			t.Passengers[i].PaidAt = &at
			return true, nil
		}
	}
	return false, nil
}

// fakeEvents records callback payloads in order.
type fakeEvents struct {
	mu     sync.Mutex
	events []models.PaymentEvent
}

func (f *fakeEvents) Append(ctx context.Context, event *models.PaymentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEvents) ListByTransaction(ctx context.Context, tranID string) ([]models.PaymentEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PaymentEvent
	for _, e := range f.events {
		if e.TransactionID == tranID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeGateway records session requests and returns a canned redirect.
type fakeGateway struct {
	requests []SessionRequest
	err      error
}

func (f *fakeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &Session{TransactionID: req.TransactionID, GatewayPageURL: "https://gateway.example/pay"}, nil
}

type recordedNotify struct {
	UserID string
	Kind   string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []recordedNotify
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, kind, message string, data map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedNotify{UserID: userID, Kind: kind})
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

func newTestService(bookings *fakeBookings, trips *fakeTrips) (*DefaultPaymentService, *fakeGateway, *fakeEvents, *fakeNotifier) {
	gateway := &fakeGateway{}
	events := &fakeEvents{}
	notifier := &fakeNotifier{}
	svc := &DefaultPaymentService{
		Bookings: bookings,
		Trips:    trips,
		Events:   events,
		Gateway:  gateway,
		Notifier: notifier,
		Now:      func() time.Time { return baseTime },
	}
	return svc, gateway, events, notifier
}

func pendingBooking(id string, combined bool, tripID string) *models.Booking {
	return &models.Booking{
		ID:            id,
		ListingID:     "listing-1",
		GuestID:       "guest-1",
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentUnpaid,
		Combined:      combined,
		TripID:        tripID,
	}
}

func TestInitiateBookingPaymentMintsPrefixedID(t *testing.T) {
	bookings := newFakeBookings(pendingBooking("bk-1", false, ""))
	svc, gateway, _, _ := newTestService(bookings, newFakeTrips())
	ctx := context.Background()

	session, err := svc.InitiateBookingPayment(ctx, "guest-1", "bk-1", 4350, models.Customer{Name: "Guest"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(session.TransactionID, "BNB_bk-1_"), session.TransactionID)

	// The id is durably on the booking before the gateway was called.
	stored, err := bookings.GetByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, session.TransactionID, stored.TransactionID)
	require.Len(t, gateway.requests, 1)
	assert.Equal(t, float64(4350), gateway.requests[0].Amount)
}

func TestInitiateCombinedPaymentUsesCombinedPrefix(t *testing.T) {
	bookings := newFakeBookings(pendingBooking("bk-2", true, "trip-1"))
	svc, _, _, _ := newTestService(bookings, newFakeTrips())

	session, err := svc.InitiateBookingPayment(context.Background(), "guest-1", "bk-2", 5000, models.Customer{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(session.TransactionID, "COMBINED_bk-2_"), session.TransactionID)
}

func TestInitiateBookingPaymentGuards(t *testing.T) {
	paid := pendingBooking("bk-3", false, "")
	paid.PaymentStatus = models.PaymentPaid
	cancelled := pendingBooking("bk-4", false, "")
	cancelled.Status = models.BookingCancelled
	bookings := newFakeBookings(paid, cancelled)
	svc, _, _, _ := newTestService(bookings, newFakeTrips())
	ctx := context.Background()

	_, err := svc.InitiateBookingPayment(ctx, "guest-1", "bk-3", 100, models.Customer{})
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))

	_, err = svc.InitiateBookingPayment(ctx, "guest-1", "bk-4", 100, models.Customer{})
	assert.Equal(t, fault.CodeCancelled, fault.CodeOf(err))

	_, err = svc.InitiateBookingPayment(ctx, "someone-else", "bk-3", 100, models.Customer{})
	assert.Equal(t, fault.KindUnauthorized, fault.KindOf(err))

	_, err = svc.InitiateBookingPayment(ctx, "guest-1", "bk-3", 0, models.Customer{})
	assert.Equal(t, fault.KindInvalidInput, fault.KindOf(err))
}

func TestInitiateBookingPaymentGatewayFailureLeavesOrderUnpaid(t *testing.T) {
	bookings := newFakeBookings(pendingBooking("bk-5", false, ""))
	svc, gateway, _, _ := newTestService(bookings, newFakeTrips())
	gateway.err = fault.Upstream("gateway refused session", nil)

	_, err := svc.InitiateBookingPayment(context.Background(), "guest-1", "bk-5", 100, models.Customer{})
	assert.Equal(t, fault.KindUpstream, fault.KindOf(err))

	stored, _ := bookings.GetByID(context.Background(), "bk-5")
	assert.Equal(t, models.PaymentUnpaid, stored.PaymentStatus)
}

func TestInitiateTripPayment(t *testing.T) {
	trips := newFakeTrips(&models.Trip{
		ID:          "trip-1",
		DriverID:    "driver-1",
		From:        "Dhaka",
		To:          "Sylhet",
		FarePerSeat: 300,
		TotalSeats:  4,
		Passengers: []models.TripPassenger{
			{UserID: "rider-1", Seats: 2, Status: models.PassengerReserved, PaymentStatus: models.PaymentPending},
		},
	})
	svc, gateway, _, _ := newTestService(newFakeBookings(), trips)

	session, err := svc.InitiateTripPayment(context.Background(), "rider-1", "trip-1", models.Customer{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(session.TransactionID, "TRIP_trip-1_"), session.TransactionID)
	require.Len(t, gateway.requests, 1)
	assert.Equal(t, float64(600), gateway.requests[0].Amount)

	stored, _ := trips.GetByID(context.Background(), "trip-1")
	assert.Equal(t, session.TransactionID, stored.Passengers[0].TransactionID)
}

func TestHandleSuccessIsIdempotent(t *testing.T) {
	b := pendingBooking("bk-1", false, "")
	b.TransactionID = "BNB_bk-1_1748779200000"
	bookings := newFakeBookings(b)
	svc, _, events, notifier := newTestService(bookings, newFakeTrips())
	ctx := context.Background()

	first, err := svc.HandleSuccess(ctx, b.TransactionID, "val-1", 4350)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	stored, _ := bookings.GetByID(ctx, "bk-1")
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, stored.Status)
	assert.Equal(t, "val-1", stored.GatewayValID)
	assert.Equal(t, float64(4350), stored.PaidAmount)

	// Duplicate delivery: recorded, not re-applied, no second notification.
	second, err := svc.HandleSuccess(ctx, b.TransactionID, "val-1", 4350)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, 1, notifier.count("payment_received"))

	logged, _ := events.ListByTransaction(ctx, b.TransactionID)
	assert.Len(t, logged, 2)
}

func TestHandleSuccessCombinedSettlesBothHalves(t *testing.T) {
	b := pendingBooking("bk-1", true, "trip-1")
	b.TransactionID = "COMBINED_bk-1_1748779200000"
	bookings := newFakeBookings(b)
	trips := newFakeTrips(&models.Trip{
		ID:       "trip-1",
		DriverID: "driver-1",
		Passengers: []models.TripPassenger{
			{UserID: "guest-1", BookingID: "bk-1", Seats: 2, Status: models.PassengerReserved, PaymentStatus: models.PaymentPending},
		},
	})
	svc, _, _, _ := newTestService(bookings, trips)
	ctx := context.Background()

	result, err := svc.HandleSuccess(ctx, b.TransactionID, "val-9", 5000)
	require.NoError(t, err)
	assert.True(t, result.Applied)

	storedBooking, _ := bookings.GetByID(ctx, "bk-1")
	assert.Equal(t, models.PaymentPaid, storedBooking.PaymentStatus)
	storedTrip, _ := trips.GetByID(ctx, "trip-1")
	assert.Equal(t, models.PaymentPaid, storedTrip.Passengers[0].PaymentStatus)
}

func TestHandleSuccessCombinedRepairsPartialState(t *testing.T) {
	// The stay half was settled on a previous delivery that crashed before
	// reaching the ride leg. Redelivery must finish the job.
	now := baseTime
	b := pendingBooking("bk-1", true, "trip-1")
	b.TransactionID = "COMBINED_bk-1_1748779200000"
	b.PaymentStatus = models.PaymentPaid
	b.Status = models.BookingConfirmed
	b.PaidAt = &now
	bookings := newFakeBookings(b)
	trips := newFakeTrips(&models.Trip{
		ID: "trip-1",
		Passengers: []models.TripPassenger{
			{UserID: "guest-1", BookingID: "bk-1", Seats: 2, Status: models.PassengerReserved, PaymentStatus: models.PaymentPending},
		},
	})
	svc, _, _, _ := newTestService(bookings, trips)

	result, err := svc.HandleSuccess(context.Background(), b.TransactionID, "val-9", 5000)
	require.NoError(t, err)
	assert.True(t, result.Applied)

	storedTrip, _ := trips.GetByID(context.Background(), "trip-1")
	assert.Equal(t, models.PaymentPaid, storedTrip.Passengers[0].PaymentStatus)
}

func TestHandleSuccessTripReservation(t *testing.T) {
	trips := newFakeTrips(&models.Trip{
		ID:       "trip-1",
		DriverID: "driver-1",
		Passengers: []models.TripPassenger{
			{UserID: "rider-1", Seats: 1, Status: models.PassengerReserved, PaymentStatus: models.PaymentPending, TransactionID: "TRIP_trip-1_1748779200000"},
		},
	})
	svc, _, _, notifier := newTestService(newFakeBookings(), trips)
	ctx := context.Background()

	result, err := svc.HandleSuccess(ctx, "TRIP_trip-1_1748779200000", "val-2", 300)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "trip-1", result.OrderID)
	assert.Equal(t, 1, notifier.count("seat_paid"))

	// Duplicate.
	result, err = svc.HandleSuccess(ctx, "TRIP_trip-1_1748779200000", "val-2", 300)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, 1, notifier.count("seat_paid"))
}

func TestHandleSuccessUnknownTransaction(t *testing.T) {
	svc, _, _, _ := newTestService(newFakeBookings(), newFakeTrips())

	_, err := svc.HandleSuccess(context.Background(), "BNB_missing_123", "val", 100)
	assert.Equal(t, fault.KindNotFound, fault.KindOf(err))

	_, err = svc.HandleSuccess(context.Background(), "garbage", "val", 100)
	assert.Equal(t, fault.KindInvalidInput, fault.KindOf(err))
}

func TestHandleIPN(t *testing.T) {
	b := pendingBooking("bk-1", false, "")
	b.TransactionID = "BNB_bk-1_1748779200000"
	bookings := newFakeBookings(b)
	svc, _, events, _ := newTestService(bookings, newFakeTrips())
	ctx := context.Background()

	// Non-VALID status records a failure.
	result, err := svc.HandleIPN(ctx, b.TransactionID, "FAILED", "", 0, map[string]string{"status": "FAILED"})
	require.NoError(t, err)
	assert.False(t, result.Applied)
	stored, _ := bookings.GetByID(ctx, "bk-1")
	assert.Equal(t, models.PaymentFailed, stored.PaymentStatus)

	// VALID settles the order.
	result, err = svc.HandleIPN(ctx, b.TransactionID, "VALID", "val-7", 4350, map[string]string{"status": "VALID"})
	require.NoError(t, err)
	assert.True(t, result.Applied)
	stored, _ = bookings.GetByID(ctx, "bk-1")
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)

	// A late failure IPN never downgrades a paid order.
	_, err = svc.HandleIPN(ctx, b.TransactionID, "FAILED", "", 0, nil)
	require.NoError(t, err)
	stored, _ = bookings.GetByID(ctx, "bk-1")
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)

	logged, _ := events.ListByTransaction(ctx, b.TransactionID)
	assert.GreaterOrEqual(t, len(logged), 3)
}
