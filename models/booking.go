package models

import "time"

// Booking lifecycle statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Payment statuses shared by bookings and trip passengers.
const (
	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Booking is a guest's claim on a lodging listing for a date interval.
// The [DateFrom, DateTo) interval of a non-cancelled booking never overlaps
// another non-cancelled booking on the same listing.
type Booking struct {
	ID        string    `bson:"id" json:"id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	GuestID   string    `bson:"guest_id" json:"guest_id"`
	DateFrom  time.Time `bson:"date_from" json:"date_from"`
	DateTo    time.Time `bson:"date_to" json:"date_to"`
	Guests    int       `bson:"guests" json:"guests"`
	Status    string    `bson:"status" json:"status"`

	PaymentStatus string     `bson:"payment_status" json:"payment_status"`
	TransactionID string     `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	GatewayValID  string     `bson:"gateway_val_id,omitempty" json:"gateway_val_id,omitempty"`
	PaidAmount    float64    `bson:"paid_amount,omitempty" json:"paid_amount,omitempty"`
	PaidAt        *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`

	// Set once each, while confirmed.
	CheckInAt  *time.Time `bson:"check_in_at,omitempty" json:"check_in_at,omitempty"`
	CheckOutAt *time.Time `bson:"check_out_at,omitempty" json:"check_out_at,omitempty"`

	// Combined stay+ride order: TripID points at the trip carrying the
	// passenger entry created in the same logical transaction.
	TripID   string `bson:"trip_id,omitempty" json:"trip_id,omitempty"`
	Combined bool   `bson:"combined,omitempty" json:"combined,omitempty"`

	// RefundOwed is flagged when a paid booking is cancelled; refund
	// execution itself is a manual back-office step.
	RefundOwed   bool       `bson:"refund_owed,omitempty" json:"refund_owed,omitempty"`
	CancelledBy  string     `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	PayoutIssued bool       `bson:"payout_issued,omitempty" json:"payout_issued,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Overlaps reports whether the booking's interval intersects [from, to]
// using the closed comparison existing.from <= to && existing.to >= from.
func (b *Booking) Overlaps(from, to time.Time) bool {
	return !b.DateFrom.After(to) && !b.DateTo.Before(from)
}

// Active reports whether the booking still holds its interval.
func (b *Booking) Active() bool {
	return b.Status != BookingCancelled
}
