package models

import "time"

// Payout statuses.
const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
	PayoutFailed  = "failed"
)

// Payout is a scheduled transfer of a guest's payment (minus fees) to the
// host, created by the payout scan once a paid booking has been checked in
// past the hold window.
type Payout struct {
	ID        string  `bson:"id" json:"id"`
	BookingID string  `bson:"booking_id" json:"booking_id"`
	HostID    string  `bson:"host_id" json:"host_id"`
	Amount    float64 `bson:"amount" json:"amount"`
	GuestFee  float64 `bson:"guest_fee" json:"guest_fee"`
	HostFee   float64 `bson:"host_fee" json:"host_fee"`
	VAT       float64 `bson:"vat" json:"vat"`
	Method    string  `bson:"method" json:"method"`
	Status    string  `bson:"status" json:"status"`
	Notes     string  `bson:"notes,omitempty" json:"notes,omitempty"`

	PaidAt    *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}
