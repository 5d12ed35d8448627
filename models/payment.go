package models

import "time"

// PaymentEvent is the durable log of an inbound gateway callback, written
// before any processing so every delivery can be replayed and audited.
type PaymentEvent struct {
	ID            string            `bson:"id" json:"id"`
	TransactionID string            `bson:"transaction_id" json:"transaction_id"`
	Kind          string            `bson:"kind" json:"kind"` // "success" or "ipn"
	Payload       map[string]string `bson:"payload" json:"payload"`
	ReceivedAt    time.Time         `bson:"received_at" json:"received_at"`
}

// Customer carries the payer details forwarded to the gateway on initiate.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// PriceBreakdown reproduces every addend of a quoted total so clients can
// render it and invoices can be generated later.
type PriceBreakdown struct {
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"price_per_night"`
	StaySubtotal  float64 `json:"stay_subtotal"`
	ServiceFee    float64 `json:"service_fee"`
	Tax           float64 `json:"tax"`
	TripFare      float64 `json:"trip_fare"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
}

// CombinedOrderResult is returned from combined-order creation.
type CombinedOrderResult struct {
	BookingID string         `json:"booking_id"`
	TripID    string         `json:"trip_id,omitempty"`
	Amount    float64        `json:"amount"`
	Breakdown PriceBreakdown `json:"breakdown"`
}
