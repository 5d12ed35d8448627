package models

import "time"

// Trip statuses. Status is always derived from the passenger list and
// capacity; it is never set independently of a passenger mutation.
const (
	TripAvailable = "available"
	TripBooked    = "booked"
	TripCancelled = "cancelled"
)

// Passenger entry statuses.
const (
	PassengerReserved  = "reserved"
	PassengerCancelled = "cancelled"
)

// TripPassenger is a rider's seat reservation embedded in the trip document.
type TripPassenger struct {
	UserID        string     `bson:"user_id" json:"user_id"`
	BookingID     string     `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	Seats         int        `bson:"seats" json:"seats"`
	Status        string     `bson:"status" json:"status"`
	PaymentStatus string     `bson:"payment_status" json:"payment_status"`
	TransactionID string     `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	GatewayValID  string     `bson:"gateway_val_id,omitempty" json:"gateway_val_id,omitempty"`
	PaidAmount    float64    `bson:"paid_amount,omitempty" json:"paid_amount,omitempty"`
	PaidAt        *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	ReservedAt    time.Time  `bson:"reserved_at" json:"reserved_at"`
	CancelledAt   *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelReason  string     `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
}

// Trip is a driver-offered ride with fixed seat capacity and per-seat fare.
type Trip struct {
	ID          string    `bson:"id" json:"id"`
	DriverID    string    `bson:"driver_id" json:"driver_id"`
	From        string    `bson:"from" json:"from"`
	To          string    `bson:"to" json:"to"`
	DepartureAt time.Time `bson:"departure_at" json:"departure_at"`
	VehicleType string    `bson:"vehicle_type" json:"vehicle_type"`
	TotalSeats  int       `bson:"total_seats" json:"total_seats"`
	FarePerSeat float64   `bson:"fare_per_seat" json:"fare_per_seat"`
	Status      string    `bson:"status" json:"status"`

	Passengers []TripPassenger `bson:"passengers" json:"passengers"`

	IsCompleted  bool       `bson:"is_completed,omitempty" json:"is_completed,omitempty"`
	CancelledAt  *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelReason string     `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SeatsReserved sums the seats of all non-cancelled passenger entries.
func (t *Trip) SeatsReserved() int {
	total := 0
	for _, p := range t.Passengers {
		if p.Status != PassengerCancelled {
			total += p.Seats
		}
	}
	return total
}

// SeatsAvailable is derived on every read rather than stored, so it cannot
// drift from the passenger list.
func (t *Trip) SeatsAvailable() int {
	return t.TotalSeats - t.SeatsReserved()
}

// DerivedStatus computes what the trip status should be from the passenger
// list. Cancelled is terminal and wins over the capacity-derived value.
func (t *Trip) DerivedStatus() string {
	if t.Status == TripCancelled {
		return TripCancelled
	}
	if t.SeatsAvailable() <= 0 {
		return TripBooked
	}
	return TripAvailable
}

// ActivePassenger returns the rider's non-cancelled entry, if any. A rider
// holds at most one active reservation per trip.
func (t *Trip) ActivePassenger(userID string) *TripPassenger {
	for i := range t.Passengers {
		if t.Passengers[i].UserID == userID && t.Passengers[i].Status != PassengerCancelled {
			return &t.Passengers[i]
		}
	}
	return nil
}
