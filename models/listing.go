package models

import "time"

// DateRange is a host-defined blocked interval on a listing.
type DateRange struct {
	From   time.Time `bson:"from" json:"from"`
	To     time.Time `bson:"to" json:"to"`
	Reason string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Intersects reports whether the range touches [from, to] using the same
// closed comparison as booking overlap.
func (r DateRange) Intersects(from, to time.Time) bool {
	return !r.From.After(to) && !r.To.Before(from)
}

// Listing is the read model for a lodging listing. This core only consumes
// price, capacity, blocked ranges and the host identity.
type Listing struct {
	ID           string      `bson:"id" json:"id"`
	HostID       string      `bson:"host_id" json:"host_id"`
	Title        string      `bson:"title" json:"title"`
	Location     string      `bson:"location" json:"location"`
	Price        float64     `bson:"price" json:"price"`
	MaxGuests    int         `bson:"max_guests" json:"max_guests"`
	BlockedDates []DateRange `bson:"blocked_dates,omitempty" json:"blocked_dates,omitempty"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updated_at"`
}
