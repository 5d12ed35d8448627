package models

import "time"

// User roles.
const (
	RoleGuest  = "guest"
	RoleHost   = "host"
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// User is the read model for any marketplace actor (guest, host or driver).
type User struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	Role    string `bson:"role" json:"role"`

	Notifications []Notification `bson:"notifications,omitempty" json:"notifications,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Notification is an in-app notification appended to the user document by
// the notification worker.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	Type      string            `bson:"type" json:"type"`
	Message   string            `bson:"message" json:"message"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
