package notification

import "context"

// NotificationService is the fire-and-forget notification collaborator.
// Delivery failures are logged by callers and never fail the reservation or
// payment transition that triggered them.
type NotificationService interface {
	Notify(ctx context.Context, userID, kind, message string, data map[string]string) error
}

// Payload is the queued notification task body.
type Payload struct {
	UserID  string            `json:"user_id"`
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// TypeNotifySend is the asynq task type for queued notifications.
const TypeNotifySend = "notify:send"
