package domain

import "time"

// WebhookRegistration records a webhook created on the external board
// so registrations survive restarts and can be listed or removed.
type WebhookRegistration struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	URL       string    `json:"url"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}
