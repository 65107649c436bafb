package domain

import "time"

// Notification type constants
const (
	NotifTypeNewDeclaration     = "new_declaration"
	NotifTypeStatusChange       = "status_change"
	NotifTypeProviderAssignment = "provider_assignment"
	NotifTypeMeetingScheduled   = "meeting_scheduled"
	NotifTypeQuoteApprovedProv  = "quote_approved_provider"
	NotifTypeQuoteApprovedTen   = "quote_approved_tenant"
)

// Recipient type constants
const (
	RecipientTenant   = "tenant"
	RecipientProvider = "provider"
	RecipientAdmin    = "admin"
)

// Channel constants for delivery methods
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// NotificationLog is an immutable audit record of one notification
// attempt. Exactly one is written per notify call, whether or not the
// underlying send succeeded.
type NotificationLog struct {
	ID            int64     `json:"id"`
	DeclarationID string    `json:"declaration_id"`
	RecipientType string    `json:"recipient_type"`
	Recipient     string    `json:"recipient"`
	Type          string    `json:"type"`
	Channels      string    `json:"channels"`
	Message       string    `json:"message"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	SentAt        time.Time `json:"sent_at"`
}

// NotificationPreference is the per-installation channel configuration.
// At most one active record exists; it is read at dispatch time, never
// cached.
type NotificationPreference struct {
	ID            int64     `json:"id"`
	EmailEnabled  bool      `json:"email_enabled"`
	SMSEnabled    bool      `json:"sms_enabled"`
	PushEnabled   bool      `json:"push_enabled"`
	OverrideEmail string    `json:"override_email,omitempty"`
	OverridePhone string    `json:"override_phone,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultPreferences returns the configuration used when no record has
// been stored yet.
func DefaultPreferences() *NotificationPreference {
	return &NotificationPreference{
		EmailEnabled: true,
		SMSEnabled:   false,
		PushEnabled:  true,
	}
}
