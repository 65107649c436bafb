package notification

// UpdatePreferencesRequest replaces the per-installation channel
// configuration.
type UpdatePreferencesRequest struct {
	EmailEnabled  bool   `json:"email_enabled"`
	SMSEnabled    bool   `json:"sms_enabled"`
	PushEnabled   bool   `json:"push_enabled"`
	OverrideEmail string `json:"override_email" validate:"omitempty,email"`
	OverridePhone string `json:"override_phone"`
}
