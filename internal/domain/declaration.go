package domain

import "time"

// Urgency is the tenant-declared severity of an incident.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

// Rank orders urgencies for sorting, higher is more urgent.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyEmergency:
		return 4
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	}
	return 0
}

// Declaration is an incident report filed by a tenant against a
// property. It carries the lifecycle state plus the side fields each
// transition attaches (assignment, meeting, quote decision).
type Declaration struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	NIF         string  `json:"nif,omitempty"`
	Property    string  `json:"property"`
	City        string  `json:"city,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
	IssueType   string  `json:"issue_type"`
	Description string  `json:"description,omitempty"`
	Urgency     Urgency `json:"urgency"`

	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	MediaURLs   []string  `json:"media_urls"`

	ProviderID   *int64     `json:"provider_id,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	MeetingDate  *time.Time `json:"meeting_date,omitempty"`
	MeetingNotes string     `json:"meeting_notes,omitempty"`

	QuoteApproved   *bool    `json:"quote_approved,omitempty"`
	QuoteAmount     *float64 `json:"quote_amount,omitempty"`
	RejectionReason string   `json:"rejection_reason,omitempty"`

	MondayItemID string    `json:"monday_item_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DeclarationPatch is a partial update. Nil fields are left untouched;
// every transition writes its status and side fields through a single
// patch.
type DeclarationPatch struct {
	Status          *Status
	ProviderID      *int64
	AssignedAt      *time.Time
	MeetingDate     *time.Time
	MeetingNotes    *string
	QuoteApproved   *bool
	QuoteAmount     *float64
	RejectionReason *string
	MondayItemID    *string
	MediaURLs       *[]string
}

func (p DeclarationPatch) Empty() bool {
	return p == DeclarationPatch{}
}

// Apply shallow-merges the patch onto d.
func (p DeclarationPatch) Apply(d *Declaration) {
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.ProviderID != nil {
		d.ProviderID = p.ProviderID
	}
	if p.AssignedAt != nil {
		d.AssignedAt = p.AssignedAt
	}
	if p.MeetingDate != nil {
		d.MeetingDate = p.MeetingDate
	}
	if p.MeetingNotes != nil {
		d.MeetingNotes = *p.MeetingNotes
	}
	if p.QuoteApproved != nil {
		d.QuoteApproved = p.QuoteApproved
	}
	if p.QuoteAmount != nil {
		d.QuoteAmount = p.QuoteAmount
	}
	if p.RejectionReason != nil {
		d.RejectionReason = *p.RejectionReason
	}
	if p.MondayItemID != nil {
		d.MondayItemID = *p.MondayItemID
	}
	if p.MediaURLs != nil {
		d.MediaURLs = *p.MediaURLs
	}
}
