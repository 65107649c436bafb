package workflow

import "time"

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AssignProviderRequest struct {
	ProviderID int64 `json:"provider_id" validate:"required,gt=0"`
}

type ScheduleMeetingRequest struct {
	MeetingDate time.Time `json:"meeting_date" validate:"required"`
	Notes       string    `json:"notes"`
}

type QuoteReceivedRequest struct {
	Amount *float64 `json:"amount" validate:"omitempty,gte=0"`
}

type QuoteDecisionRequest struct {
	Approved *bool    `json:"approved" validate:"required"`
	Reason   string   `json:"reason"`
	Amount   *float64 `json:"amount" validate:"omitempty,gte=0"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}
