package workflow

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("declaration not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrTerminalStatus      = errors.New("declaration is in a terminal status")
	ErrProviderRequired    = errors.New("provider id is required for this transition")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrMeetingDateRequired = errors.New("meeting date is required")
	ErrReasonRequired      = errors.New("rejection reason is required")
)
