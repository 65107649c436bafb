package domain

// Status is the declaration lifecycle state. Values are the
// user-facing labels; storage uses the short codes below.
type Status string

const (
	StatusNew                 Status = "Novo"
	StatusTransmitted         Status = "Transmitido"
	StatusAwaitingDiagnostic  Status = "Em espera do encontro de diagnostico"
	StatusDiagnosticScheduled Status = "Encontramento de diagnostico planeado"
	StatusQuoteReceived       Status = "Orçamento recebido"
	StatusInRepair            Status = "Em curso de reparação"
	StatusResolved            Status = "Resolvido"
	StatusCancelled           Status = "Annulé"
)

var statusCodes = map[Status]string{
	StatusNew:                 "new",
	StatusTransmitted:         "transmitted",
	StatusAwaitingDiagnostic:  "awaiting_diagnostic",
	StatusDiagnosticScheduled: "diagnostic_scheduled",
	StatusQuoteReceived:       "quote_received",
	StatusInRepair:            "in_repair",
	StatusResolved:            "resolved",
	StatusCancelled:           "cancelled",
}

var codeStatuses = func() map[string]Status {
	m := make(map[string]Status, len(statusCodes))
	for s, c := range statusCodes {
		m[c] = s
	}
	return m
}()

// StorageCode returns the short form written to the store. Unknown
// statuses pass through unchanged.
func (s Status) StorageCode() string {
	if c, ok := statusCodes[s]; ok {
		return c
	}
	return string(s)
}

// StatusFromStorage is the inverse of StorageCode. It never fails:
// unrecognized values pass through so foreign rows still load.
func StatusFromStorage(code string) Status {
	if s, ok := codeStatuses[code]; ok {
		return s
	}
	return Status(code)
}

func (s Status) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// Terminal reports whether no further transitions are defined.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// Board label constants used by the external kanban mirror.
const (
	BoardLabelNew        = "Nouveau"
	BoardLabelInProgress = "En cours"
	BoardLabelResolved   = "Résolu"
)

// BoardLabel collapses the eight internal states onto the board's
// three labels. The mapping is lossy and many-to-one.
func (s Status) BoardLabel() string {
	switch s {
	case StatusNew, StatusTransmitted:
		return BoardLabelNew
	case StatusResolved, StatusCancelled:
		return BoardLabelResolved
	default:
		return BoardLabelInProgress
	}
}

// StatusFromBoardLabel maps a board label back to a representative
// internal status for pull reconciliation.
func StatusFromBoardLabel(label string) (Status, bool) {
	switch label {
	case BoardLabelNew:
		return StatusNew, true
	case BoardLabelInProgress:
		return StatusInRepair, true
	case BoardLabelResolved:
		return StatusResolved, true
	}
	return "", false
}

// nextStatuses encodes the forward chain. Assignment may skip the
// transmitted step, so Novo admits both successors. Cancellation is
// handled separately in CanTransition.
var nextStatuses = map[Status][]Status{
	StatusNew:                 {StatusTransmitted, StatusAwaitingDiagnostic},
	StatusTransmitted:         {StatusAwaitingDiagnostic},
	StatusAwaitingDiagnostic:  {StatusDiagnosticScheduled},
	StatusDiagnosticScheduled: {StatusQuoteReceived},
	StatusQuoteReceived:       {StatusInRepair},
	StatusInRepair:            {StatusResolved},
}

// CanTransition reports whether from → to is a legal lifecycle move.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	for _, next := range nextStatuses[from] {
		if next == to {
			return true
		}
	}
	return false
}
