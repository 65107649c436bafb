package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusNew,
	StatusTransmitted,
	StatusAwaitingDiagnostic,
	StatusDiagnosticScheduled,
	StatusQuoteReceived,
	StatusInRepair,
	StatusResolved,
	StatusCancelled,
}

func TestStorageCodeRoundTrip(t *testing.T) {
	for _, s := range allStatuses {
		assert.Equal(t, s, StatusFromStorage(s.StorageCode()), "status %s", s)
	}
}

func TestStatusFromStorage_UnknownPassesThrough(t *testing.T) {
	got := StatusFromStorage("somebody_elses_status")
	assert.Equal(t, Status("somebody_elses_status"), got)
	assert.False(t, got.Valid())
}

func TestBoardLabel_TotalAndLossy(t *testing.T) {
	labels := map[string]bool{}
	for _, s := range allStatuses {
		label := s.BoardLabel()
		assert.Contains(t, []string{BoardLabelNew, BoardLabelInProgress, BoardLabelResolved}, label, "status %s", s)
		labels[label] = true
	}
	assert.Len(t, labels, 3)

	// The collapse is many-to-one.
	assert.Equal(t, StatusNew.BoardLabel(), StatusTransmitted.BoardLabel())
	assert.Equal(t, StatusAwaitingDiagnostic.BoardLabel(), StatusInRepair.BoardLabel())
	assert.Equal(t, StatusResolved.BoardLabel(), StatusCancelled.BoardLabel())
}

func TestStatusFromBoardLabel(t *testing.T) {
	for _, label := range []string{BoardLabelNew, BoardLabelInProgress, BoardLabelResolved} {
		mapped, ok := StatusFromBoardLabel(label)
		assert.True(t, ok)
		assert.Equal(t, label, mapped.BoardLabel())
	}

	_, ok := StatusFromBoardLabel("Done")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusTransmitted, true},
		{StatusNew, StatusAwaitingDiagnostic, true}, // assignment may skip transmit
		{StatusNew, StatusInRepair, false},
		{StatusTransmitted, StatusAwaitingDiagnostic, true},
		{StatusAwaitingDiagnostic, StatusDiagnosticScheduled, true},
		{StatusDiagnosticScheduled, StatusQuoteReceived, true},
		{StatusQuoteReceived, StatusInRepair, true},
		{StatusInRepair, StatusResolved, true},
		{StatusInRepair, StatusNew, false},
		{StatusResolved, StatusInRepair, false},
		{StatusResolved, StatusCancelled, false},
		{StatusCancelled, StatusNew, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	// Annulé is reachable from every non-terminal state.
	for _, s := range allStatuses {
		assert.Equal(t, !s.Terminal(), CanTransition(s, StatusCancelled), "from %s", s)
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range allStatuses {
		want := s == StatusResolved || s == StatusCancelled
		assert.Equal(t, want, s.Terminal(), "status %s", s)
	}
}

func TestUrgency(t *testing.T) {
	assert.True(t, UrgencyHigh.Valid())
	assert.True(t, UrgencyEmergency.Valid())
	assert.False(t, Urgency("critical").Valid())
	assert.Greater(t, UrgencyEmergency.Rank(), UrgencyHigh.Rank())
	assert.Greater(t, UrgencyHigh.Rank(), UrgencyMedium.Rank())
	assert.Greater(t, UrgencyMedium.Rank(), UrgencyLow.Rank())
}
