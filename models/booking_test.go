package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminalStatus(t *testing.T) {
	terminal := []string{BookingStatusCompleted, BookingStatusCancelled, BookingStatusRefunded}
	for _, s := range terminal {
		assert.True(t, IsTerminalStatus(s), s)
	}
	live := []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusAssigned, BookingStatusInProgress}
	for _, s := range live {
		assert.False(t, IsTerminalStatus(s), s)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusAssigned, true},
		{BookingStatusConfirmed, BookingStatusAssigned, true},
		{BookingStatusAssigned, BookingStatusAssigned, true}, // reassignment
		{BookingStatusAssigned, BookingStatusInProgress, true},
		{BookingStatusInProgress, BookingStatusCompleted, true},

		// Cancellation reaches every non-terminal status.
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusAssigned, BookingStatusCancelled, true},
		{BookingStatusInProgress, BookingStatusCancelled, true},

		// Skipping states is not allowed.
		{BookingStatusPending, BookingStatusInProgress, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusInProgress, false},
		{BookingStatusAssigned, BookingStatusCompleted, false},
		{BookingStatusInProgress, BookingStatusAssigned, false},

		// Terminal statuses admit nothing.
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusAssigned, false},
		{BookingStatusRefunded, BookingStatusPending, false},

		// Refund is the single edge out of cancelled.
		{BookingStatusCancelled, BookingStatusRefunded, true},
		{BookingStatusPending, BookingStatusRefunded, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
