package booking

import (
	"github.com/google/uuid"

	"github.com/parkly/parking-platform/internal/model"
)

// ProtocolMode selects which half of a check-in protocol a write touches.
type ProtocolMode string

const (
	ModeCheckin  ProtocolMode = "checkin"
	ModeCheckout ProtocolMode = "checkout"
)

// transitions is the full booking lifecycle table. Terminal states
// (completed, cancelled) have no outgoing edges.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingStatusPending:   {model.BookingStatusConfirmed, model.BookingStatusCancelled},
	model.BookingStatusConfirmed: {model.BookingStatusCheckedIn, model.BookingStatusCancelled},
	model.BookingStatusCheckedIn: {model.BookingStatusCompleted, model.BookingStatusCancelled},
	model.BookingStatusCompleted: nil,
	model.BookingStatusCancelled: nil,
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition validates a status change for a specific booking and
// returns a typed error when it is illegal.
func CheckTransition(bookingID uuid.UUID, from, to model.BookingStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{BookingID: bookingID, From: from, To: to}
	}
	return nil
}

// IsTerminal reports whether no further transitions can leave the status.
func IsTerminal(s model.BookingStatus) bool {
	return len(transitions[s]) == 0
}

// StatusForMode returns the status a completed protocol half advances the
// booking to.
func StatusForMode(mode ProtocolMode) model.BookingStatus {
	if mode == ModeCheckout {
		return model.BookingStatusCompleted
	}
	return model.BookingStatusCheckedIn
}
