package booking

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/parkly/parking-platform/internal/model"
)

func TestCanTransition_HappyPath(t *testing.T) {
	path := []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusCheckedIn,
		model.BookingStatusCompleted,
	}
	for i := 0; i+1 < len(path); i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
}

func TestCanTransition_CancelFromAnyActiveState(t *testing.T) {
	for _, from := range []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusCheckedIn,
	} {
		if !CanTransition(from, model.BookingStatusCancelled) {
			t.Fatalf("expected %s -> cancelled to be allowed", from)
		}
	}
}

func TestCanTransition_NoSkippingForward(t *testing.T) {
	if CanTransition(model.BookingStatusPending, model.BookingStatusCheckedIn) {
		t.Fatalf("pending -> checked_in must not be allowed")
	}
	if CanTransition(model.BookingStatusPending, model.BookingStatusCompleted) {
		t.Fatalf("pending -> completed must not be allowed")
	}
	if CanTransition(model.BookingStatusConfirmed, model.BookingStatusCompleted) {
		t.Fatalf("confirmed -> completed must not be allowed")
	}
}

func TestCanTransition_TerminalStatesAreDeadEnds(t *testing.T) {
	targets := []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusCheckedIn,
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
	}
	for _, from := range []model.BookingStatus{model.BookingStatusCompleted, model.BookingStatusCancelled} {
		if !IsTerminal(from) {
			t.Fatalf("expected %s to be terminal", from)
		}
		for _, to := range targets {
			if CanTransition(from, to) {
				t.Fatalf("expected %s -> %s to be rejected", from, to)
			}
		}
	}
}

func TestCanTransition_NoBackwardMoves(t *testing.T) {
	if CanTransition(model.BookingStatusConfirmed, model.BookingStatusPending) {
		t.Fatalf("confirmed -> pending must not be allowed")
	}
	if CanTransition(model.BookingStatusCheckedIn, model.BookingStatusConfirmed) {
		t.Fatalf("checked_in -> confirmed must not be allowed")
	}
}

func TestCheckTransition_ErrorCarriesStates(t *testing.T) {
	id := uuid.New()
	err := CheckTransition(id, model.BookingStatusCancelled, model.BookingStatusConfirmed)
	if err == nil {
		t.Fatalf("expected error")
	}
	var itErr *InvalidTransitionError
	if !errors.As(err, &itErr) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if itErr.BookingID != id || itErr.From != model.BookingStatusCancelled || itErr.To != model.BookingStatusConfirmed {
		t.Fatalf("unexpected error contents: %+v", itErr)
	}

	if err := CheckTransition(id, model.BookingStatusPending, model.BookingStatusConfirmed); err != nil {
		t.Fatalf("expected nil for valid transition, got %v", err)
	}
}

func TestStatusForMode(t *testing.T) {
	if got := StatusForMode(ModeCheckin); got != model.BookingStatusCheckedIn {
		t.Fatalf("checkin mode: got %s", got)
	}
	if got := StatusForMode(ModeCheckout); got != model.BookingStatusCompleted {
		t.Fatalf("checkout mode: got %s", got)
	}
}
