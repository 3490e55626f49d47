package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIllegalTransition is the sentinel matched by *IllegalTransitionError
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrImmutableReservation is returned when a terminal reservation is edited
	ErrImmutableReservation = errors.New("reservation is in a terminal status and cannot be modified")
)

// transitions is the complete set of legal status changes.
// Terminal statuses have no entry.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// IllegalTransitionError carries both sides of a rejected status change
type IllegalTransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *IllegalTransitionError) Error() string {
	if e.To == StatusPending {
		return fmt.Sprintf("%s reservations cannot return to pending", strings.ToLower(string(e.From)))
	}
	if e.From.IsTerminal() {
		return fmt.Sprintf("%s reservations cannot be changed to %s",
			strings.ToLower(string(e.From)), strings.ToLower(string(e.To)))
	}
	return fmt.Sprintf("cannot change reservation status from %s to %s", e.From, e.To)
}

// Unwrap allows errors.Is(err, ErrIllegalTransition)
func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// CheckTransition returns nil if from -> to is a legal transition
func CheckTransition(from, to ReservationStatus) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &IllegalTransitionError{From: from, To: to}
}

// AllowedTransitions returns the statuses reachable from the given one
func AllowedTransitions(from ReservationStatus) []ReservationStatus {
	allowed := transitions[from]
	out := make([]ReservationStatus, len(allowed))
	copy(out, allowed)
	return out
}

// EnsureMutable rejects field edits on terminal reservations
func EnsureMutable(status ReservationStatus) error {
	if status.IsTerminal() {
		return fmt.Errorf("%w: status %s", ErrImmutableReservation, status)
	}
	return nil
}
