// Package domain holds the session/payment lifecycle rules shared by the
// in-memory demo store and the Postgres-backed services. Both adapters must
// apply the same status vocabulary, transition guards and billing arithmetic.
package domain

import (
	"errors"
	"strings"
)

// Status is the canonical session status set. Booking creates a session in
// StatusScheduled; the remaining three are terminal.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrValidation        = errors.New("validation failed")
)

// ParseStatus normalizes external spellings ("no-show", "canceled") onto the
// canonical set.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "scheduled":
		return StatusScheduled, nil
	case "complete", "completed":
		return StatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return StatusCancelled, nil
	case "no_show", "no-show", "noshow":
		return StatusNoShow, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanCancel reports whether a session may move to cancelled. Cancellation is
// only reachable from scheduled; completed, cancelled and no_show sessions
// stay as they are.
func CanCancel(current Status) bool {
	return current == StatusScheduled
}

// CanLog reports whether a tutor may log the session outcome. Logging writes
// a terminal status over a scheduled session exactly once.
func CanLog(current Status, outcome Status) bool {
	if current != StatusScheduled {
		return false
	}
	return outcome == StatusCompleted || outcome == StatusNoShow
}
