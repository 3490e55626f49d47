package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Default store settings
const (
	DefaultSlotDurationMinutes     = 30
	DefaultAdvanceBookingMinDays   = 0
	DefaultAdvanceBookingMaxDays   = 60 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour

	DefaultOpenTime  types.TimeString = "10:00"
	DefaultCloseTime types.TimeString = "20:00"
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MinMenuDurationMinutes      = 1
	MaxMenuDurationMinutes      = 480
	MinMenuPrice                = 0
	MaxMenuPrice                = 1_000_000
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxNameLength               = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy a slot
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses statuses that no longer block a slot
var InactiveStatuses = []ReservationStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateIn returns the calendar date of t as midnight in loc
// A nil loc keeps the location of t
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return DateOnly(t)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay returns true if both times fall on the same calendar date
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
