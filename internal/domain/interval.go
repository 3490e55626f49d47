package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// IntervalSource describes why a part of a staff calendar is occupied
type IntervalSource string

const (
	SourceReservation IntervalSource = "reservation"
	SourceBlocked     IntervalSource = "blocked"
	SourceBreak       IntervalSource = "break"
	SourceOffShift    IntervalSource = "off_shift"
	SourceVacation    IntervalSource = "vacation"
)

// Interval is a half-open range [Start, End) in minutes since midnight of one day
type Interval struct {
	Start  int
	End    int
	Source IntervalSource
	RefID  *uuid.UUID // reservation or blocked time that produced the interval
}

// Overlaps reports whether two half-open intervals share at least one minute.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// IsEmpty returns true for a zero-length interval
func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

func (i Interval) String() string {
	return fmt.Sprintf("%s[%02d:%02d-%02d:%02d)", i.Source, i.Start/60, i.Start%60, i.End/60, i.End%60)
}
