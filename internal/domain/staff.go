package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Staff represents a stylist or other employee who can be booked
type Staff struct {
	ID           uuid.UUID
	Name         string
	Email        *string
	Phone        *string
	IsActive     bool
	DisplayOrder int // auto-assignment order, ascending

	Shifts    []StaffShift
	Vacations []StaffVacation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StaffShift is a weekly working window of a staff member
type StaffShift struct {
	DayOfWeek time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// StaffVacation is an inclusive range of days off
type StaffVacation struct {
	ID        uuid.UUID
	StaffID   uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Reason    *string
}

// Covers returns true if the vacation includes the date
func (v StaffVacation) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(v.StartDate)) && !d.After(DateOnly(v.EndDate))
}

// IsOnVacation returns true if any vacation covers the date
func (s *Staff) IsOnVacation(date time.Time) bool {
	for _, v := range s.Vacations {
		if v.Covers(date) {
			return true
		}
	}
	return false
}

// ShiftsOn returns the shifts for the weekday of the date
func (s *Staff) ShiftsOn(date time.Time) []StaffShift {
	weekday := date.Weekday()
	out := make([]StaffShift, 0, 1)
	for _, shift := range s.Shifts {
		if shift.DayOfWeek == weekday {
			out = append(out, shift)
		}
	}
	return out
}

// Clone returns a deep copy of the staff member
func (s *Staff) Clone() *Staff {
	c := *s
	c.Shifts = append([]StaffShift(nil), s.Shifts...)
	c.Vacations = append([]StaffVacation(nil), s.Vacations...)
	return &c
}
