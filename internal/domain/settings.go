package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DaySchedule business hours for one weekday
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// StoreSettings represents the single-row configuration of the store
type StoreSettings struct {
	// Weekly schedule indexed by time.Weekday (0 = Sunday)
	Schedule [7]DaySchedule

	BreakStart *types.TimeString
	BreakEnd   *types.TimeString

	SlotDurationMinutes     int
	AdvanceBookingMinDays   int
	AdvanceBookingMaxDays   int // 0 = unlimited
	MinBookingNoticeMinutes int

	Holidays []time.Time

	UpdatedAt time.Time
}

// DefaultStoreSettings returns the settings used before an admin saves any
func DefaultStoreSettings() *StoreSettings {
	s := &StoreSettings{
		SlotDurationMinutes:     DefaultSlotDurationMinutes,
		AdvanceBookingMinDays:   DefaultAdvanceBookingMinDays,
		AdvanceBookingMaxDays:   DefaultAdvanceBookingMaxDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		s.Schedule[day] = DaySchedule{
			IsOpen:    day != time.Tuesday,
			OpenTime:  DefaultOpenTime,
			CloseTime: DefaultCloseTime,
		}
	}
	return s
}

// ScheduleFor returns business hours for the date
func (s *StoreSettings) ScheduleFor(date time.Time) DaySchedule {
	return s.Schedule[date.Weekday()]
}

// IsHoliday returns true if the date is a configured closed day
func (s *StoreSettings) IsHoliday(date time.Time) bool {
	for _, h := range s.Holidays {
		if SameDay(h, date) {
			return true
		}
	}
	return false
}

// IsOpenOn returns true if the store takes reservations on the date
func (s *StoreSettings) IsOpenOn(date time.Time) bool {
	return s.ScheduleFor(date).IsOpen && !s.IsHoliday(date)
}

// BreakInterval returns the daily break as an interval
func (s *StoreSettings) BreakInterval() (Interval, bool) {
	if s.BreakStart == nil || s.BreakEnd == nil || s.BreakStart.IsZero() || s.BreakEnd.IsZero() {
		return Interval{}, false
	}
	i := Interval{Start: s.BreakStart.Minutes(), End: s.BreakEnd.Minutes(), Source: SourceBreak}
	return i, !i.IsEmpty()
}

// Clone returns a deep copy of the settings
func (s *StoreSettings) Clone() *StoreSettings {
	c := *s
	c.Holidays = append([]time.Time(nil), s.Holidays...)
	if s.BreakStart != nil {
		v := *s.BreakStart
		c.BreakStart = &v
	}
	if s.BreakEnd != nil {
		v := *s.BreakEnd
		c.BreakEnd = &v
	}
	return &c
}
