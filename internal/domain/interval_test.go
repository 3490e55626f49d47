package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

func TestInterval_OverlapSymmetry(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Interval
		overlap bool
	}{
		{"same interval", Interval{Start: 840, End: 900}, Interval{Start: 840, End: 900}, true},
		{"later start inside earlier", Interval{Start: 840, End: 900}, Interval{Start: 870, End: 930}, true},
		{"contained", Interval{Start: 600, End: 720}, Interval{Start: 630, End: 660}, true},
		{"touching end to start", Interval{Start: 840, End: 900}, Interval{Start: 900, End: 960}, false},
		{"disjoint", Interval{Start: 600, End: 630}, Interval{Start: 700, End: 760}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.a.Overlaps(tt.b), tt.b.Overlaps(tt.a))
		})
	}
}

func TestBlockedTime_ClipToDay(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, loc)

	block := &BlockedTime{
		ID:      uuid.New(),
		StartAt: time.Date(2026, 11, 1, 22, 0, 0, 0, loc),
		EndAt:   time.Date(2026, 11, 2, 11, 30, 0, 0, loc),
		Reason:  BlockedMaintenance,
	}

	got, ok := block.ClipToDay(date)
	assert.True(t, ok)
	assert.Equal(t, 0, got.Start)
	assert.Equal(t, 11*60+30, got.End)
	assert.Equal(t, SourceBlocked, got.Source)

	_, ok = block.ClipToDay(date.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestBlockedTime_AppliesTo(t *testing.T) {
	staffID := uuid.New()

	storeWide := &BlockedTime{}
	assert.True(t, storeWide.AppliesTo(staffID))

	personal := &BlockedTime{StaffID: ptr.Ptr(uuid.New())}
	assert.False(t, personal.AppliesTo(staffID))
}

func TestStaff_VacationAndShifts(t *testing.T) {
	monday := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	staff := &Staff{
		Shifts: []StaffShift{
			{DayOfWeek: time.Monday, StartTime: "10:00", EndTime: "14:00"},
			{DayOfWeek: time.Monday, StartTime: "15:00", EndTime: "19:00"},
			{DayOfWeek: time.Friday, StartTime: "10:00", EndTime: "19:00"},
		},
		Vacations: []StaffVacation{
			{StartDate: monday.AddDate(0, 0, 7), EndDate: monday.AddDate(0, 0, 9)},
		},
	}

	assert.Len(t, staff.ShiftsOn(monday), 2)
	assert.Empty(t, staff.ShiftsOn(monday.AddDate(0, 0, 1)))

	assert.False(t, staff.IsOnVacation(monday))
	assert.True(t, staff.IsOnVacation(monday.AddDate(0, 0, 7)))
	assert.True(t, staff.IsOnVacation(monday.AddDate(0, 0, 9)))
	assert.False(t, staff.IsOnVacation(monday.AddDate(0, 0, 10)))
}

func TestReservationFilter_Matches(t *testing.T) {
	staffID := uuid.New()
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	r := &Reservation{
		UserID:       uuid.New(),
		StaffID:      &staffID,
		ReservedDate: date,
		Status:       StatusCancelled,
	}

	assert.False(t, ReservationFilter{}.Matches(r))
	assert.True(t, ReservationFilter{IncludeInactive: true}.Matches(r))
	assert.True(t, ReservationFilter{Status: ptr.Ptr(StatusCancelled)}.Matches(r))
	assert.False(t, ReservationFilter{IncludeInactive: true, StaffID: ptr.Ptr(uuid.New())}.Matches(r))
	assert.False(t, ReservationFilter{IncludeInactive: true, StartDate: ptr.Ptr(date.AddDate(0, 0, 1))}.Matches(r))
}

func TestFeatureFlags_Apply(t *testing.T) {
	flags, err := FeatureFlags{}.Apply(map[string]bool{FlagStaffSelection: true})
	assert.NoError(t, err)
	assert.True(t, flags.StaffSelection)

	_, err = flags.Apply(map[string]bool{"enableTeleport": true})
	assert.Error(t, err)
}

func TestStoreSettings_IsOpenOn(t *testing.T) {
	s := DefaultStoreSettings()
	tuesday := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	wednesday := tuesday.AddDate(0, 0, 1)

	assert.False(t, s.IsOpenOn(tuesday))
	assert.True(t, s.IsOpenOn(wednesday))

	s.Holidays = []time.Time{wednesday}
	assert.False(t, s.IsOpenOn(wednesday))
}

func TestDateIn(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}

	// Полночь UTC из колонки DATE остается той же календарной датой
	stored := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	got := DateIn(stored, tokyo)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, tokyo), got)
	assert.Equal(t, tokyo, got.Location())

	// ClipToDay режет по границам дня магазина
	block := &BlockedTime{
		StartAt: time.Date(2026, 11, 2, 15, 0, 0, 0, tokyo),
		EndAt:   time.Date(2026, 11, 2, 16, 0, 0, 0, tokyo),
	}
	i, ok := block.ClipToDay(got)
	assert.True(t, ok)
	assert.Equal(t, 15*60, i.Start)
	assert.Equal(t, 16*60, i.End)

	assert.Equal(t, stored, DateIn(stored.Add(13*time.Hour), nil))
}
