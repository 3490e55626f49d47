package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/features"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var (
	now    = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store *memstore.Store
	uc    *UseCase
	menu  *domain.Menu
	sato  *domain.Staff
	kato  *domain.Staff
}

func newFixture(t *testing.T, at time.Time) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	log := logger.Nop()

	menu, err := store.Menus().Create(ctx, &domain.Menu{Name: "Cut", Price: 5000, DurationMinutes: 60, Category: "hair", IsActive: true})
	require.NoError(t, err)
	sato, err := store.Staff().Create(ctx, &domain.Staff{Name: "Sato", IsActive: true, DisplayOrder: 1})
	require.NoError(t, err)
	kato, err := store.Staff().Create(ctx, &domain.Staff{Name: "Kato", IsActive: true, DisplayOrder: 2})
	require.NoError(t, err)

	flags := features.NewService(store.FeatureFlags(), nil, store, "salon", metrics.New("test"), log)
	calendar := availability.NewService(store.Reservations(), store.BlockedTimes(), log)

	uc := NewUseCase(store.Menus(), store.Staff(), store.Settings(), flags, calendar, log).
		WithTimeProvider(fixedTime{at})

	return &fixture{store: store, uc: uc, menu: menu, sato: sato, kato: kato}
}

func (f *fixture) book(t *testing.T, staffID uuid.UUID, at string) {
	t.Helper()
	_, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:          uuid.New(),
		StaffID:         ptr.Ptr(staffID),
		MenuID:          f.menu.ID,
		ReservedDate:    monday,
		ReservedTime:    types.TimeString(at),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	})
	require.NoError(t, err)
}

func findSlot(t *testing.T, slots []domain.AvailableSlot, at string) domain.AvailableSlot {
	t.Helper()
	for _, s := range slots {
		if s.StartTime == types.TimeString(at) {
			return s
		}
	}
	t.Fatalf("slot %s not found", at)
	return domain.AvailableSlot{}
}

func TestExecute_SlotGrid(t *testing.T) {
	f := newFixture(t, now)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday, MenuID: f.menu.ID})
	require.NoError(t, err)

	// 10:00..19:00 с шагом 30 минут, последняя услуга заканчивается в 20:00
	require.Len(t, resp.Slots, 19)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[0].EndTime)
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, types.TimeString("19:00"), last.StartTime)
	assert.Equal(t, types.TimeString("20:00"), last.EndTime)

	for _, s := range resp.Slots {
		assert.True(t, s.IsAvailable())
		assert.Equal(t, []uuid.UUID{f.sato.ID, f.kato.ID}, s.StaffIDs)
	}
}

func TestExecute_StaffIDsPerSlot(t *testing.T) {
	f := newFixture(t, now)
	f.book(t, f.sato.ID, "14:00")
	f.book(t, f.kato.ID, "14:00")
	f.book(t, f.kato.ID, "16:00")

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday, MenuID: f.menu.ID})
	require.NoError(t, err)

	// 13:30-14:30 пересекается с обоими
	busy := findSlot(t, resp.Slots, "13:30")
	assert.False(t, busy.IsAvailable())
	assert.Empty(t, busy.StaffIDs)

	// 13:00-14:00 граничит с бронированиями
	assert.Equal(t, []uuid.UUID{f.sato.ID, f.kato.ID}, findSlot(t, resp.Slots, "13:00").StaffIDs)

	// 15:30-16:30 свободен только у Sato
	assert.Equal(t, []uuid.UUID{f.sato.ID}, findSlot(t, resp.Slots, "15:30").StaffIDs)
}

func TestExecute_StaffFilterRequiresStaffSelection(t *testing.T) {
	f := newFixture(t, now)
	ctx := context.Background()
	f.book(t, f.sato.ID, "14:00")

	// Выбор выключен: staffId игнорируется
	resp, err := f.uc.Execute(ctx, &Request{Date: monday, MenuID: f.menu.ID, StaffID: ptr.Ptr(f.sato.ID)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.kato.ID}, findSlot(t, resp.Slots, "14:00").StaffIDs)

	require.NoError(t, f.store.FeatureFlags().Save(ctx, "salon", domain.FeatureFlags{StaffSelection: true}))

	resp, err = f.uc.Execute(ctx, &Request{Date: monday, MenuID: f.menu.ID, StaffID: ptr.Ptr(f.sato.ID)})
	require.NoError(t, err)
	slot := findSlot(t, resp.Slots, "14:00")
	assert.False(t, slot.IsAvailable())
	assert.Empty(t, slot.StaffIDs)
	assert.Equal(t, []uuid.UUID{f.sato.ID}, findSlot(t, resp.Slots, "15:00").StaffIDs)

	_, err = f.uc.Execute(ctx, &Request{Date: monday, MenuID: f.menu.ID, StaffID: ptr.Ptr(uuid.New())})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_TodayRespectsNotice(t *testing.T) {
	// Понедельник 13:10, уведомление 60 минут
	f := newFixture(t, monday.Add(13*time.Hour+10*time.Minute))

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday, MenuID: f.menu.ID})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("14:30"), resp.Slots[0].StartTime)
}

func TestExecute_EmptyDays(t *testing.T) {
	f := newFixture(t, now)
	ctx := context.Background()

	tests := []struct {
		name string
		date time.Time
	}{
		{"closed tuesday", monday.AddDate(0, 0, 1)},
		{"past date", monday.AddDate(0, 0, -3)},
		{"beyond window", monday.AddDate(0, 0, 90)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.uc.Execute(ctx, &Request{Date: tt.date, MenuID: f.menu.ID})
			require.NoError(t, err)
			assert.Empty(t, resp.Slots)
		})
	}

	settings := domain.DefaultStoreSettings()
	settings.Holidays = []time.Time{monday}
	_, err := f.store.Settings().Save(ctx, settings)
	require.NoError(t, err)

	resp, err := f.uc.Execute(ctx, &Request{Date: monday, MenuID: f.menu.ID})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t, now)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{MenuID: f.menu.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{Date: monday, MenuID: uuid.New()})
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestGenerateTimeSlots(t *testing.T) {
	schedule := domain.DaySchedule{IsOpen: true, OpenTime: "10:00", CloseTime: "12:00"}

	tests := []struct {
		name     string
		schedule domain.DaySchedule
		step     int
		duration int
		want     []types.TimeString
	}{
		{"duration equals step", schedule, 30, 30, []types.TimeString{"10:00", "10:30", "11:00", "11:30"}},
		{"long service", schedule, 30, 90, []types.TimeString{"10:00", "10:30"}},
		{"service longer than day", schedule, 30, 180, []types.TimeString{}},
		{"closed", domain.DaySchedule{}, 30, 30, []types.TimeString{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateTimeSlots(tt.schedule, tt.step, tt.duration, monday, now, 60)
			assert.Equal(t, tt.want, got)
		})
	}
}
