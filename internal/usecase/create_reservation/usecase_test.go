package create_reservation

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/features"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var (
	// Воскресенье 09:00, бронируем на понедельник
	now    = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store     *memstore.Store
	uc        *UseCase
	publisher *recordingPublisher
	menu      *domain.Menu
	staff     *domain.Staff
	customer  domain.Actor
	admin     domain.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	log := logger.Nop()

	menu, err := store.Menus().Create(ctx, &domain.Menu{Name: "Cut", Price: 5000, DurationMinutes: 60, Category: "hair", IsActive: true})
	require.NoError(t, err)
	staff, err := store.Staff().Create(ctx, &domain.Staff{Name: "Sato", IsActive: true})
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	m := metrics.New("test")
	flags := features.NewService(store.FeatureFlags(), nil, store, "salon", m, log)
	checker := availability.NewService(store.Reservations(), store.BlockedTimes(), log)

	uc := NewUseCase(
		store.Reservations(),
		store.Menus(),
		store.Staff(),
		store.Settings(),
		flags,
		checker,
		store,
		publisher,
		m,
		log,
	).WithTimeProvider(fixedTime{now})

	return &fixture{
		store:     store,
		uc:        uc,
		publisher: publisher,
		menu:      menu,
		staff:     staff,
		customer:  domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer},
		admin:     domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin},
	}
}

func (f *fixture) enableStaffSelection(t *testing.T) {
	t.Helper()
	require.NoError(t, f.store.FeatureFlags().Save(context.Background(), "salon", domain.FeatureFlags{StaffSelection: true}))
}

func (f *fixture) request(actor domain.Actor, at string) *Request {
	return &Request{
		Actor:     actor,
		MenuID:    f.menu.ID,
		StaffID:   ptr.Ptr(f.staff.ID),
		Date:      monday,
		StartTime: types.TimeString(at),
	}
}

func TestExecute_OverlapScenario(t *testing.T) {
	f := newFixture(t)
	f.enableStaffSelection(t)
	ctx := context.Background()

	// 14:00 на 60 минут
	first, err := f.uc.Execute(ctx, f.request(f.customer, "14:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Reservation.Status)
	assert.Equal(t, 60, first.Reservation.DurationMinutes)
	assert.Equal(t, "Cut", first.Reservation.MenuName)
	assert.Equal(t, 5000, first.Reservation.MenuPrice)
	assert.Equal(t, f.customer.UserID, first.Reservation.UserID)

	// 14:30 пересекается
	_, err = f.uc.Execute(ctx, f.request(f.customer, "14:30"))
	assert.ErrorIs(t, err, ErrSlotConflict)

	stored, err := f.store.Reservations().GetByID(ctx, first.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, types.TimeString("14:00"), stored.ReservedTime)

	// 15:00 начинается ровно в конце первого
	third, err := f.uc.Execute(ctx, f.request(f.customer, "15:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, third.Reservation.Status)

	assert.Len(t, f.publisher.events, 2)
	assert.Equal(t, events.TypeReservationCreated, f.publisher.events[0].Type)
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	f.enableStaffSelection(t)

	const sessions = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)

	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
			_, err := f.uc.Execute(context.Background(), f.request(actor, "14:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, ErrSlotConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, sessions-1, conflicts)

	list, err := f.store.Reservations().List(context.Background(), domain.ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestExecute_ConcurrentDifferentSlots(t *testing.T) {
	f := newFixture(t)
	f.enableStaffSelection(t)

	slots := []string{"10:00", "11:00", "12:00", "13:00", "14:00"}
	errs := make([]error, len(slots))

	var wg sync.WaitGroup
	for i, at := range slots {
		wg.Add(1)
		go func(i int, at string) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), f.request(f.customer, at))
		}(i, at)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestExecute_AdminCreatesConfirmedForCustomer(t *testing.T) {
	f := newFixture(t)
	req := f.request(f.admin, "14:00")
	req.UserID = ptr.Ptr(f.customer.UserID)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Reservation.Status)
	assert.Equal(t, f.customer.UserID, resp.Reservation.UserID)
}

func TestExecute_CustomerCannotBookForOthers(t *testing.T) {
	f := newFixture(t)
	req := f.request(f.customer, "14:00")
	req.UserID = ptr.Ptr(uuid.New())

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AutoAssignWhenStaffSelectionDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second, err := f.store.Staff().Create(ctx, &domain.Staff{Name: "Tanaka", IsActive: true, DisplayOrder: 1})
	require.NoError(t, err)

	// Выбор сотрудника выключен: staffId клиента игнорируется
	req := f.request(f.customer, "14:00")
	req.StaffID = ptr.Ptr(second.ID)
	first, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, f.staff.ID, *first.Reservation.StaffID)

	// Первый сотрудник занят, назначается следующий
	req = f.request(f.customer, "14:00")
	req.StaffID = nil
	next, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *next.Reservation.StaffID)

	// Все заняты
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_ReferenceErrors(t *testing.T) {
	f := newFixture(t)
	f.enableStaffSelection(t)
	ctx := context.Background()

	req := f.request(f.customer, "14:00")
	req.MenuID = uuid.New()
	_, err := f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrMenuNotFound)

	inactive, err := f.store.Menus().Create(ctx, &domain.Menu{Name: "Old", DurationMinutes: 30, IsActive: false})
	require.NoError(t, err)
	req = f.request(f.customer, "14:00")
	req.MenuID = inactive.ID
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrMenuNotFound)

	req = f.request(f.customer, "14:00")
	req.StaffID = ptr.Ptr(uuid.New())
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_ScheduleErrors(t *testing.T) {
	f := newFixture(t)
	f.enableStaffSelection(t)

	tests := []struct {
		name    string
		date    time.Time
		at      string
		wantErr error
	}{
		{"ends exactly at closing", monday, "19:00", nil},
		{"ends after closing", monday, "20:00", ErrOutsideBusinessHours},
		{"before opening", monday, "09:00", ErrOutsideBusinessHours},
		{"closed tuesday", monday.AddDate(0, 0, 1), "14:00", ErrStoreClosed},
		{"in the past", time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC), "14:00", ErrPastDateTime},
		{"beyond window", monday.AddDate(0, 0, 70), "14:00", ErrOutsideBookingWindow},
		{"misaligned", monday, "14:10", ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(f.customer, tt.at)
			req.Date = tt.date
			_, err := f.uc.Execute(context.Background(), req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	long := make([]rune, domain.MaxNotesLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{"no actor", func(r *Request) { r.Actor = domain.Actor{} }},
		{"no menu", func(r *Request) { r.MenuID = uuid.Nil }},
		{"no date", func(r *Request) { r.Date = time.Time{} }},
		{"no time", func(r *Request) { r.StartTime = "" }},
		{"bad time", func(r *Request) { r.StartTime = "14:99" }},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(string(long)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(f.customer, "14:00")
			tt.modify(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_StoreTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	ctx := context.Background()
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, loc)

	f := newFixture(t)
	f.enableStaffSelection(t)
	// Понедельник 14:00 в Токио
	f.uc.WithTimeProvider(fixedTime{time.Date(2026, 11, 2, 14, 0, 0, 0, loc)})

	_, err = f.store.BlockedTimes().Create(ctx, &domain.BlockedTime{
		StartAt: time.Date(2026, 11, 2, 17, 0, 0, 0, loc),
		EndAt:   time.Date(2026, 11, 2, 18, 0, 0, 0, loc),
		Reason:  domain.BlockedMaintenance,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      string
		wantErr error
	}{
		{"already passed in store time", "13:00", ErrPastDateTime},
		{"inside blocked time", "17:00", ErrSlotConflict},
		{"overlaps blocked time start", "16:30", ErrSlotConflict},
		{"after blocked time", "18:00", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(f.admin, tt.at)
			req.UserID = ptr.Ptr(f.customer.UserID)
			req.Date = date
			_, err := f.uc.Execute(ctx, req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
