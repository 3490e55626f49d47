package update_reservation

import (
	"context"
	"errors"
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
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

var (
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

func (f *fixture) seed(t *testing.T, at string, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	res, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:          f.customer.UserID,
		StaffID:         ptr.Ptr(f.staff.ID),
		MenuID:          f.menu.ID,
		ReservedDate:    monday,
		ReservedTime:    types.TimeString(at),
		DurationMinutes: f.menu.DurationMinutes,
		Status:          status,
		MenuName:        f.menu.Name,
		MenuPrice:       f.menu.Price,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) stored(t *testing.T, id uuid.UUID) *domain.Reservation {
	t.Helper()
	res, err := f.store.Reservations().GetByID(context.Background(), id)
	require.NoError(t, err)
	return res
}

func statusPtr(s domain.ReservationStatus) *domain.ReservationStatus { return &s }

func TestExecute_TerminalStatusCannotReturnToPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.seed(t, "14:00", domain.StatusConfirmed)

	resp, err := f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, Status: statusPtr(domain.StatusCompleted)})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, domain.StatusCompleted, resp.Reservation.Status)

	_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, Status: statusPtr(domain.StatusPending)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	var transitionErr *domain.IllegalTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, domain.StatusCompleted, transitionErr.From)
	assert.Equal(t, domain.StatusPending, transitionErr.To)
	assert.Equal(t, "completed reservations cannot return to pending", err.Error())

	assert.Equal(t, domain.StatusCompleted, f.stored(t, res.ID).Status)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeReservationStatusChanged, f.publisher.events[0].Type)
}

func TestExecute_MoveWithinBusinessHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.seed(t, "14:00", domain.StatusPending)

	_, err := f.uc.Execute(ctx, &Request{Actor: f.customer, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("20:00"))})
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
	assert.Equal(t, types.TimeString("14:00"), f.stored(t, res.ID).ReservedTime)

	resp, err := f.uc.Execute(ctx, &Request{Actor: f.customer, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("19:00"))})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("19:00"), resp.Reservation.ReservedTime)
	assert.Equal(t, types.TimeString("19:00"), f.stored(t, res.ID).ReservedTime)
}

func TestExecute_RejectedUpdateLeavesRowUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.seed(t, "14:00", domain.StatusPending)
	f.seed(t, "16:00", domain.StatusPending)
	before := f.stored(t, res.ID)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "overlaps other reservation",
			req:     &Request{Actor: f.customer, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("15:30")), Notes: ptr.Ptr("moved")},
			wantErr: ErrSlotConflict,
		},
		{
			name:    "closed day",
			req:     &Request{Actor: f.customer, ReservationID: res.ID, Date: ptr.Ptr(monday.AddDate(0, 0, 1))},
			wantErr: ErrStoreClosed,
		},
		{
			name:    "unknown menu",
			req:     &Request{Actor: f.customer, ReservationID: res.ID, MenuID: ptr.Ptr(uuid.New()), Notes: ptr.Ptr("x")},
			wantErr: ErrMenuNotFound,
		},
		{
			name:    "illegal transition",
			req:     &Request{Actor: f.admin, ReservationID: res.ID, Status: statusPtr(domain.StatusCompleted)},
			wantErr: domain.ErrIllegalTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.stored(t, res.ID))
		})
	}
	assert.Empty(t, f.publisher.events)
}

func TestExecute_ConflictExcludesItself(t *testing.T) {
	f := newFixture(t)
	res := f.seed(t, "14:00", domain.StatusPending)

	// Сдвиг на 30 минут пересекается только с собой
	resp, err := f.uc.Execute(context.Background(), &Request{Actor: f.customer, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("14:30"))})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("14:30"), resp.Reservation.ReservedTime)
}

func TestExecute_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.seed(t, "14:00", domain.StatusPending)
	stranger := domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}

	_, err := f.uc.Execute(ctx, &Request{Actor: stranger, ReservationID: res.ID, Notes: ptr.Ptr("mine")})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.uc.Execute(ctx, &Request{Actor: f.customer, ReservationID: res.ID, Status: statusPtr(domain.StatusConfirmed)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.uc.Execute(ctx, &Request{Actor: f.customer, ReservationID: res.ID, Notes: ptr.Ptr("позвонить")})
	require.NoError(t, err)
	assert.Equal(t, "позвонить", *resp.Reservation.Notes)

	resp, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, Status: statusPtr(domain.StatusConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Reservation.Status)
}

func TestExecute_CancelRecordsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.seed(t, "14:00", domain.StatusPending)

	resp, err := f.uc.Execute(ctx, &Request{
		Actor:              f.customer,
		ReservationID:      res.ID,
		Status:             statusPtr(domain.StatusCancelled),
		CancellationReason: ptr.Ptr("заболел"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Reservation.Status)
	require.NotNil(t, resp.Reservation.CancelledAt)
	assert.Equal(t, now, *resp.Reservation.CancelledAt)
	assert.Equal(t, "заболел", *resp.Reservation.CancellationReason)

	// Слот освободился
	other := f.seed(t, "14:00", domain.StatusPending)
	assert.NotEqual(t, res.ID, other.ID)

	// Отмененное бронирование нельзя редактировать
	_, err = f.uc.Execute(ctx, &Request{Actor: f.customer, ReservationID: res.ID, Notes: ptr.Ptr("снова")})
	assert.ErrorIs(t, err, domain.ErrImmutableReservation)
}

func TestExecute_SameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	res := f.seed(t, "14:00", domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: f.admin, ReservationID: res.ID, Status: statusPtr(domain.StatusPending)})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Equal(t, res.UpdatedAt, f.stored(t, res.ID).UpdatedAt)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_ChangeMenuAndStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.seed(t, "14:00", domain.StatusPending)

	long, err := f.store.Menus().Create(ctx, &domain.Menu{Name: "Color", Price: 9000, DurationMinutes: 120, Category: "hair", IsActive: true})
	require.NoError(t, err)
	second, err := f.store.Staff().Create(ctx, &domain.Staff{Name: "Tanaka", IsActive: true})
	require.NoError(t, err)

	resp, err := f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, MenuID: ptr.Ptr(long.ID)})
	require.NoError(t, err)
	assert.Equal(t, 120, resp.Reservation.DurationMinutes)
	assert.Equal(t, "Color", resp.Reservation.MenuName)
	assert.Equal(t, 9000, resp.Reservation.MenuPrice)

	// Клиент не может сменить сотрудника при выключенном выборе
	_, err = f.uc.Execute(ctx, &Request{Actor: f.customer, ReservationID: res.ID, StaffID: ptr.Ptr(second.ID)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StaffID: ptr.Ptr(uuid.New())})
	assert.ErrorIs(t, err, ErrStaffNotFound)

	resp, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StaffID: ptr.Ptr(second.ID)})
	require.NoError(t, err)
	assert.Equal(t, second.ID, *resp.Reservation.StaffID)
}

func TestExecute_NotFoundAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: uuid.New(), Notes: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: uuid.New(), Status: statusPtr("DONE")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: uuid.New(), StartTime: ptr.Ptr(types.TimeString("25:00"))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_PublishFailureDoesNotFailUpdate(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	res := f.seed(t, "14:00", domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: f.admin, ReservationID: res.ID, Status: statusPtr(domain.StatusConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Reservation.Status)
}

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

// Бронирование хранится с датой в UTC, как ее отдает драйвер для DATE
func TestExecute_StoreTimezone(t *testing.T) {
	loc := tokyo(t)
	ctx := context.Background()

	t.Run("blocked time on time-only move", func(t *testing.T) {
		f := newFixture(t)
		f.uc.WithLocation(loc)
		res := f.seed(t, "10:00", domain.StatusPending)

		_, err := f.store.BlockedTimes().Create(ctx, &domain.BlockedTime{
			StartAt: time.Date(2026, 11, 2, 15, 0, 0, 0, loc),
			EndAt:   time.Date(2026, 11, 2, 16, 0, 0, 0, loc),
			Reason:  domain.BlockedMaintenance,
		})
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("15:00"))})
		assert.ErrorIs(t, err, ErrSlotConflict)
		_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("14:30"))})
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.Equal(t, types.TimeString("10:00"), f.stored(t, res.ID).ReservedTime)

		resp, err := f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("16:00"))})
		require.NoError(t, err)
		assert.Equal(t, "2026-11-02", resp.Reservation.ReservedDate.Format(domain.DateFormat))
		assert.Equal(t, loc, resp.Reservation.ReservedDate.Location())
	})

	t.Run("break on time-only move", func(t *testing.T) {
		f := newFixture(t)
		f.uc.WithLocation(loc)
		res := f.seed(t, "10:00", domain.StatusPending)

		settings := domain.DefaultStoreSettings()
		settings.BreakStart = ptr.Ptr(types.TimeString("12:00"))
		settings.BreakEnd = ptr.Ptr(types.TimeString("13:00"))
		_, err := f.store.Settings().Save(ctx, settings)
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("12:30"))})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("past time uses store clock", func(t *testing.T) {
		// Понедельник 14:00 в Токио, в UTC еще 05:00
		f := newFixture(t)
		f.uc.WithLocation(loc).WithTimeProvider(fixedTime{time.Date(2026, 11, 2, 14, 0, 0, 0, loc)})
		res := f.seed(t, "16:00", domain.StatusPending)

		_, err := f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("13:00"))})
		assert.ErrorIs(t, err, ErrPastDateTime)

		resp, err := f.uc.Execute(ctx, &Request{Actor: f.admin, ReservationID: res.ID, StartTime: ptr.Ptr(types.TimeString("15:00"))})
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("15:00"), resp.Reservation.ReservedTime)
	})
}
