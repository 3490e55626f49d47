package reservations

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/service/features"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memstore.Store
	service  *Service
	customer domain.Actor
	admin    domain.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	log := logger.Nop()
	flags := features.NewService(store.FeatureFlags(), nil, store, "salon", metrics.New("test"), log)

	return &fixture{
		store:    store,
		service:  NewService(store.Reservations(), flags, log),
		customer: domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer},
		admin:    domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin},
	}
}

func (f *fixture) seed(t *testing.T, userID uuid.UUID, date time.Time, at string, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	r, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:          userID,
		StaffID:         ptr.Ptr(uuid.New()),
		MenuID:          uuid.New(),
		ReservedDate:    date,
		ReservedTime:    types.TimeString(at),
		DurationMinutes: 60,
		Status:          status,
		MenuName:        "Cut",
		MenuPrice:       5000,
	})
	require.NoError(t, err)
	return r
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.seed(t, f.customer.UserID, monday, "14:00", domain.StatusPending)

	resp, err := f.service.GetByID(ctx, r.ID, f.customer)
	require.NoError(t, err)
	assert.Equal(t, r.ID, resp.ID)
	assert.Equal(t, "2026-11-02", resp.ReservedDate)
	assert.Equal(t, "14:00", resp.ReservedTime)
	assert.Equal(t, "15:00", resp.EndTime)

	_, err = f.service.GetByID(ctx, r.ID, f.admin)
	assert.NoError(t, err)

	stranger := domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	_, err = f.service.GetByID(ctx, r.ID, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GetByID(ctx, uuid.New(), f.admin)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.customer.UserID, monday, "10:00", domain.StatusPending)
	f.seed(t, f.customer.UserID, monday, "12:00", domain.StatusCancelled)
	f.seed(t, uuid.New(), monday, "14:00", domain.StatusPending)

	resp, err := f.service.ListOwn(ctx, f.customer, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)

	resp, err = f.service.ListOwn(ctx, f.customer, ptr.Ptr("CANCELLED"))
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "CANCELLED", resp.Reservations[0].Status)

	_, err = f.service.ListOwn(ctx, f.customer, ptr.Ptr("DONE"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, uuid.New(), monday, "10:00", domain.StatusConfirmed)
	f.seed(t, uuid.New(), monday, "12:00", domain.StatusCompleted)
	f.seed(t, uuid.New(), monday.AddDate(0, 0, 1), "10:00", domain.StatusPending)

	_, err := f.service.List(ctx, f.customer, &models.ListReservationsRequest{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.service.List(ctx, f.admin, &models.ListReservationsRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)

	resp, err = f.service.List(ctx, f.admin, &models.ListReservationsRequest{
		StartDate:       ptr.Ptr(monday),
		EndDate:         ptr.Ptr(monday),
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)

	_, err = f.service.List(ctx, f.admin, &models.ListReservationsRequest{
		StartDate: ptr.Ptr(monday),
		EndDate:   ptr.Ptr(monday.AddDate(0, 0, -1)),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, uuid.New(), monday, "10:00", domain.StatusCompleted)
	f.seed(t, uuid.New(), monday, "12:00", domain.StatusCancelled)
	f.seed(t, uuid.New(), monday.AddDate(0, 0, 7), "10:00", domain.StatusPending)

	// Аналитика выключена
	_, err := f.service.Export(ctx, f.admin, monday, monday)
	assert.ErrorIs(t, err, ErrFeatureDisabled)

	require.NoError(t, f.store.FeatureFlags().Save(ctx, "salon", domain.FeatureFlags{Analytics: true}))

	_, err = f.service.Export(ctx, f.customer, monday, monday)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.Export(ctx, f.admin, monday, monday.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	data, err := f.service.Export(ctx, f.admin, monday, monday)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(reservationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportColumns, rows[0])
	assert.Equal(t, "2026-11-02", rows[1][1])

	summary, err := book.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Contains(t, summary, []string{"Total", "2"})
	assert.Contains(t, summary, []string{"Completed revenue", "5000"})
}
