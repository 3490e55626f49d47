package menus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/service/menus/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

var (
	admin    = domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	customer = domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
)

func newService() (*Service, *memstore.Store) {
	store := memstore.New()
	return NewService(store.Menus(), store.Reservations(), store, logger.Nop()), store
}

func cut() *models.CreateMenuRequest {
	return &models.CreateMenuRequest{Name: "Cut", Price: 5000, DurationMinutes: 60, Category: "hair"}
}

func TestCreate(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	_, err := s.Create(ctx, customer, cut())
	assert.ErrorIs(t, err, ErrAccessDenied)

	created, err := s.Create(ctx, admin, cut())
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, 60, created.DurationMinutes)

	tests := []struct {
		name   string
		modify func(r *models.CreateMenuRequest)
	}{
		{"empty name", func(r *models.CreateMenuRequest) { r.Name = "" }},
		{"no category", func(r *models.CreateMenuRequest) { r.Category = " " }},
		{"negative price", func(r *models.CreateMenuRequest) { r.Price = -1 }},
		{"zero duration", func(r *models.CreateMenuRequest) { r.DurationMinutes = 0 }},
		{"too long", func(r *models.CreateMenuRequest) { r.DurationMinutes = 481 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := cut()
			tt.modify(req)
			_, err := s.Create(ctx, admin, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateAndList(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()
	created, err := s.Create(ctx, admin, cut())
	require.NoError(t, err)
	_, err = s.Create(ctx, admin, &models.CreateMenuRequest{Name: "Color", Price: 9000, DurationMinutes: 120, Category: "color"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, admin, created.ID, &models.UpdateMenuRequest{Price: ptr.Ptr(5500), IsActive: ptr.Ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 5500, updated.Price)
	assert.False(t, updated.IsActive)

	_, err = s.Update(ctx, admin, created.ID, &models.UpdateMenuRequest{DurationMinutes: ptr.Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Update(ctx, admin, uuid.New(), &models.UpdateMenuRequest{Price: ptr.Ptr(1)})
	assert.ErrorIs(t, err, ErrMenuNotFound)

	active, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active.Menus, 1)
	assert.Equal(t, "Color", active.Menus[0].Name)

	all, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all.Menus, 2)
}

func TestDelete_HardWhenUnreferenced(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()
	created, err := s.Create(ctx, admin, cut())
	require.NoError(t, err)

	resp, err := s.Delete(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)
	assert.False(t, resp.Deactivated)

	_, err = s.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestDelete_SoftWhenReferenced(t *testing.T) {
	s, store := newService()
	ctx := context.Background()
	created, err := s.Create(ctx, admin, cut())
	require.NoError(t, err)

	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		UserID:          uuid.New(),
		StaffID:         ptr.Ptr(uuid.New()),
		MenuID:          created.ID,
		ReservedDate:    time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		ReservedTime:    "14:00",
		DurationMinutes: 60,
		Status:          domain.StatusCompleted,
	})
	require.NoError(t, err)

	resp, err := s.Delete(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.False(t, resp.Deleted)
	assert.True(t, resp.Deactivated)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = s.Delete(ctx, customer, created.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
