package staff

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/service/staff/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

var (
	admin    = domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	customer = domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
)

func newService() *Service {
	store := memstore.New()
	return NewService(store.Staff(), store, logger.Nop())
}

func TestCreateAndList(t *testing.T) {
	s := newService()
	ctx := context.Background()

	_, err := s.Create(ctx, customer, &models.CreateStaffRequest{Name: "Sato"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = s.Create(ctx, admin, &models.CreateStaffRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	sato, err := s.Create(ctx, admin, &models.CreateStaffRequest{Name: "Sato", DisplayOrder: 2})
	require.NoError(t, err)
	assert.True(t, sato.IsActive)

	kato, err := s.Create(ctx, admin, &models.CreateStaffRequest{Name: "Kato", DisplayOrder: 1})
	require.NoError(t, err)

	list, err := s.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list.Staff, 2)
	assert.Equal(t, kato.ID, list.Staff[0].ID)
	assert.Equal(t, sato.ID, list.Staff[1].ID)
}

func TestUpdateAndDeactivate(t *testing.T) {
	s := newService()
	ctx := context.Background()
	created, err := s.Create(ctx, admin, &models.CreateStaffRequest{Name: "Sato"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, admin, created.ID, &models.UpdateStaffRequest{Name: ptr.Ptr("Sato Y."), DisplayOrder: ptr.Ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "Sato Y.", updated.Name)
	assert.Equal(t, 5, updated.DisplayOrder)

	_, err = s.Update(ctx, admin, uuid.New(), &models.UpdateStaffRequest{Name: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrStaffNotFound)

	deactivated, err := s.Deactivate(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	active, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active.Staff)

	all, err := s.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all.Staff, 1)
}

func TestReplaceShifts(t *testing.T) {
	s := newService()
	ctx := context.Background()
	created, err := s.Create(ctx, admin, &models.CreateStaffRequest{Name: "Sato"})
	require.NoError(t, err)

	resp, err := s.ReplaceShifts(ctx, admin, created.ID, &models.ReplaceShiftsRequest{Shifts: []models.ShiftRequest{
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "15:00"},
		{DayOfWeek: 3, StartTime: "12:00", EndTime: "20:00"},
	}})
	require.NoError(t, err)
	assert.Len(t, resp.Shifts, 2)

	tests := []struct {
		name  string
		shift models.ShiftRequest
	}{
		{"bad weekday", models.ShiftRequest{DayOfWeek: 7, StartTime: "10:00", EndTime: "11:00"}},
		{"bad time", models.ShiftRequest{DayOfWeek: 1, StartTime: "10:61", EndTime: "11:00"}},
		{"reversed", models.ShiftRequest{DayOfWeek: 1, StartTime: "12:00", EndTime: "11:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ReplaceShifts(ctx, admin, created.ID, &models.ReplaceShiftsRequest{Shifts: []models.ShiftRequest{tt.shift}})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err = s.ReplaceShifts(ctx, admin, uuid.New(), &models.ReplaceShiftsRequest{})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestVacations(t *testing.T) {
	s := newService()
	ctx := context.Background()
	created, err := s.Create(ctx, admin, &models.CreateStaffRequest{Name: "Sato"})
	require.NoError(t, err)

	vacation, err := s.AddVacation(ctx, admin, created.ID, &models.AddVacationRequest{StartDate: "2026-11-02", EndDate: "2026-11-06"})
	require.NoError(t, err)
	assert.Equal(t, "2026-11-02", vacation.StartDate)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Vacations, 1)

	_, err = s.AddVacation(ctx, admin, created.ID, &models.AddVacationRequest{StartDate: "2026-11-06", EndDate: "2026-11-02"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.AddVacation(ctx, admin, uuid.New(), &models.AddVacationRequest{StartDate: "2026-11-02", EndDate: "2026-11-02"})
	assert.ErrorIs(t, err, ErrStaffNotFound)

	require.NoError(t, s.DeleteVacation(ctx, admin, created.ID, vacation.ID))
	assert.ErrorIs(t, s.DeleteVacation(ctx, admin, created.ID, vacation.ID), ErrVacationNotFound)
	assert.ErrorIs(t, s.DeleteVacation(ctx, customer, created.ID, vacation.ID), ErrAccessDenied)
}
