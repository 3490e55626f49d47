package blockedtimes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/service/blockedtimes/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

var (
	admin    = domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	customer = domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	monday   = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (*Service, *domain.Staff) {
	t.Helper()
	store := memstore.New()
	staff, err := store.Staff().Create(context.Background(), &domain.Staff{Name: "Sato", IsActive: true})
	require.NoError(t, err)
	return NewService(store.BlockedTimes(), store.Staff(), logger.Nop()), staff
}

func TestCreateListDelete(t *testing.T) {
	s, staff := newService(t)
	ctx := context.Background()

	storeWide, err := s.Create(ctx, admin, &models.CreateBlockedTimeRequest{
		StartAt: monday.Add(12 * time.Hour),
		EndAt:   monday.Add(13 * time.Hour),
		Reason:  "MAINTENANCE",
	})
	require.NoError(t, err)
	assert.Nil(t, storeWide.StaffID)

	_, err = s.Create(ctx, admin, &models.CreateBlockedTimeRequest{
		StaffID: ptr.Ptr(staff.ID),
		StartAt: monday.AddDate(0, 0, 1).Add(10 * time.Hour),
		EndAt:   monday.AddDate(0, 0, 1).Add(12 * time.Hour),
		Reason:  "TRAINING",
	})
	require.NoError(t, err)

	day, err := s.List(ctx, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, day.BlockedTimes, 1)
	assert.Equal(t, storeWide.ID, day.BlockedTimes[0].ID)

	week, err := s.List(ctx, monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Len(t, week.BlockedTimes, 2)

	require.NoError(t, s.Delete(ctx, admin, storeWide.ID))
	assert.ErrorIs(t, s.Delete(ctx, admin, storeWide.ID), ErrBlockedTimeNotFound)
}

func TestCreate_Errors(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	valid := func() *models.CreateBlockedTimeRequest {
		return &models.CreateBlockedTimeRequest{StartAt: monday.Add(12 * time.Hour), EndAt: monday.Add(13 * time.Hour), Reason: "OTHER"}
	}

	_, err := s.Create(ctx, customer, valid())
	assert.ErrorIs(t, err, ErrAccessDenied)

	req := valid()
	req.EndAt = req.StartAt
	_, err = s.Create(ctx, admin, req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	req = valid()
	req.Reason = "LUNCH"
	_, err = s.Create(ctx, admin, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = valid()
	req.StaffID = ptr.Ptr(uuid.New())
	_, err = s.Create(ctx, admin, req)
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = s.List(ctx, monday, monday)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
