package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var (
	admin    = domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	customer = domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
)

func newService() *Service {
	store := memstore.New()
	return NewService(store.Settings(), store, logger.Nop())
}

func TestGet_Defaults(t *testing.T) {
	s := newService()

	resp, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)
	require.Len(t, resp.Schedule, 7)
	assert.False(t, resp.Schedule[2].IsOpen)
	assert.Equal(t, types.TimeString("10:00"), resp.Schedule[1].OpenTime)
	assert.Nil(t, resp.UpdatedAt)
}

func TestUpdate(t *testing.T) {
	s := newService()
	ctx := context.Background()

	_, err := s.Update(ctx, customer, &models.UpdateSettingsRequest{SlotDurationMinutes: ptr.Ptr(15)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := s.Update(ctx, admin, &models.UpdateSettingsRequest{
		SlotDurationMinutes: ptr.Ptr(15),
		Schedule:            []models.DayScheduleDTO{{DayOfWeek: 2, IsOpen: true, OpenTime: "11:00", CloseTime: "19:00"}},
		BreakStart:          ptr.Ptr(types.TimeString("13:00")),
		BreakEnd:            ptr.Ptr(types.TimeString("14:00")),
		Holidays:            &[]string{"2026-12-31"},
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.SlotDurationMinutes)
	assert.True(t, resp.Schedule[2].IsOpen)
	assert.Equal(t, []string{"2026-12-31"}, resp.Holidays)
	assert.NotNil(t, resp.UpdatedAt)

	// Остальные поля сохраняются между частичными обновлениями
	resp, err = s.Update(ctx, admin, &models.UpdateSettingsRequest{MinBookingNoticeMinutes: ptr.Ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.SlotDurationMinutes)
	assert.Equal(t, 0, resp.MinBookingNoticeMinutes)
	require.NotNil(t, resp.BreakStart)

	// Пустые строки снимают перерыв
	resp, err = s.Update(ctx, admin, &models.UpdateSettingsRequest{
		BreakStart: ptr.Ptr(types.TimeString("")),
		BreakEnd:   ptr.Ptr(types.TimeString("")),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.BreakStart)
}

func TestUpdate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdateSettingsRequest
		want error
	}{
		{"slot too short", &models.UpdateSettingsRequest{SlotDurationMinutes: ptr.Ptr(4)}, ErrInvalidInput},
		{"slot too long", &models.UpdateSettingsRequest{SlotDurationMinutes: ptr.Ptr(241)}, ErrInvalidInput},
		{"min over max", &models.UpdateSettingsRequest{AdvanceBookingMinDays: ptr.Ptr(10), AdvanceBookingMaxDays: ptr.Ptr(5)}, ErrInvalidInput},
		{"max over year", &models.UpdateSettingsRequest{AdvanceBookingMaxDays: ptr.Ptr(366)}, ErrInvalidInput},
		{"notice over week", &models.UpdateSettingsRequest{MinBookingNoticeMinutes: ptr.Ptr(10081)}, ErrInvalidInput},
		{"bad holiday", &models.UpdateSettingsRequest{Holidays: &[]string{"31.12.2026"}}, ErrInvalidInput},
		{"reversed hours", &models.UpdateSettingsRequest{Schedule: []models.DayScheduleDTO{{DayOfWeek: 1, IsOpen: true, OpenTime: "20:00", CloseTime: "10:00"}}}, ErrInvalidSchedule},
		{"break without end", &models.UpdateSettingsRequest{BreakStart: ptr.Ptr(types.TimeString("13:00"))}, ErrInvalidSchedule},
		{"break outside hours", &models.UpdateSettingsRequest{BreakStart: ptr.Ptr(types.TimeString("19:30")), BreakEnd: ptr.Ptr(types.TimeString("20:30"))}, ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService()
			_, err := s.Update(context.Background(), admin, tt.req)
			assert.ErrorIs(t, err, tt.want)

			// Отклоненное обновление ничего не сохраняет
			resp, err := s.Get(context.Background())
			require.NoError(t, err)
			assert.Nil(t, resp.UpdatedAt)
		})
	}
}
