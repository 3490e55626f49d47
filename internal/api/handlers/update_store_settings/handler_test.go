package update_store_settings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

func newHandler() *Handler {
	store := memstore.New()
	return NewHandler(settingsService.NewService(store.Settings(), store, logger.Nop()), logger.Nop())
}

func put(h *Handler, actor domain.Actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/admin/settings", bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_PartialUpdate(t *testing.T) {
	h := newHandler()
	admin := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	rec := put(h, admin, `{"slotDurationMinutes":15,"holidays":["2026-12-31"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.SettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 15, body.SlotDurationMinutes)
	assert.Equal(t, []string{"2026-12-31"}, body.Holidays)
	assert.Equal(t, domain.DefaultStoreSettings().AdvanceBookingMaxDays, body.AdvanceBookingMaxDays)
}

func TestHandle_Errors(t *testing.T) {
	admin := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	customer := domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}

	tests := []struct {
		name   string
		actor  domain.Actor
		body   string
		status int
		code   string
	}{
		{"customer", customer, `{"slotDurationMinutes":15}`, http.StatusForbidden, handlers.CodeForbidden},
		{"reversed hours", admin, `{"schedule":[{"dayOfWeek":1,"isOpen":true,"openTime":"20:00","closeTime":"10:00"}]}`, http.StatusBadRequest, handlers.CodeValidation},
		{"slot too short", admin, `{"slotDurationMinutes":1}`, http.StatusBadRequest, handlers.CodeValidation},
		{"bad weekday", admin, `{"schedule":[{"dayOfWeek":8,"isOpen":false}]}`, http.StatusBadRequest, handlers.CodeValidation},
		{"unknown field", admin, `{"timezone":"UTC"}`, http.StatusBadRequest, handlers.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := put(newHandler(), tt.actor, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			var body handlers.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}
