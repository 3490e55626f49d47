package create_reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createReservation.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

var tokyo = time.FixedZone("Asia/Tokyo", 9*60*60)

func doRequest(h *Handler, actor *domain.Actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewBufferString(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorDetail {
	t.Helper()
	var body handlers.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, tokyo, logger.Nop())
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	menuID := uuid.New()

	created := &domain.Reservation{
		ID:              uuid.New(),
		UserID:          actor.UserID,
		StaffID:         ptr.Ptr(uuid.New()),
		MenuID:          menuID,
		ReservedDate:    time.Date(2026, 11, 2, 0, 0, 0, 0, tokyo),
		ReservedTime:    "14:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createReservation.Request) bool {
		return req.Actor == actor &&
			req.MenuID == menuID &&
			req.Date.Equal(time.Date(2026, 11, 2, 0, 0, 0, 0, tokyo)) &&
			req.StartTime == "14:00"
	})).Return(&createReservation.Response{Reservation: created}, nil).Once()

	rec := doRequest(h, &actor, fmt.Sprintf(`{"menuId":"%s","reservedDate":"2026-11-02","reservedTime":"14:00"}`, menuID))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "15:00", resp.EndTime)
	uc.AssertExpectations(t)
}

func TestHandle_RequestErrors(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, tokyo, logger.Nop())
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	menuID := uuid.NewString()

	tests := []struct {
		name   string
		actor  *domain.Actor
		body   string
		status int
		code   string
	}{
		{"unauthenticated", nil, `{}`, http.StatusUnauthorized, handlers.CodeUnauthorized},
		{"broken json", &actor, `{"menuId":`, http.StatusBadRequest, handlers.CodeValidation},
		{"bad uuid", &actor, `{"menuId":"nope","reservedDate":"2026-11-02","reservedTime":"14:00"}`, http.StatusBadRequest, handlers.CodeValidation},
		{"missing date", &actor, `{"menuId":"` + menuID + `","reservedTime":"14:00"}`, http.StatusBadRequest, handlers.CodeValidation},
		{"bad date", &actor, `{"menuId":"` + menuID + `","reservedDate":"02.11.2026","reservedTime":"14:00"}`, http.StatusBadRequest, handlers.CodeValidation},
		{"bad time", &actor, `{"menuId":"` + menuID + `","reservedDate":"2026-11-02","reservedTime":"2pm"}`, http.StatusBadRequest, handlers.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, tt.actor, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorBody(t, rec).Code)
		})
	}

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	body := fmt.Sprintf(`{"menuId":"%s","reservedDate":"2026-11-02","reservedTime":"14:00"}`, uuid.New())

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"conflict", fmt.Errorf("%w: staff busy", createReservation.ErrSlotConflict), http.StatusConflict, handlers.CodeSlotConflict},
		{"menu", createReservation.ErrMenuNotFound, http.StatusNotFound, handlers.CodeMenuNotFound},
		{"staff", createReservation.ErrStaffNotFound, http.StatusNotFound, handlers.CodeStaffNotFound},
		{"forbidden", createReservation.ErrAccessDenied, http.StatusForbidden, handlers.CodeForbidden},
		{"invalid", createReservation.ErrInvalidInput, http.StatusBadRequest, handlers.CodeValidation},
		{"closed", createReservation.ErrStoreClosed, http.StatusBadRequest, handlers.CodeStoreClosed},
		{"past", createReservation.ErrPastDateTime, http.StatusBadRequest, handlers.CodePastDateTime},
		{"window", createReservation.ErrOutsideBookingWindow, http.StatusBadRequest, handlers.CodeOutsideBookingWindow},
		{"hours", createReservation.ErrOutsideBusinessHours, http.StatusBadRequest, handlers.CodeOutsideBusinessHours},
		{"grid", createReservation.ErrInvalidTimeSlot, http.StatusBadRequest, handlers.CodeValidation},
		{"internal", fmt.Errorf("%w: db down", createReservation.ErrInternal), http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := doRequest(NewHandler(uc, tokyo, logger.Nop()), &actor, body)

			assert.Equal(t, tt.status, rec.Code)
			detail := errorBody(t, rec)
			assert.Equal(t, tt.code, detail.Code)
			assert.NotEmpty(t, detail.Message)
			assert.NotContains(t, detail.Message, "db down")
		})
	}
}
