package update_reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *updateReservation.Request) (*updateReservation.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*updateReservation.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

var customer = domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}

func newRouter(uc *mockUseCase) *mux.Router {
	h := NewHandler(uc, time.UTC, logger.Nop())
	r := mux.NewRouter()
	r.HandleFunc("/reservations/{id}", h.Handle).Methods(http.MethodPatch)
	r.HandleFunc("/reservations/{id}/cancel", h.HandleCancel).Methods(http.MethodPatch)
	r.HandleFunc("/reservations/{id}", h.HandleCancel).Methods(http.MethodDelete)
	r.HandleFunc("/admin/reservations/{id}/status", h.HandleStatus).Methods(http.MethodPatch)
	return r
}

func do(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req = req.WithContext(middleware.WithActor(req.Context(), customer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorDetail {
	t.Helper()
	var body handlers.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func reservation(id uuid.UUID, status domain.ReservationStatus) *updateReservation.Response {
	return &updateReservation.Response{
		Reservation: &domain.Reservation{
			ID:              id,
			UserID:          customer.UserID,
			ReservedDate:    time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
			ReservedTime:    "14:00",
			DurationMinutes: 60,
			Status:          status,
		},
		Changed: true,
	}
}

func TestHandle_MovesReservation(t *testing.T) {
	uc := &mockUseCase{}
	id := uuid.New()

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateReservation.Request) bool {
		return req.ReservationID == id &&
			req.Date != nil && req.Date.Equal(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)) &&
			req.StartTime != nil && *req.StartTime == "15:00" &&
			req.Status == nil
	})).Return(reservation(id, domain.StatusPending), nil).Once()

	rec := do(newRouter(uc), http.MethodPatch, "/reservations/"+id.String(),
		bytes.NewBufferString(`{"reservedDate":"2026-11-03","reservedTime":"15:00"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandleCancel_SetsCancelledStatus(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		method string
		path   string
		body   io.Reader
		reason *string
	}{
		{"delete without body", http.MethodDelete, "/reservations/" + id.String(), nil, nil},
		{"patch with reason", http.MethodPatch, "/reservations/" + id.String() + "/cancel", bytes.NewBufferString(`{"reason":"болею"}`), ptr.Ptr("болею")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateReservation.Request) bool {
				return req.ReservationID == id &&
					req.Status != nil && *req.Status == domain.StatusCancelled &&
					assert.ObjectsAreEqual(tt.reason, req.CancellationReason) &&
					!req.HasFieldChanges()
			})).Return(reservation(id, domain.StatusCancelled), nil).Once()

			rec := do(newRouter(uc), tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
			uc.AssertExpectations(t)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "illegal transition names both statuses",
			err:     &domain.IllegalTransitionError{From: domain.StatusCompleted, To: domain.StatusPending},
			status:  http.StatusBadRequest,
			code:    handlers.CodeIllegalTransition,
			message: "completed reservations cannot return to pending",
		},
		{
			name:   "immutable",
			err:    fmt.Errorf("%w: status CANCELLED", domain.ErrImmutableReservation),
			status: http.StatusBadRequest,
			code:   handlers.CodeImmutableReservation,
		},
		{"not found", updateReservation.ErrReservationNotFound, http.StatusNotFound, handlers.CodeNotFound, ""},
		{"forbidden", updateReservation.ErrAccessDenied, http.StatusForbidden, handlers.CodeForbidden, ""},
		{"conflict", updateReservation.ErrSlotConflict, http.StatusConflict, handlers.CodeSlotConflict, ""},
		{"menu", updateReservation.ErrMenuNotFound, http.StatusNotFound, handlers.CodeMenuNotFound, ""},
		{"staff", updateReservation.ErrStaffNotFound, http.StatusNotFound, handlers.CodeStaffNotFound, ""},
		{"hours", updateReservation.ErrOutsideBusinessHours, http.StatusBadRequest, handlers.CodeOutsideBusinessHours, ""},
		{"internal", updateReservation.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := do(newRouter(uc), http.MethodPatch, "/admin/reservations/"+id.String()+"/status",
				bytes.NewBufferString(`{"status":"PENDING"}`))

			assert.Equal(t, tt.status, rec.Code)
			detail := errorBody(t, rec)
			assert.Equal(t, tt.code, detail.Code)
			if tt.message != "" {
				assert.Contains(t, detail.Message, tt.message)
			}
		})
	}
}

func TestHandle_RequestValidation(t *testing.T) {
	uc := &mockUseCase{}
	r := newRouter(uc)
	id := uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"bad id", http.MethodPatch, "/reservations/42", `{"notes":"x"}`},
		{"unknown field", http.MethodPatch, "/reservations/" + id, `{"colour":"red"}`},
		{"bad status", http.MethodPatch, "/reservations/" + id, `{"status":"DONE"}`},
		{"bad date", http.MethodPatch, "/reservations/" + id, `{"reservedDate":"tomorrow"}`},
		{"status required", http.MethodPatch, "/admin/reservations/" + id + "/status", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, tt.method, tt.path, bytes.NewBufferString(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, handlers.CodeValidation, errorBody(t, rec).Code)
		})
	}

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
