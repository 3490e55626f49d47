package blocked_times

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	blockedTimeService "github.com/m04kA/SMC-ReservationService/internal/service/blockedtimes"
	"github.com/m04kA/SMC-ReservationService/internal/service/blockedtimes/models"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidID          = "некорректный ID блокировки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeRange   = "время окончания должно быть позже времени начала"
	msgNotFound           = "блокировка не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service  BlockedTimeService
	location *time.Location
	logger   Logger
}

func NewHandler(service BlockedTimeService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// List GET /api/v1/admin/blocked-times?from=&to=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const route = "GET /admin/blocked-times"

	from, to, err := parseRange(r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("%s - Invalid range: %v", route, err)
		handlers.RespondValidationError(w, err.Error())
		return
	}

	result, err := h.service.List(r.Context(), from, to)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Blocked times retrieved successfully: count=%d", route, len(result.BlockedTimes))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/blocked-times
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/blocked-times"

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.CreateBlockedTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondValidationError(w, err.Error())
		return
	}

	result, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Blocked time created successfully: id=%s", route, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Delete DELETE /api/v1/admin/blocked-times/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /admin/blocked-times/{id}"

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondValidationError(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Blocked time deleted successfully: id=%s", route, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, blockedTimeService.ErrInvalidTimeRange):
		handlers.RespondValidationError(w, msgInvalidTimeRange)

	case errors.Is(err, blockedTimeService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondValidationError(w, err.Error())

	case errors.Is(err, blockedTimeService.ErrBlockedTimeNotFound):
		handlers.RespondNotFound(w, handlers.CodeNotFound, msgNotFound)

	case errors.Is(err, blockedTimeService.ErrStaffNotFound):
		handlers.RespondNotFound(w, handlers.CodeStaffNotFound, msgStaffNotFound)

	case errors.Is(err, blockedTimeService.ErrAccessDenied):
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
