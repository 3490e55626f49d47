package staff

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	staffService "github.com/m04kA/SMC-ReservationService/internal/service/staff"
	"github.com/m04kA/SMC-ReservationService/internal/service/staff/models"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidVacationID  = "некорректный ID отпуска"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidParams      = "некорректные параметры запроса"
	msgStaffNotFound      = "сотрудник не найден"
	msgVacationNotFound   = "отпуск не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/staff и GET /api/v1/admin/staff
// Query params: includeInactive (только для администраторов)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondValidationError(w, msgInvalidParams)
			return
		}
		actor, ok := middleware.GetActor(r.Context())
		includeInactive = value && ok && actor.IsAdmin()
	}

	result, err := h.service.List(r.Context(), includeInactive)
	if err != nil {
		h.respondError(w, "GET /staff", err)
		return
	}

	h.logger.Info("GET /staff - Staff retrieved successfully: count=%d", len(result.Staff))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/admin/staff/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondValidationError(w, msgInvalidStaffID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /admin/staff/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/staff
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/staff"

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req models.CreateStaffRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	result, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Staff created successfully: id=%s", route, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PATCH /api/v1/admin/staff/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /admin/staff/{id}"

	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req models.UpdateStaffRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	result, err := h.service.Update(r.Context(), actor, id, &req)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Staff updated successfully: id=%s", route, id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Deactivate DELETE /api/v1/admin/staff/{id}
// Сотрудник не удаляется, чтобы не терять историю бронирований
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /admin/staff/{id}"

	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	result, err := h.service.Deactivate(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Staff deactivated successfully: id=%s", route, id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ReplaceShifts PUT /api/v1/admin/staff/{id}/shifts
func (h *Handler) ReplaceShifts(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /admin/staff/{id}/shifts"

	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req models.ReplaceShiftsRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	result, err := h.service.ReplaceShifts(r.Context(), actor, id, &req)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Shifts replaced successfully: id=%s, shifts=%d", route, id, len(result.Shifts))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// AddVacation POST /api/v1/admin/staff/{id}/vacations
func (h *Handler) AddVacation(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/staff/{id}/vacations"

	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req models.AddVacationRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	result, err := h.service.AddVacation(r.Context(), actor, id, &req)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Vacation added successfully: staff=%s, vacation=%s", route, id, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// DeleteVacation DELETE /api/v1/admin/staff/{id}/vacations/{vacationId}
func (h *Handler) DeleteVacation(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /admin/staff/{id}/vacations/{vacationId}"

	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	vacationID, err := handlers.PathUUID(r, "vacationId")
	if err != nil {
		handlers.RespondValidationError(w, msgInvalidVacationID)
		return
	}

	if err := h.service.DeleteVacation(r.Context(), actor, id, vacationID); err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Vacation deleted successfully: staff=%s, vacation=%s", route, id, vacationID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
	}
	return actor, ok
}

func (h *Handler) target(w http.ResponseWriter, r *http.Request) (domain.Actor, uuid.UUID, bool) {
	actor, ok := h.actor(w, r)
	if !ok {
		return actor, uuid.Nil, false
	}
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondValidationError(w, msgInvalidStaffID)
		return actor, uuid.Nil, false
	}
	return actor, id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string, v interface{}) bool {
	if err := handlers.DecodeJSON(r, v); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return false
	}
	if err := handlers.Validate(v); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondValidationError(w, err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, staffService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondValidationError(w, err.Error())

	case errors.Is(err, staffService.ErrStaffNotFound):
		handlers.RespondNotFound(w, handlers.CodeStaffNotFound, msgStaffNotFound)

	case errors.Is(err, staffService.ErrVacationNotFound):
		handlers.RespondNotFound(w, handlers.CodeNotFound, msgVacationNotFound)

	case errors.Is(err, staffService.ErrAccessDenied):
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
