package menus

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	menuService "github.com/m04kA/SMC-ReservationService/internal/service/menus"
	"github.com/m04kA/SMC-ReservationService/internal/service/menus/models"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidMenuID      = "некорректный ID меню"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidParams      = "некорректные параметры запроса"
	msgMenuNotFound       = "меню не найдено"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service MenuService
	logger  Logger
}

func NewHandler(service MenuService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListPublic GET /api/v1/menus
// Клиентам доступны только активные меню
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "GET /menus", true)
}

// ListAdmin GET /api/v1/admin/menus
// Query params: includeInactive (по умолчанию true)
func (h *Handler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	includeInactive := true
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondValidationError(w, msgInvalidParams)
			return
		}
		includeInactive = value
	}
	h.list(w, r, "GET /admin/menus", !includeInactive)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, route string, activeOnly bool) {
	result, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Menus retrieved successfully: count=%d", route, len(result.Menus))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/admin/menus/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondValidationError(w, msgInvalidMenuID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /admin/menus/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/menus
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/menus"

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.CreateMenuRequest
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

	h.logger.Info("%s - Menu created successfully: id=%s", route, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PATCH /api/v1/admin/menus/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /admin/menus/{id}"

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondValidationError(w, msgInvalidMenuID)
		return
	}

	var req models.UpdateMenuRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondValidationError(w, err.Error())
		return
	}

	result, err := h.service.Update(r.Context(), actor, id, &req)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Menu updated successfully: id=%s", route, id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/menus/{id}
// Меню, на которое ссылаются бронирования, только выключается
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /admin/menus/{id}"

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		handlers.RespondValidationError(w, msgInvalidMenuID)
		return
	}

	result, err := h.service.Delete(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, route, err)
		return
	}

	h.logger.Info("%s - Menu removed: id=%s, deleted=%t, deactivated=%t", route, id, result.Deleted, result.Deactivated)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, menuService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondValidationError(w, err.Error())

	case errors.Is(err, menuService.ErrMenuNotFound):
		handlers.RespondNotFound(w, handlers.CodeMenuNotFound, msgMenuNotFound)

	case errors.Is(err, menuService.ErrAccessDenied):
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
