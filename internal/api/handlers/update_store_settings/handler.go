package update_store_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgForbidden          = "доступ запрещен"
	msgInvalidSchedule    = "время открытия должно быть раньше времени закрытия"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/settings
// Частичное обновление: незаданные поля остаются прежними
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/settings - Invalid request body: %v", err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PUT /admin/settings - Validation failed: %v", err)
		handlers.RespondValidationError(w, err.Error())
		return
	}

	result, err := h.service.Update(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, settingsService.ErrAccessDenied):
			h.logger.Warn("PUT /admin/settings - Access denied: user_id=%s", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settingsService.ErrInvalidSchedule):
			h.logger.Warn("PUT /admin/settings - Invalid schedule: %v", err)
			handlers.RespondValidationError(w, msgInvalidSchedule)

		case errors.Is(err, settingsService.ErrInvalidInput):
			h.logger.Warn("PUT /admin/settings - Invalid data: %v", err)
			handlers.RespondValidationError(w, err.Error())

		default:
			h.logger.Error("PUT /admin/settings - Failed to update settings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/settings - Settings updated successfully: user_id=%s", actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
