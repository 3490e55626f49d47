package feature_flags

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/features"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "тело запроса должно быть объектом вида {\"флаг\": true}"
	msgForbidden          = "изменять флаги может только супер-администратор"
)

type Handler struct {
	service FeatureService
	logger  Logger
}

func NewHandler(service FeatureService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Get GET /api/v1/feature-flags
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	flags, err := h.service.Current(r.Context())
	if err != nil {
		h.logger.Error("GET /feature-flags - Failed to get flags: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, flags)
}

// Update PUT /api/v1/super-admin/feature-flags
// Тело: {"enableStaffSelection": true, ...}; неизвестный флаг отклоняет запрос целиком
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var changes map[string]bool
	if err := handlers.DecodeJSON(r, &changes); err != nil {
		h.logger.Warn("PUT /super-admin/feature-flags - Invalid request body: %v", err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}

	flags, err := h.service.Update(r.Context(), actor, changes)
	if err != nil {
		switch {
		case errors.Is(err, features.ErrAccessDenied):
			h.logger.Warn("PUT /super-admin/feature-flags - Access denied: user_id=%s, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, features.ErrInvalidInput):
			h.logger.Warn("PUT /super-admin/feature-flags - Invalid flags: %v", err)
			handlers.RespondValidationError(w, err.Error())

		default:
			h.logger.Error("PUT /super-admin/feature-flags - Failed to update flags: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /super-admin/feature-flags - Flags updated successfully: user_id=%s, flags=%v", actor.UserID, flags.ToMap())
	handlers.RespondJSON(w, http.StatusOK, flags)
}
