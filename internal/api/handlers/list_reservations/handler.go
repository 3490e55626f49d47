package list_reservations

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
)

const (
	msgUnauthorized  = "требуется авторизация"
	msgInvalidParams = "некорректные параметры запроса"
	msgInvalidRange  = "дата окончания раньше даты начала"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service  ReservationService
	location *time.Location
	logger   Logger
}

func NewHandler(service ReservationService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/reservations
// Query params: date, startDate, endDate, staffId, userId, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	serviceReq, err := ToServiceRequest(r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("GET /admin/reservations - Invalid parameters: %v", err)
		handlers.RespondValidationError(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), actor, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /admin/reservations - Access denied: user=%s", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidTimeRange):
			handlers.RespondValidationError(w, msgInvalidRange)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /admin/reservations - Invalid filter: %v", err)
			handlers.RespondValidationError(w, msgInvalidParams)

		default:
			h.logger.Error("GET /admin/reservations - Failed to list reservations: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/reservations - Reservations retrieved successfully: count=%d", len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
