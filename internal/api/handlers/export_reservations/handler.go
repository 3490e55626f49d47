package export_reservations

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	msgUnauthorized    = "требуется авторизация"
	msgInvalidParams   = "параметры from и to обязательны, формат YYYY-MM-DD"
	msgInvalidRange    = "некорректный период выгрузки"
	msgForbidden       = "доступ запрещен"
	msgFeatureDisabled = "аналитика отключена для магазина"
)

type Handler struct {
	service  ReservationExporter
	location *time.Location
	logger   Logger
}

func NewHandler(service ReservationExporter, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/reservations/export
// Query params: from, to (обязательно, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	from, errFrom := time.ParseInLocation(domain.DateFormat, r.URL.Query().Get("from"), h.location)
	to, errTo := time.ParseInLocation(domain.DateFormat, r.URL.Query().Get("to"), h.location)
	if errFrom != nil || errTo != nil {
		h.logger.Warn("GET /admin/reservations/export - Invalid parameters: from=%v, to=%v", errFrom, errTo)
		handlers.RespondValidationError(w, msgInvalidParams)
		return
	}

	data, err := h.service.Export(r.Context(), actor, from, to)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrFeatureDisabled):
			h.logger.Warn("GET /admin/reservations/export - Analytics disabled")
			handlers.RespondError(w, http.StatusForbidden, handlers.CodeFeatureDisabled, msgFeatureDisabled)

		case errors.Is(err, reservations.ErrInvalidTimeRange):
			handlers.RespondValidationError(w, msgInvalidRange)

		default:
			h.logger.Error("GET /admin/reservations/export - Failed to export: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	filename := fmt.Sprintf("reservations_%s_%s.xlsx", from.Format(domain.DateFormat), to.Format(domain.DateFormat))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("GET /admin/reservations/export - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /admin/reservations/export - Exported %s..%s by user=%s, size=%d",
		from.Format(domain.DateFormat), to.Format(domain.DateFormat), actor.UserID, len(data))
}
