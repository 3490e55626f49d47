package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

const (
	msgMissingMenuID  = "ID меню обязателен"
	msgInvalidMenuID  = "некорректный ID меню"
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMenuNotFound   = "меню не найдено"
	msgStaffNotFound  = "сотрудник не найден"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/availability
// Query params: menuId (required), date (required, YYYY-MM-DD), staffId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Извлекаем menuId из query параметров
	menuIDStr := query.Get("menuId")
	if menuIDStr == "" {
		h.logger.Warn("GET /availability - Missing menu ID")
		handlers.RespondValidationError(w, msgMissingMenuID)
		return
	}
	menuID, err := uuid.Parse(menuIDStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid menu ID: %v", err)
		handlers.RespondValidationError(w, msgInvalidMenuID)
		return
	}

	staffID, err := handlers.QueryUUID(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid staff ID: %v", err)
		handlers.RespondValidationError(w, msgInvalidStaffID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondValidationError(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(menuID, staffID, dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date format: %v", err)
		handlers.RespondValidationError(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondValidationError(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrMenuNotFound):
			h.logger.Warn("GET /availability - Menu not found: menu=%s", menuID)
			handlers.RespondNotFound(w, handlers.CodeMenuNotFound, msgMenuNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /availability - Staff not found: staff=%v", staffID)
			handlers.RespondNotFound(w, handlers.CodeStaffNotFound, msgStaffNotFound)

		default:
			h.logger.Error("GET /availability - Failed to get slots: menu=%s, date=%s, error=%v", menuID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Slots retrieved successfully: menu=%s, date=%s, slots_count=%d",
		menuID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
