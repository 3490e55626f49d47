package create_reservation

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgSlotConflict         = "выбранное время уже занято"
	msgMenuNotFound         = "меню не найдено"
	msgStaffNotFound        = "сотрудник не найден"
	msgStoreClosed          = "магазин закрыт в выбранную дату"
	msgPastDateTime         = "нельзя забронировать прошедшее время"
	msgOutsideBookingWindow = "дата вне окна бронирования"
	msgTooLateToBook        = "слишком поздно для бронирования этого времени"
	msgOutsideBusinessHours = "время вне часов работы магазина"
	msgInvalidTimeSlot      = "время не соответствует сетке слотов"
	msgForbidden            = "нельзя бронировать за другого пользователя"
)

type Handler struct {
	useCase  CreateReservationUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateReservationUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /reservations - Validation failed: %v", err)
		handlers.RespondValidationError(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, h.location)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse date/time: %v", err)
		handlers.RespondValidationError(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user=%s, error=%v", actor.UserID, err)
			handlers.RespondValidationError(w, err.Error())

		case errors.Is(err, createReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations - Access denied: user=%s", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createReservation.ErrMenuNotFound):
			h.logger.Warn("POST /reservations - Menu not found: menu=%s", req.MenuID)
			handlers.RespondNotFound(w, handlers.CodeMenuNotFound, msgMenuNotFound)

		case errors.Is(err, createReservation.ErrStaffNotFound):
			h.logger.Warn("POST /reservations - Staff not found: staff=%v", req.StaffID)
			handlers.RespondNotFound(w, handlers.CodeStaffNotFound, msgStaffNotFound)

		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: user=%s, date=%s, time=%s",
				actor.UserID, req.ReservedDate, req.ReservedTime)
			handlers.RespondConflict(w, handlers.CodeSlotConflict, msgSlotConflict)

		case errors.Is(err, createReservation.ErrStoreClosed):
			handlers.RespondBadRequest(w, handlers.CodeStoreClosed, msgStoreClosed)

		case errors.Is(err, createReservation.ErrPastDateTime):
			handlers.RespondBadRequest(w, handlers.CodePastDateTime, msgPastDateTime)

		case errors.Is(err, createReservation.ErrOutsideBookingWindow):
			handlers.RespondBadRequest(w, handlers.CodeOutsideBookingWindow, msgOutsideBookingWindow)

		case errors.Is(err, createReservation.ErrTooLateToBook):
			handlers.RespondBadRequest(w, handlers.CodeOutsideBookingWindow, msgTooLateToBook)

		case errors.Is(err, createReservation.ErrOutsideBusinessHours):
			handlers.RespondBadRequest(w, handlers.CodeOutsideBusinessHours, msgOutsideBusinessHours)

		case errors.Is(err, createReservation.ErrInvalidTimeSlot):
			handlers.RespondValidationError(w, msgInvalidTimeSlot)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user=%s, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: id=%s, user=%s, staff=%v",
		result.Reservation.ID, result.Reservation.UserID, result.Reservation.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(result.Reservation))
}
