package update_reservation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgMenuNotFound         = "меню не найдено"
	msgStaffNotFound        = "сотрудник не найден"
	msgSlotConflict         = "выбранное время уже занято"
	msgImmutable            = "завершенное или отмененное бронирование нельзя изменить"
	msgIllegalTransition    = "недопустимая смена статуса"
	msgStoreClosed          = "магазин закрыт в выбранную дату"
	msgPastDateTime         = "нельзя перенести бронирование на прошедшее время"
	msgOutsideBookingWindow = "дата вне окна бронирования"
	msgTooLateToBook        = "слишком поздно для бронирования этого времени"
	msgOutsideBusinessHours = "время вне часов работы магазина"
	msgInvalidTimeSlot      = "время не соответствует сетке слотов"
)

type Handler struct {
	useCase  UpdateReservationUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase UpdateReservationUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/reservations/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /reservations/{id}"

	actor, id, ok := h.parseTarget(w, r, route)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondValidationError(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, id, h.location)
	if err != nil {
		h.logger.Warn("%s - Failed to parse date/time: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidDateTime)
		return
	}

	h.execute(w, r, route, useCaseReq)
}

// HandleCancel PATCH /api/v1/reservations/{id}/cancel и DELETE /api/v1/reservations/{id}
// Бронирование не удаляется, а переводится в CANCELLED
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " /reservations/{id}"
	if r.Method == http.MethodPatch {
		route += "/cancel"
	}

	actor, id, ok := h.parseTarget(w, r, route)
	if !ok {
		return
	}

	// Тело необязательно
	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondValidationError(w, err.Error())
		return
	}

	h.execute(w, r, route, req.ToUseCaseRequest(actor, id))
}

// HandleStatus PATCH /api/v1/admin/reservations/{id}/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	const route = "PATCH /admin/reservations/{id}/status"

	actor, id, ok := h.parseTarget(w, r, route)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondValidationError(w, err.Error())
		return
	}

	h.execute(w, r, route, req.ToUseCaseRequest(actor, id))
}

func (h *Handler) parseTarget(w http.ResponseWriter, r *http.Request, route string) (domain.Actor, uuid.UUID, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return domain.Actor{}, uuid.Nil, false
	}

	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("%s - Invalid reservation ID: %v", route, err)
		handlers.RespondValidationError(w, msgInvalidReservationID)
		return domain.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *updateReservation.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, route, req, err)
		return
	}

	h.logger.Info("%s - Reservation updated successfully: id=%s, status=%s, changed=%t",
		route, result.Reservation.ID, result.Reservation.Status, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(result.Reservation))
}

func (h *Handler) respondError(w http.ResponseWriter, route string, req *updateReservation.Request, err error) {
	var illegal *domain.IllegalTransitionError

	switch {
	case errors.As(err, &illegal):
		h.logger.Warn("%s - Illegal transition: id=%s, %s -> %s", route, req.ReservationID, illegal.From, illegal.To)
		handlers.RespondBadRequest(w, handlers.CodeIllegalTransition,
			fmt.Sprintf("%s: %s", msgIllegalTransition, illegal.Error()))

	case errors.Is(err, domain.ErrImmutableReservation):
		h.logger.Warn("%s - Immutable reservation: id=%s", route, req.ReservationID)
		handlers.RespondBadRequest(w, handlers.CodeImmutableReservation, msgImmutable)

	case errors.Is(err, updateReservation.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: id=%s, error=%v", route, req.ReservationID, err)
		handlers.RespondValidationError(w, err.Error())

	case errors.Is(err, updateReservation.ErrReservationNotFound):
		h.logger.Warn("%s - Reservation not found: id=%s", route, req.ReservationID)
		handlers.RespondNotFound(w, handlers.CodeNotFound, msgNotFound)

	case errors.Is(err, updateReservation.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: id=%s, user=%s", route, req.ReservationID, req.Actor.UserID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, updateReservation.ErrMenuNotFound):
		handlers.RespondNotFound(w, handlers.CodeMenuNotFound, msgMenuNotFound)

	case errors.Is(err, updateReservation.ErrStaffNotFound):
		handlers.RespondNotFound(w, handlers.CodeStaffNotFound, msgStaffNotFound)

	case errors.Is(err, updateReservation.ErrSlotConflict):
		h.logger.Warn("%s - Slot conflict: id=%s", route, req.ReservationID)
		handlers.RespondConflict(w, handlers.CodeSlotConflict, msgSlotConflict)

	case errors.Is(err, updateReservation.ErrStoreClosed):
		handlers.RespondBadRequest(w, handlers.CodeStoreClosed, msgStoreClosed)

	case errors.Is(err, updateReservation.ErrPastDateTime):
		handlers.RespondBadRequest(w, handlers.CodePastDateTime, msgPastDateTime)

	case errors.Is(err, updateReservation.ErrOutsideBookingWindow):
		handlers.RespondBadRequest(w, handlers.CodeOutsideBookingWindow, msgOutsideBookingWindow)

	case errors.Is(err, updateReservation.ErrTooLateToBook):
		handlers.RespondBadRequest(w, handlers.CodeOutsideBookingWindow, msgTooLateToBook)

	case errors.Is(err, updateReservation.ErrOutsideBusinessHours):
		handlers.RespondBadRequest(w, handlers.CodeOutsideBusinessHours, msgOutsideBusinessHours)

	case errors.Is(err, updateReservation.ErrInvalidTimeSlot):
		handlers.RespondValidationError(w, msgInvalidTimeSlot)

	default:
		h.logger.Error("%s - Failed to update reservation: id=%s, error=%v", route, req.ReservationID, err)
		handlers.RespondInternalError(w)
	}
}
