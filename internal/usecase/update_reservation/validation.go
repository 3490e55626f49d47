package update_reservation

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

// validateRequest валидирует входные данные запроса без обращения к хранилищу
func validateRequest(req *Request) error {
	if req.Actor.UserID == uuid.Nil || !req.Actor.Role.IsValid() {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if req.ReservationID == uuid.Nil {
		return fmt.Errorf("%w: reservation id is required", ErrInvalidInput)
	}

	if !req.HasFieldChanges() && req.Status == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}

	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
	}

	if req.MenuID != nil && *req.MenuID == uuid.Nil {
		return fmt.Errorf("%w: menuId must not be empty", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID == uuid.Nil {
		return fmt.Errorf("%w: staffId must not be empty", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Status != nil && !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}

// authorize проверяет права на изменение
// Администратор меняет любое бронирование, владелец может менять поля своего
// бронирования, а из статусов запрашивать только отмену
func authorize(actor domain.Actor, current *domain.Reservation, req *Request) error {
	if actor.IsAdmin() {
		return nil
	}
	if !current.IsOwnedBy(actor.UserID) {
		return ErrAccessDenied
	}
	if req.Status != nil && *req.Status != current.Status && *req.Status != domain.StatusCancelled {
		return fmt.Errorf("%w: customers may only cancel reservations", ErrAccessDenied)
	}
	return nil
}

// mapScheduleError переводит ошибки правил расписания в ошибки usecase
func mapScheduleError(err error) error {
	switch {
	case errors.Is(err, availability.ErrStoreClosed):
		return fmt.Errorf("%w: %v", ErrStoreClosed, err)
	case errors.Is(err, availability.ErrPastDateTime):
		return fmt.Errorf("%w: %v", ErrPastDateTime, err)
	case errors.Is(err, availability.ErrOutsideBookingWindow):
		return fmt.Errorf("%w: %v", ErrOutsideBookingWindow, err)
	case errors.Is(err, availability.ErrTooLateToBook):
		return fmt.Errorf("%w: %v", ErrTooLateToBook, err)
	case errors.Is(err, availability.ErrOutsideBusinessHours):
		return fmt.Errorf("%w: %v", ErrOutsideBusinessHours, err)
	case errors.Is(err, availability.ErrMisalignedSlot):
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	case errors.Is(err, availability.ErrInvalidCandidate):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
