package create_reservation

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
	if req.Actor.UserID == uuid.Nil {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if !req.Actor.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Actor.Role)
	}

	if req.MenuID == uuid.Nil {
		return fmt.Errorf("%w: menuId is required", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID == uuid.Nil {
		return fmt.Errorf("%w: staffId must not be empty", ErrInvalidInput)
	}

	if req.UserID != nil && *req.UserID == uuid.Nil {
		return fmt.Errorf("%w: userId must not be empty", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// resolveOwner определяет владельца бронирования
// Администратор может бронировать за клиента, клиент только за себя
func resolveOwner(req *Request) (uuid.UUID, error) {
	if req.UserID == nil || *req.UserID == req.Actor.UserID {
		return req.Actor.UserID, nil
	}
	if !req.Actor.IsAdmin() {
		return uuid.Nil, ErrAccessDenied
	}
	return *req.UserID, nil
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
