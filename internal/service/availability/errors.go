package availability

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrSlotConflict возвращается, когда интервал пересекается с занятым временем сотрудника
	ErrSlotConflict = errors.New("availability: slot conflict")

	// ErrNoStaffAvailable возвращается, когда ни один сотрудник не может принять бронирование
	ErrNoStaffAvailable = errors.New("availability: no staff available")

	// ErrInvalidCandidate возвращается при некорректном времени или длительности
	ErrInvalidCandidate = errors.New("availability: invalid candidate")

	// ErrInternal возвращается при ошибках чтения состояния
	ErrInternal = errors.New("availability: internal error")
)

// ConflictError описывает первый найденный конфликт
type ConflictError struct {
	StaffID uuid.UUID
	With    domain.Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: staff %s is busy at %s", ErrSlotConflict, e.StaffID, e.With)
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotConflict
}
