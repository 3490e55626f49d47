package update_reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на изменение бронирования
// nil означает "не менять"
type Request struct {
	Actor         domain.Actor
	ReservationID uuid.UUID

	Date      *time.Time
	StartTime *types.TimeString
	MenuID    *uuid.UUID
	StaffID   *uuid.UUID
	Notes     *string

	Status             *domain.ReservationStatus
	CancellationReason *string
}

// HasFieldChanges возвращает true, если меняются поля кроме статуса
func (r *Request) HasFieldChanges() bool {
	return r.Date != nil || r.StartTime != nil || r.MenuID != nil || r.StaffID != nil || r.Notes != nil
}

// AffectsSlot возвращает true, если меняется занимаемый интервал
func (r *Request) AffectsSlot() bool {
	return r.Date != nil || r.StartTime != nil || r.MenuID != nil || r.StaffID != nil
}

// Response модель ответа с актуальным бронированием
type Response struct {
	Reservation *domain.Reservation
	Changed     bool // false, если запрос ничего не изменил
}
