package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Типы событий, они же routing key в exchange
const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationUpdated       = "reservation.updated"
	TypeReservationStatusChanged = "reservation.status_changed"
)

// Event событие жизненного цикла бронирования
type Event struct {
	ID             uuid.UUID  `json:"id"`
	Type           string     `json:"type"`
	ReservationID  uuid.UUID  `json:"reservationId"`
	UserID         uuid.UUID  `json:"userId"`
	StaffID        *uuid.UUID `json:"staffId,omitempty"`
	MenuID         uuid.UUID  `json:"menuId"`
	ReservedDate   string     `json:"reservedDate"`
	ReservedTime   string     `json:"reservedTime"`
	Status         string     `json:"status"`
	PreviousStatus string     `json:"previousStatus,omitempty"`
	OccurredAt     time.Time  `json:"occurredAt"`
}

// NewReservationEvent создает событие по состоянию бронирования
func NewReservationEvent(eventType string, r *domain.Reservation, occurredAt time.Time) Event {
	return Event{
		ID:            uuid.New(),
		Type:          eventType,
		ReservationID: r.ID,
		UserID:        r.UserID,
		StaffID:       r.StaffID,
		MenuID:        r.MenuID,
		ReservedDate:  r.ReservedDate.Format(domain.DateFormat),
		ReservedTime:  r.ReservedTime.String(),
		Status:        string(r.Status),
		OccurredAt:    occurredAt.UTC(),
	}
}

// NewStatusChangedEvent создает событие смены статуса
func NewStatusChangedEvent(r *domain.Reservation, previous domain.ReservationStatus, occurredAt time.Time) Event {
	e := NewReservationEvent(TypeReservationStatusChanged, r, occurredAt)
	e.PreviousStatus = string(previous)
	return e
}
