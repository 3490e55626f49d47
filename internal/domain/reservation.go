package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusNoShow    ReservationStatus = "NO_SHOW"
)

// IsValid returns true for a known status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// OccupiesSlot returns true if a reservation in this status blocks its interval
func (s ReservationStatus) OccupiesSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation represents a customer booking of one menu with one staff member
type Reservation struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	StaffID         *uuid.UUID // nil until a staff member is assigned
	MenuID          uuid.UUID
	ReservedDate    time.Time
	ReservedTime    types.TimeString
	DurationMinutes int // copied from the menu at write time
	Status          ReservationStatus
	Notes           *string

	// Denormalized menu data for history
	MenuName  string
	MenuPrice int

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status.OccupiesSlot()
}

// Interval returns the occupied interval of the reservation
func (r *Reservation) Interval() Interval {
	start := r.ReservedTime.Minutes()
	return Interval{
		Start:  start,
		End:    start + r.DurationMinutes,
		Source: SourceReservation,
		RefID:  &r.ID,
	}
}

// IsOwnedBy returns true if the reservation belongs to the user
func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// Clone returns a deep copy of the reservation
func (r *Reservation) Clone() *Reservation {
	c := *r
	if r.StaffID != nil {
		id := *r.StaffID
		c.StaffID = &id
	}
	if r.Notes != nil {
		n := *r.Notes
		c.Notes = &n
	}
	if r.CancellationReason != nil {
		reason := *r.CancellationReason
		c.CancellationReason = &reason
	}
	if r.CancelledAt != nil {
		at := *r.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}

// ReservationFilter фильтр для получения списка бронирований
type ReservationFilter struct {
	UserID          *uuid.UUID         // Фильтр по пользователю (опционально)
	StaffID         *uuid.UUID         // Фильтр по сотруднику (опционально)
	MenuID          *uuid.UUID         // Фильтр по меню (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли завершенные, отмененные и no-show
}

// Matches проверяет бронирование на соответствие фильтру
func (f ReservationFilter) Matches(r *Reservation) bool {
	if f.UserID != nil && r.UserID != *f.UserID {
		return false
	}
	if f.StaffID != nil && (r.StaffID == nil || *r.StaffID != *f.StaffID) {
		return false
	}
	if f.MenuID != nil && r.MenuID != *f.MenuID {
		return false
	}
	if f.StartDate != nil && DateOnly(r.ReservedDate).Before(DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && DateOnly(r.ReservedDate).After(DateOnly(*f.EndDate)) {
		return false
	}
	if f.Status != nil {
		return r.Status == *f.Status
	}
	return f.IncludeInactive || r.IsActive()
}
