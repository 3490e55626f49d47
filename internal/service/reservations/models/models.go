package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// ListReservationsRequest запрос на получение списка бронирований (администратор)
type ListReservationsRequest struct {
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	StaffID         *uuid.UUID // Фильтр по сотруднику (опционально)
	UserID          *uuid.UUID // Фильтр по клиенту (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		UserID:          r.UserID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	StaffID         *uuid.UUID `json:"staffId,omitempty"`
	MenuID          uuid.UUID  `json:"menuId"`
	ReservedDate    string     `json:"reservedDate"` // "2026-11-02"
	ReservedTime    string     `json:"reservedTime"` // "14:00"
	EndTime         string     `json:"endTime"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`

	// Денормализованные данные меню
	MenuName  string `json:"menuName"`
	MenuPrice int    `json:"menuPrice"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		StaffID:            r.StaffID,
		MenuID:             r.MenuID,
		ReservedDate:       r.ReservedDate.Format(domain.DateFormat),
		ReservedTime:       r.ReservedTime.String(),
		DurationMinutes:    r.DurationMinutes,
		Status:             string(r.Status),
		Notes:              r.Notes,
		MenuName:           r.MenuName,
		MenuPrice:          r.MenuPrice,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if end, err := r.ReservedTime.AddMinutes(r.DurationMinutes); err == nil {
		resp.EndTime = end.String()
	}

	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
