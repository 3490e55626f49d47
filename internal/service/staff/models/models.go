package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модели

// CreateStaffRequest запрос на создание сотрудника
type CreateStaffRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder int     `json:"displayOrder" validate:"gte=0"`
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateStaffRequest) ToDomain() *domain.Staff {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &domain.Staff{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		IsActive:     active,
		DisplayOrder: r.DisplayOrder,
	}
}

// UpdateStaffRequest запрос на обновление сотрудника (nil - не менять)
type UpdateStaffRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty" validate:"omitempty,gte=0"`
}

// ApplyTo применяет изменения к domain модели
func (r *UpdateStaffRequest) ApplyTo(s *domain.Staff) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Email != nil {
		s.Email = r.Email
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
	if r.DisplayOrder != nil {
		s.DisplayOrder = *r.DisplayOrder
	}
}

// ShiftRequest недельная смена
type ShiftRequest struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"gte=0,lte=6"` // 0 = воскресенье
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// ReplaceShiftsRequest запрос на замену всех смен сотрудника
type ReplaceShiftsRequest struct {
	Shifts []ShiftRequest `json:"shifts" validate:"dive"`
}

// ToDomain конвертирует смены с проверкой времени
func (r *ReplaceShiftsRequest) ToDomain() ([]domain.StaffShift, error) {
	shifts := make([]domain.StaffShift, 0, len(r.Shifts))
	for _, s := range r.Shifts {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			return nil, fmt.Errorf("dayOfWeek must be between 0 and 6")
		}
		start, err := types.NewTimeStringFromString(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid startTime: %w", err)
		}
		end, err := types.NewTimeStringFromString(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid endTime: %w", err)
		}
		if !start.IsBefore(end) {
			return nil, fmt.Errorf("startTime must be before endTime")
		}
		shifts = append(shifts, domain.StaffShift{DayOfWeek: time.Weekday(s.DayOfWeek), StartTime: start, EndTime: end})
	}
	return shifts, nil
}

// AddVacationRequest запрос на добавление отпуска
type AddVacationRequest struct {
	StartDate string  `json:"startDate" validate:"required"` // "2026-11-02"
	EndDate   string  `json:"endDate" validate:"required"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToDomain конвертирует запрос в domain модель
func (r *AddVacationRequest) ToDomain(staffID uuid.UUID) (*domain.StaffVacation, error) {
	start, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("endDate must not be before startDate")
	}
	return &domain.StaffVacation{StaffID: staffID, StartDate: start, EndDate: end, Reason: r.Reason}, nil
}

// Response модели

// ShiftResponse смена сотрудника
type ShiftResponse struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// VacationResponse отпуск сотрудника
type VacationResponse struct {
	ID        uuid.UUID `json:"id"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Reason    *string   `json:"reason,omitempty"`
}

// StaffResponse ответ с данными сотрудника
type StaffResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Email        *string            `json:"email,omitempty"`
	Phone        *string            `json:"phone,omitempty"`
	IsActive     bool               `json:"isActive"`
	DisplayOrder int                `json:"displayOrder"`
	Shifts       []ShiftResponse    `json:"shifts"`
	Vacations    []VacationResponse `json:"vacations"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// StaffListResponse ответ со списком сотрудников
type StaffListResponse struct {
	Staff []StaffResponse `json:"staff"`
}

// FromDomainStaff конвертирует domain модель в DTO
func FromDomainStaff(s *domain.Staff) *StaffResponse {
	if s == nil {
		return nil
	}

	resp := &StaffResponse{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		IsActive:     s.IsActive,
		DisplayOrder: s.DisplayOrder,
		Shifts:       make([]ShiftResponse, 0, len(s.Shifts)),
		Vacations:    make([]VacationResponse, 0, len(s.Vacations)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	for _, shift := range s.Shifts {
		resp.Shifts = append(resp.Shifts, ShiftResponse{
			DayOfWeek: int(shift.DayOfWeek),
			StartTime: shift.StartTime.String(),
			EndTime:   shift.EndTime.String(),
		})
	}
	for _, v := range s.Vacations {
		resp.Vacations = append(resp.Vacations, VacationResponse{
			ID:        v.ID,
			StartDate: v.StartDate.Format(domain.DateFormat),
			EndDate:   v.EndDate.Format(domain.DateFormat),
			Reason:    v.Reason,
		})
	}
	return resp
}

// FromDomainStaffList конвертирует список сотрудников в DTO
func FromDomainStaffList(staff []*domain.Staff) *StaffListResponse {
	resp := &StaffListResponse{Staff: make([]StaffResponse, 0, len(staff))}
	for _, s := range staff {
		resp.Staff = append(resp.Staff, *FromDomainStaff(s))
	}
	return resp
}
