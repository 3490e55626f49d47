package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// CreateMenuRequest запрос на создание меню
type CreateMenuRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price           int     `json:"price" validate:"gte=0,lte=1000000"`
	DurationMinutes int     `json:"durationMinutes" validate:"gte=1,lte=480"`
	Category        string  `json:"category" validate:"required,max=50"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateMenuRequest) ToDomain() *domain.Menu {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &domain.Menu{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		Category:        r.Category,
		IsActive:        active,
	}
}

// UpdateMenuRequest запрос на обновление меню (nil - не менять)
// Длительность уже созданных бронирований не меняется
type UpdateMenuRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price           *int    `json:"price,omitempty" validate:"omitempty,gte=0,lte=1000000"`
	DurationMinutes *int    `json:"durationMinutes,omitempty" validate:"omitempty,gte=1,lte=480"`
	Category        *string `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// ApplyTo применяет изменения к domain модели
func (r *UpdateMenuRequest) ApplyTo(m *domain.Menu) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Description != nil {
		m.Description = r.Description
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.DurationMinutes != nil {
		m.DurationMinutes = *r.DurationMinutes
	}
	if r.Category != nil {
		m.Category = *r.Category
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

// Response модели

// MenuResponse ответ с данными меню
type MenuResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           int       `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	Category        string    `json:"category"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MenuListResponse ответ со списком меню
type MenuListResponse struct {
	Menus []MenuResponse `json:"menus"`
}

// DeleteMenuResponse результат удаления меню
type DeleteMenuResponse struct {
	ID          uuid.UUID `json:"id"`
	Deleted     bool      `json:"deleted"`     // строка удалена
	Deactivated bool      `json:"deactivated"` // меню используется в бронированиях и только выключено
}

// FromDomainMenu конвертирует domain модель в DTO
func FromDomainMenu(m *domain.Menu) *MenuResponse {
	if m == nil {
		return nil
	}
	return &MenuResponse{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		DurationMinutes: m.DurationMinutes,
		Category:        m.Category,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomainMenuList конвертирует список меню в DTO
func FromDomainMenuList(menus []*domain.Menu) *MenuListResponse {
	resp := &MenuListResponse{Menus: make([]MenuResponse, 0, len(menus))}
	for _, m := range menus {
		resp.Menus = append(resp.Menus, *FromDomainMenu(m))
	}
	return resp
}
