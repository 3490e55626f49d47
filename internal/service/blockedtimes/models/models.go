package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// CreateBlockedTimeRequest запрос на блокировку времени
// Без staffId блокировка действует на весь магазин
type CreateBlockedTimeRequest struct {
	StaffID     *uuid.UUID `json:"staffId,omitempty"`
	StartAt     time.Time  `json:"startAt" validate:"required"`
	EndAt       time.Time  `json:"endAt" validate:"required"`
	Reason      string     `json:"reason" validate:"required,oneof=HOLIDAY MAINTENANCE TRAINING PERSONAL OTHER"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateBlockedTimeRequest) ToDomain() *domain.BlockedTime {
	return &domain.BlockedTime{
		StaffID:     r.StaffID,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Reason:      domain.BlockedReason(r.Reason),
		Description: r.Description,
	}
}

// BlockedTimeResponse ответ с данными блокировки
type BlockedTimeResponse struct {
	ID          uuid.UUID  `json:"id"`
	StaffID     *uuid.UUID `json:"staffId,omitempty"`
	StartAt     time.Time  `json:"startAt"`
	EndAt       time.Time  `json:"endAt"`
	Reason      string     `json:"reason"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// BlockedTimeListResponse ответ со списком блокировок
type BlockedTimeListResponse struct {
	BlockedTimes []BlockedTimeResponse `json:"blockedTimes"`
}

// FromDomainBlockedTime конвертирует domain модель в DTO
func FromDomainBlockedTime(b *domain.BlockedTime) *BlockedTimeResponse {
	if b == nil {
		return nil
	}
	return &BlockedTimeResponse{
		ID:          b.ID,
		StaffID:     b.StaffID,
		StartAt:     b.StartAt,
		EndAt:       b.EndAt,
		Reason:      string(b.Reason),
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}

// FromDomainBlockedTimeList конвертирует список блокировок в DTO
func FromDomainBlockedTimeList(list []*domain.BlockedTime) *BlockedTimeListResponse {
	resp := &BlockedTimeListResponse{BlockedTimes: make([]BlockedTimeResponse, 0, len(list))}
	for _, b := range list {
		resp.BlockedTimes = append(resp.BlockedTimes, *FromDomainBlockedTime(b))
	}
	return resp
}
