package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ErrInvalidDate возвращается при некорректной дате выходного
var ErrInvalidDate = errors.New("invalid date")

// DayScheduleDTO часы работы одного дня недели (0 = воскресенье)
type DayScheduleDTO struct {
	DayOfWeek int              `json:"dayOfWeek" validate:"min=0,max=6"`
	IsOpen    bool             `json:"isOpen"`
	OpenTime  types.TimeString `json:"openTime,omitempty"`
	CloseTime types.TimeString `json:"closeTime,omitempty"`
}

// UpdateSettingsRequest запрос на обновление настроек
// Поддерживает частичное обновление - применяются только указанные поля
type UpdateSettingsRequest struct {
	Schedule                []DayScheduleDTO  `json:"schedule,omitempty" validate:"omitempty,max=7,dive"`
	BreakStart              *types.TimeString `json:"breakStart,omitempty"`
	BreakEnd                *types.TimeString `json:"breakEnd,omitempty"`
	SlotDurationMinutes     *int              `json:"slotDurationMinutes,omitempty"`
	AdvanceBookingMinDays   *int              `json:"advanceBookingMinDays,omitempty"`
	AdvanceBookingMaxDays   *int              `json:"advanceBookingMaxDays,omitempty"`
	MinBookingNoticeMinutes *int              `json:"minBookingNoticeMinutes,omitempty"`
	Holidays                *[]string         `json:"holidays,omitempty"`
}

// ApplyTo применяет изменения к копии настроек
func (r *UpdateSettingsRequest) ApplyTo(current *domain.StoreSettings) (*domain.StoreSettings, error) {
	s := current.Clone()

	for _, day := range r.Schedule {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: dayOfWeek %d", ErrInvalidDate, day.DayOfWeek)
		}
		s.Schedule[day.DayOfWeek] = domain.DaySchedule{
			IsOpen:    day.IsOpen,
			OpenTime:  day.OpenTime,
			CloseTime: day.CloseTime,
		}
	}

	// Пустая строка снимает перерыв
	if r.BreakStart != nil {
		s.BreakStart = nilIfEmpty(*r.BreakStart)
	}
	if r.BreakEnd != nil {
		s.BreakEnd = nilIfEmpty(*r.BreakEnd)
	}
	if r.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.AdvanceBookingMinDays != nil {
		s.AdvanceBookingMinDays = *r.AdvanceBookingMinDays
	}
	if r.AdvanceBookingMaxDays != nil {
		s.AdvanceBookingMaxDays = *r.AdvanceBookingMaxDays
	}
	if r.MinBookingNoticeMinutes != nil {
		s.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.Holidays != nil {
		holidays := make([]time.Time, 0, len(*r.Holidays))
		for _, raw := range *r.Holidays {
			d, err := time.Parse(domain.DateFormat, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
			}
			holidays = append(holidays, d)
		}
		s.Holidays = holidays
	}

	return s, nil
}

func nilIfEmpty(t types.TimeString) *types.TimeString {
	if t.IsZero() {
		return nil
	}
	return &t
}

// SettingsResponse ответ с настройками магазина
type SettingsResponse struct {
	Schedule                []DayScheduleDTO  `json:"schedule"`
	BreakStart              *types.TimeString `json:"breakStart,omitempty"`
	BreakEnd                *types.TimeString `json:"breakEnd,omitempty"`
	SlotDurationMinutes     int               `json:"slotDurationMinutes"`
	AdvanceBookingMinDays   int               `json:"advanceBookingMinDays"`
	AdvanceBookingMaxDays   int               `json:"advanceBookingMaxDays"`
	MinBookingNoticeMinutes int               `json:"minBookingNoticeMinutes"`
	Holidays                []string          `json:"holidays"`
	UpdatedAt               *time.Time        `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.StoreSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		Schedule:                make([]DayScheduleDTO, 0, len(s.Schedule)),
		BreakStart:              s.BreakStart,
		BreakEnd:                s.BreakEnd,
		SlotDurationMinutes:     s.SlotDurationMinutes,
		AdvanceBookingMinDays:   s.AdvanceBookingMinDays,
		AdvanceBookingMaxDays:   s.AdvanceBookingMaxDays,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		Holidays:                make([]string, 0, len(s.Holidays)),
	}
	for day, schedule := range s.Schedule {
		resp.Schedule = append(resp.Schedule, DayScheduleDTO{
			DayOfWeek: day,
			IsOpen:    schedule.IsOpen,
			OpenTime:  schedule.OpenTime,
			CloseTime: schedule.CloseTime,
		})
	}
	for _, h := range s.Holidays {
		resp.Holidays = append(resp.Holidays, h.Format(domain.DateFormat))
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
