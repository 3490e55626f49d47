package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings/models"
)

// Service сервис для работы с настройками магазина
type Service struct {
	settingsRepo SettingsRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get получает настройки магазина
// Пока администратор ничего не сохранил, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching store settings")

	settings, err := s.current(ctx, "Get")
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings), nil
}

// Update частично обновляет настройки магазина
// Доступно только администраторам
func (s *Service) Update(ctx context.Context, actor domain.Actor, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating store settings by user=%s", actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Update: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	var result *domain.StoreSettings
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Текущие настройки
		current, err := s.current(txCtx, "Update")
		if err != nil {
			return err
		}

		// 2. Применяем изменения
		updated, err := req.ApplyTo(current)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 3. Валидируем результат целиком
		if err := validateSettings(updated); err != nil {
			return err
		}

		// 4. Сохраняем
		saved, err := s.settingsRepo.Save(txCtx, updated)
		if err != nil {
			s.logger.Error("Update: repository error: %v", err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		result = saved
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidSchedule) {
			s.logger.Warn("Update: validation failed: %v", err)
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated store settings")
	return models.FromDomainSettings(result), nil
}

func (s *Service) current(ctx context.Context, op string) (*domain.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("%s: settings not saved yet, using defaults", op)
			return domain.DefaultStoreSettings(), nil
		}
		s.logger.Error("%s: failed to get settings: %v", op, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	return settings, nil
}

// validateSettings проверяет бизнес-правила настроек
func validateSettings(s *domain.StoreSettings) error {
	if s.SlotDurationMinutes < domain.MinSlotDurationMinutes || s.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if s.AdvanceBookingMinDays < domain.MinAdvanceBookingDays || s.AdvanceBookingMinDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking min days must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if s.AdvanceBookingMaxDays < domain.MinAdvanceBookingDays || s.AdvanceBookingMaxDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking max days must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	// 0 означает отсутствие ограничения
	if s.AdvanceBookingMaxDays > 0 && s.AdvanceBookingMinDays > s.AdvanceBookingMaxDays {
		return fmt.Errorf("%w: advance booking min days exceeds max days", ErrInvalidInput)
	}
	if s.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || s.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: booking notice must be between %d and %d minutes",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	for day, schedule := range s.Schedule {
		if !schedule.IsOpen {
			continue
		}
		if err := schedule.OpenTime.Validate(); err != nil {
			return fmt.Errorf("%w: %s open time: %v", ErrInvalidSchedule, time.Weekday(day), err)
		}
		if err := schedule.CloseTime.Validate(); err != nil {
			return fmt.Errorf("%w: %s close time: %v", ErrInvalidSchedule, time.Weekday(day), err)
		}
		if !schedule.OpenTime.IsBefore(schedule.CloseTime) {
			return fmt.Errorf("%w: %s opens at %s but closes at %s",
				ErrInvalidSchedule, time.Weekday(day), schedule.OpenTime, schedule.CloseTime)
		}
	}

	// Перерыв задается парой и лежит внутри часов работы каждого рабочего дня
	if (s.BreakStart == nil) != (s.BreakEnd == nil) {
		return fmt.Errorf("%w: break start and end must be set together", ErrInvalidSchedule)
	}
	if s.BreakStart != nil {
		if err := s.BreakStart.Validate(); err != nil {
			return fmt.Errorf("%w: break start: %v", ErrInvalidSchedule, err)
		}
		if err := s.BreakEnd.Validate(); err != nil {
			return fmt.Errorf("%w: break end: %v", ErrInvalidSchedule, err)
		}
		if !s.BreakStart.IsBefore(*s.BreakEnd) {
			return fmt.Errorf("%w: break must end after it starts", ErrInvalidSchedule)
		}
		for day, schedule := range s.Schedule {
			if !schedule.IsOpen {
				continue
			}
			if s.BreakStart.IsBefore(schedule.OpenTime) || s.BreakEnd.IsAfter(schedule.CloseTime) {
				return fmt.Errorf("%w: break %s-%s is outside %s business hours",
					ErrInvalidSchedule, *s.BreakStart, *s.BreakEnd, time.Weekday(day))
			}
		}
	}

	return nil
}
