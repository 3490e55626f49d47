package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// MenuRepository интерфейс репозитория меню
type MenuRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Menu, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Staff, error)
}

// SettingsRepository интерфейс репозитория настроек магазина
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
}

// FeatureFlagProvider источник флагов тенанта
type FeatureFlagProvider interface {
	Current(ctx context.Context) (domain.FeatureFlags, error)
}

// Calendar возвращает занятые интервалы сотрудника на день
type Calendar interface {
	OccupiedIntervals(ctx context.Context, staff *domain.Staff, date time.Time, settings *domain.StoreSettings, flags domain.FeatureFlags, exclude *uuid.UUID) ([]domain.Interval, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
