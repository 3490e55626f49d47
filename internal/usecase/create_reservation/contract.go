package create_reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	LockStaffDay(ctx context.Context, staffID uuid.UUID, date time.Time) error
}

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

// AvailabilityChecker детектор конфликтов
type AvailabilityChecker interface {
	Check(ctx context.Context, staff *domain.Staff, candidate availability.Candidate, settings *domain.StoreSettings, flags domain.FeatureFlags, exclude *uuid.UUID) error
	AssignStaff(ctx context.Context, candidates []*domain.Staff, candidate availability.Candidate, settings *domain.StoreSettings, flags domain.FeatureFlags, exclude *uuid.UUID) (*domain.Staff, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	IncReservationCreated(status string)
	IncReservationConflict(operation string)
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
