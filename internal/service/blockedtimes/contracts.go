package blockedtimes

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// BlockedTimeRepository интерфейс репозитория блокировок
type BlockedTimeRepository interface {
	Create(ctx context.Context, b *domain.BlockedTime) (*domain.BlockedTime, error)
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StaffRepository проверяет существование сотрудника
type StaffRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
