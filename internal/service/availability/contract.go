package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActiveByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*domain.Reservation, error)
}

// BlockedTimeRepository интерфейс репозитория блокировок
type BlockedTimeRepository interface {
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
