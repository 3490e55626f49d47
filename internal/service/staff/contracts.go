package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	Update(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Staff, error)
	ReplaceShifts(ctx context.Context, staffID uuid.UUID, shifts []domain.StaffShift) error
	AddVacation(ctx context.Context, v *domain.StaffVacation) (*domain.StaffVacation, error)
	DeleteVacation(ctx context.Context, staffID, vacationID uuid.UUID) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
