package menus

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// MenuRepository интерфейс репозитория меню
type MenuRepository interface {
	Create(ctx context.Context, m *domain.Menu) (*domain.Menu, error)
	Update(ctx context.Context, m *domain.Menu) (*domain.Menu, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Menu, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Menu, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReservationRepository проверяет ссылки бронирований на меню
type ReservationRepository interface {
	ExistsByMenu(ctx context.Context, menuID uuid.UUID) (bool, error)
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
