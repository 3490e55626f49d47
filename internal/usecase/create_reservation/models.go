package create_reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor     domain.Actor     // Кто создает бронирование
	UserID    *uuid.UUID       // Клиент, за которого бронирует администратор (опционально)
	MenuID    uuid.UUID        // ID меню
	StaffID   *uuid.UUID       // ID сотрудника (опционально, иначе автоназначение)
	Date      time.Time        // Дата бронирования в часовом поясе магазина
	StartTime types.TimeString // Время начала (например, "14:00")
	Notes     *string          // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
}
