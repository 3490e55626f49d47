package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date    time.Time  // Дата (без времени)
	MenuID  uuid.UUID  // Меню определяет длительность
	StaffID *uuid.UUID // Учитывается только при включенном выборе сотрудника
}

// Response модель ответа со списком слотов
type Response struct {
	Date   time.Time
	MenuID uuid.UUID
	Slots  []domain.AvailableSlot
}
