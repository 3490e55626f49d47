package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date   string          `json:"date"`
	MenuID uuid.UUID       `json:"menuId"`
	Slots  []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
	Available bool        `json:"available"`
	StaffIDs  []uuid.UUID `json:"staffIds"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		staffIDs := slot.StaffIDs
		if staffIDs == nil {
			staffIDs = []uuid.UUID{}
		}
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Available: slot.IsAvailable(),
			StaffIDs:  staffIDs,
		}
	}

	return &AvailableSlotsResponse{
		Date:   resp.Date.Format(domain.DateFormat),
		MenuID: resp.MenuID,
		Slots:  slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(menuID uuid.UUID, staffID *uuid.UUID, dateStr string, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:    date,
		MenuID:  menuID,
		StaffID: staffID,
	}, nil
}
