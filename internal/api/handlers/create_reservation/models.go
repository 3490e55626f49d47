package create_reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
// userId учитывается только для администраторов
type CreateReservationRequest struct {
	MenuID       uuid.UUID  `json:"menuId" validate:"required"`
	StaffID      *uuid.UUID `json:"staffId,omitempty"`
	UserID       *uuid.UUID `json:"userId,omitempty"`
	ReservedDate string     `json:"reservedDate" validate:"required"`
	ReservedTime string     `json:"reservedTime" validate:"required"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Дата интерпретируется в часовом поясе магазина
func (r *CreateReservationRequest) ToUseCaseRequest(actor domain.Actor, loc *time.Location) (*createReservation.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.ReservedDate, loc)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.ReservedTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		Actor:     actor,
		UserID:    r.UserID,
		MenuID:    r.MenuID,
		StaffID:   r.StaffID,
		Date:      date,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}
