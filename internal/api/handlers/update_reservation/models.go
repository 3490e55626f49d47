package update_reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UpdateReservationRequest HTTP request model
// Отсутствующие поля не меняются
type UpdateReservationRequest struct {
	ReservedDate       *string    `json:"reservedDate,omitempty"`
	ReservedTime       *string    `json:"reservedTime,omitempty"`
	MenuID             *uuid.UUID `json:"menuId,omitempty"`
	StaffID            *uuid.UUID `json:"staffId,omitempty"`
	Notes              *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
	Status             *string    `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED NO_SHOW"`
	CancellationReason *string    `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// CancelReservationRequest тело отмены (опционально)
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// UpdateStatusRequest смена статуса администратором
type UpdateStatusRequest struct {
	Status             string  `json:"status" validate:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED NO_SHOW"`
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(actor domain.Actor, id uuid.UUID, loc *time.Location) (*updateReservation.Request, error) {
	req := &updateReservation.Request{
		Actor:              actor,
		ReservationID:      id,
		MenuID:             r.MenuID,
		StaffID:            r.StaffID,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
	}

	if r.ReservedDate != nil {
		date, err := time.ParseInLocation(domain.DateFormat, *r.ReservedDate, loc)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.ReservedTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.ReservedTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	if r.Status != nil {
		status := domain.ReservationStatus(*r.Status)
		req.Status = &status
	}

	return req, nil
}

// ToUseCaseRequest отмена = перевод в CANCELLED
func (r *CancelReservationRequest) ToUseCaseRequest(actor domain.Actor, id uuid.UUID) *updateReservation.Request {
	status := domain.StatusCancelled
	return &updateReservation.Request{
		Actor:              actor,
		ReservationID:      id,
		Status:             &status,
		CancellationReason: r.Reason,
	}
}

// ToUseCaseRequest конвертирует смену статуса в модель use case
func (r *UpdateStatusRequest) ToUseCaseRequest(actor domain.Actor, id uuid.UUID) *updateReservation.Request {
	status := domain.ReservationStatus(r.Status)
	return &updateReservation.Request{
		Actor:              actor,
		ReservationID:      id,
		Status:             &status,
		CancellationReason: r.CancellationReason,
	}
}
