package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/staff/models"
)

type StaffService interface {
	Create(ctx context.Context, actor domain.Actor, req *models.CreateStaffRequest) (*models.StaffResponse, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.UpdateStaffRequest) (*models.StaffResponse, error)
	Deactivate(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.StaffResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.StaffResponse, error)
	List(ctx context.Context, includeInactive bool) (*models.StaffListResponse, error)
	ReplaceShifts(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.ReplaceShiftsRequest) (*models.StaffResponse, error)
	AddVacation(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.AddVacationRequest) (*models.VacationResponse, error)
	DeleteVacation(ctx context.Context, actor domain.Actor, staffID, vacationID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
