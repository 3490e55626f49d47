package menus

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/menus/models"
)

type MenuService interface {
	Create(ctx context.Context, actor domain.Actor, req *models.CreateMenuRequest) (*models.MenuResponse, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.UpdateMenuRequest) (*models.MenuResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuResponse, error)
	List(ctx context.Context, activeOnly bool) (*models.MenuListResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.DeleteMenuResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
