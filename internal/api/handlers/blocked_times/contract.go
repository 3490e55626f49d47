package blocked_times

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/blockedtimes/models"
)

type BlockedTimeService interface {
	Create(ctx context.Context, actor domain.Actor, req *models.CreateBlockedTimeRequest) (*models.BlockedTimeResponse, error)
	List(ctx context.Context, from, to time.Time) (*models.BlockedTimeListResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
