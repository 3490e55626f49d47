package feature_flags

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type FeatureService interface {
	Current(ctx context.Context) (domain.FeatureFlags, error)
	Update(ctx context.Context, actor domain.Actor, changes map[string]bool) (domain.FeatureFlags, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
