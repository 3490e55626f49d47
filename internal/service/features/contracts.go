package features

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// FeatureFlagRepository интерфейс репозитория флагов
type FeatureFlagRepository interface {
	Get(ctx context.Context, tenantID string) (domain.FeatureFlags, error)
	Save(ctx context.Context, tenantID string, flags domain.FeatureFlags) error
}

// Cache кэш флагов (Redis)
type Cache interface {
	Get(ctx context.Context, tenantID string) (domain.FeatureFlags, error)
	Set(ctx context.Context, tenantID string, flags domain.FeatureFlags) error
	Invalidate(ctx context.Context, tenantID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики кэша флагов
type Metrics interface {
	IncFeatureFlagCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
