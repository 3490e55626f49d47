package features

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	flagCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/featureflags"
)

// Результаты обращения к кэшу для метрик
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Service флаги тенанта с read-through кэшем
// Ошибки кэша не ломают запрос, флаги читаются из БД
type Service struct {
	repo      FeatureFlagRepository
	cache     Cache
	txManager TransactionManager
	tenantID  string
	metrics   Metrics
	logger    Logger
}

// NewService создает сервис флагов, cache может быть nil
func NewService(
	repo FeatureFlagRepository,
	cache Cache,
	txManager TransactionManager,
	tenantID string,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		txManager: txManager,
		tenantID:  tenantID,
		metrics:   metrics,
		logger:    logger,
	}
}

// Current возвращает флаги текущего тенанта
func (s *Service) Current(ctx context.Context) (domain.FeatureFlags, error) {
	if s.cache != nil {
		flags, err := s.cache.Get(ctx, s.tenantID)
		if err == nil {
			s.metrics.IncFeatureFlagCache(cacheHit)
			return flags, nil
		}
		if isMiss(err) {
			s.metrics.IncFeatureFlagCache(cacheMiss)
		} else {
			s.metrics.IncFeatureFlagCache(cacheError)
			s.logger.Warn("Current: cache unavailable for tenant=%s: %v", s.tenantID, err)
		}
	}

	flags, err := s.repo.Get(ctx, s.tenantID)
	if err != nil {
		s.logger.Error("Current: repository error for tenant=%s: %v", s.tenantID, err)
		return domain.FeatureFlags{}, fmt.Errorf("%w: Current - repository error: %v", ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.tenantID, flags); err != nil {
			s.logger.Warn("Current: failed to fill cache for tenant=%s: %v", s.tenantID, err)
		}
	}

	return flags, nil
}

// Update меняет флаги, доступно только супер-администратору
// Неизвестный флаг отклоняет все изменение целиком
func (s *Service) Update(ctx context.Context, actor domain.Actor, changes map[string]bool) (domain.FeatureFlags, error) {
	s.logger.Info("Update: tenant=%s, actor=%s, changes=%v", s.tenantID, actor.UserID, changes)

	// 1. Проверяем права
	if !actor.IsSuperAdmin() {
		s.logger.Warn("Update: actor=%s with role=%s is not a super admin", actor.UserID, actor.Role)
		return domain.FeatureFlags{}, ErrAccessDenied
	}

	// 2. Валидируем изменения
	if len(changes) == 0 {
		return domain.FeatureFlags{}, fmt.Errorf("%w: no flags to update", ErrInvalidInput)
	}
	if _, err := (domain.FeatureFlags{}).Apply(changes); err != nil {
		s.logger.Warn("Update: %v", err)
		return domain.FeatureFlags{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Читаем из БД (не из кэша), применяем и сохраняем
	var updated domain.FeatureFlags
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.Get(txCtx, s.tenantID)
		if err != nil {
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated, err = current.Apply(changes)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := s.repo.Save(txCtx, s.tenantID, updated); err != nil {
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Update: failed for tenant=%s: %v", s.tenantID, err)
		return domain.FeatureFlags{}, err
	}

	// 4. Сбрасываем кэш после коммита
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, s.tenantID); err != nil {
			s.logger.Warn("Update: failed to invalidate cache for tenant=%s: %v", s.tenantID, err)
		}
	}

	s.logger.Info("Update: successfully updated flags for tenant=%s", s.tenantID)
	return updated, nil
}

func isMiss(err error) bool {
	return errors.Is(err, flagCache.ErrCacheMiss)
}
