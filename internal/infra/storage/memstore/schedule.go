package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	blockedTimeRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/blockedtime"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
)

// BlockedTimeRepository блокировки в памяти
type BlockedTimeRepository struct {
	store *Store
}

// Create создает блокировку
func (r *BlockedTimeRepository) Create(ctx context.Context, b *domain.BlockedTime) (*domain.BlockedTime, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = r.store.now()
	stored := *b
	r.store.data.blocked[b.ID] = &stored
	return b, nil
}

// ListOverlapping получает блокировки, пересекающиеся с [from, to)
func (r *BlockedTimeRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]*domain.BlockedTime, 0)
	for _, b := range r.store.data.blocked {
		if b.StartAt.Before(to) && b.EndAt.After(from) {
			block := *b
			out = append(out, &block)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// Delete удаляет блокировку
func (r *BlockedTimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.blocked[id]; !ok {
		return blockedTimeRepo.ErrBlockedTimeNotFound
	}
	delete(r.store.data.blocked, id)
	return nil
}

// SettingsRepository настройки магазина в памяти
type SettingsRepository struct {
	store *Store
}

// Get получает настройки
func (r *SettingsRepository) Get(ctx context.Context) (*domain.StoreSettings, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if r.store.data.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return r.store.data.settings.Clone(), nil
}

// Save сохраняет настройки
func (r *SettingsRepository) Save(ctx context.Context, s *domain.StoreSettings) (*domain.StoreSettings, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	s.UpdatedAt = r.store.now()
	r.store.data.settings = s.Clone()
	return s, nil
}

// FeatureFlagRepository флаги в памяти
type FeatureFlagRepository struct {
	store *Store
}

// Get получает флаги тенанта (по умолчанию все выключены)
func (r *FeatureFlagRepository) Get(ctx context.Context, tenantID string) (domain.FeatureFlags, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	return r.store.data.flags[tenantID], nil
}

// Save сохраняет флаги тенанта
func (r *FeatureFlagRepository) Save(ctx context.Context, tenantID string, flags domain.FeatureFlags) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.data.flags[tenantID] = flags
	return nil
}
