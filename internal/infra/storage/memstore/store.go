// Package memstore is an in-process implementation of every repository and of the
// transaction manager. Transactions are serialized and roll back by restoring a snapshot.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type txKey struct{}

type state struct {
	reservations map[uuid.UUID]*domain.Reservation
	staff        map[uuid.UUID]*domain.Staff
	menus        map[uuid.UUID]*domain.Menu
	blocked      map[uuid.UUID]*domain.BlockedTime
	settings     *domain.StoreSettings
	flags        map[string]domain.FeatureFlags
}

func newState() *state {
	return &state{
		reservations: make(map[uuid.UUID]*domain.Reservation),
		staff:        make(map[uuid.UUID]*domain.Staff),
		menus:        make(map[uuid.UUID]*domain.Menu),
		blocked:      make(map[uuid.UUID]*domain.BlockedTime),
		flags:        make(map[string]domain.FeatureFlags),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, r := range s.reservations {
		c.reservations[id] = r.Clone()
	}
	for id, st := range s.staff {
		c.staff[id] = st.Clone()
	}
	for id, m := range s.menus {
		menu := *m
		c.menus[id] = &menu
	}
	for id, b := range s.blocked {
		block := *b
		c.blocked[id] = &block
	}
	if s.settings != nil {
		c.settings = s.settings.Clone()
	}
	for tenant, f := range s.flags {
		c.flags[tenant] = f
	}
	return c
}

// Store хранилище в памяти процесса
type Store struct {
	// txMu сериализует транзакции и одиночные операции вне транзакций
	txMu sync.Mutex
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{data: newState(), now: time.Now}
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock захватывает хранилище для одной операции репозитория
// Внутри транзакции txMu уже удерживается вызывающим DoSerializable
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// DoSerializable выполняет fn атомарно: транзакции выполняются строго по одной,
// при ошибке или отмене контекста состояние восстанавливается из снимка
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	backup := s.data.clone()
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.data = backup
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		rollback()
		return err
	}

	if err := ctx.Err(); err != nil {
		rollback()
		return err
	}

	return nil
}

// Do выполняет fn в транзакции (в памяти все транзакции сериализуемые)
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

// Reservations возвращает репозиторий бронирований
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

// Staff возвращает репозиторий сотрудников
func (s *Store) Staff() *StaffRepository {
	return &StaffRepository{store: s}
}

// Menus возвращает репозиторий меню
func (s *Store) Menus() *MenuRepository {
	return &MenuRepository{store: s}
}

// BlockedTimes возвращает репозиторий блокировок
func (s *Store) BlockedTimes() *BlockedTimeRepository {
	return &BlockedTimeRepository{store: s}
}

// Settings возвращает репозиторий настроек магазина
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{store: s}
}

// FeatureFlags возвращает репозиторий флагов
func (s *Store) FeatureFlags() *FeatureFlagRepository {
	return &FeatureFlagRepository{store: s}
}
