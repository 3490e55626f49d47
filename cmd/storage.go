package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	blockedTimeRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/blockedtime"
	featureFlagRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/featureflag"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memstore"
	menuRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/menu"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	staffRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// Интерфейсы хранилища, общие для postgres и in-memory реализаций

type reservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	ListActiveByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	ExistsByMenu(ctx context.Context, menuID uuid.UUID) (bool, error)
	LockStaffDay(ctx context.Context, staffID uuid.UUID, date time.Time) error
}

type menuRepository interface {
	Create(ctx context.Context, m *domain.Menu) (*domain.Menu, error)
	Update(ctx context.Context, m *domain.Menu) (*domain.Menu, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Menu, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Menu, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type staffRepository interface {
	Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	Update(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Staff, error)
	ReplaceShifts(ctx context.Context, staffID uuid.UUID, shifts []domain.StaffShift) error
	AddVacation(ctx context.Context, v *domain.StaffVacation) (*domain.StaffVacation, error)
	DeleteVacation(ctx context.Context, staffID, vacationID uuid.UUID) error
}

type blockedTimeRepository interface {
	Create(ctx context.Context, b *domain.BlockedTime) (*domain.BlockedTime, error)
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type settingsRepository interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
	Save(ctx context.Context, s *domain.StoreSettings) (*domain.StoreSettings, error)
}

type featureFlagRepository interface {
	Get(ctx context.Context, tenantID string) (domain.FeatureFlags, error)
	Save(ctx context.Context, tenantID string, flags domain.FeatureFlags) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	reservations reservationRepository
	menus        menuRepository
	staff        staffRepository
	blockedTimes blockedTimeRepository
	settings     settingsRepository
	featureFlags featureFlagRepository
	tx           txManager

	// db nil для in-memory хранилища
	db    *dbmetrics.DB
	close func() error
}

func newMemoryStorage() *storage {
	store := memstore.New()
	return &storage{
		reservations: store.Reservations(),
		menus:        store.Menus(),
		staff:        store.Staff(),
		blockedTimes: store.BlockedTimes(),
		settings:     store.Settings(),
		featureFlags: store.FeatureFlags(),
		tx:           store,
		close:        func() error { return nil },
	}
}

// newPostgresStorage подключается к PostgreSQL
// m == nil - запросы не замеряются
func newPostgresStorage(cfg config.DatabaseConfig, loc *time.Location, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	var wrapped *dbmetrics.DB
	opts := []txmanager.Option{txmanager.WithMaxRetries(cfg.TxMaxRetries)}
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m, stopCh)
		opts = append(opts, txmanager.WithRetryObserver(m))
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		reservations: reservationRepo.NewRepository(wrapped).WithLocation(loc),
		menus:        menuRepo.NewRepository(wrapped),
		staff:        staffRepo.NewRepository(wrapped),
		blockedTimes: blockedTimeRepo.NewRepository(wrapped),
		settings:     settingsRepo.NewRepository(wrapped),
		featureFlags: featureFlagRepo.NewRepository(wrapped),
		tx:           txmanager.NewTransactionManager(wrapped, opts...),
		db:           wrapped,
		close:        db.Close,
	}, nil
}
