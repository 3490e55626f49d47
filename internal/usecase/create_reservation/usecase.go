package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	menuRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/menu"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	staffRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

const metricsOperation = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	menuRepo        MenuRepository
	staffRepo       StaffRepository
	settingsRepo    SettingsRepository
	flags           FeatureFlagProvider
	availability    AvailabilityChecker
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	menuRepo MenuRepository,
	staffRepo StaffRepository,
	settingsRepo SettingsRepository,
	flags FeatureFlagProvider,
	availability AvailabilityChecker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		menuRepo:        menuRepo,
		staffRepo:       staffRepo,
		settingsRepo:    settingsRepo,
		flags:           flags,
		availability:    availability,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Проверка занятости и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: actor=%s, role=%s, menu=%s, date=%s, time=%s",
		req.Actor.UserID, req.Actor.Role, req.MenuID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем владельца бронирования
	ownerID, err := resolveOwner(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: actor=%s cannot book for user=%s", req.Actor.UserID, *req.UserID)
		return nil, err
	}

	// 3. Читаем флаги тенанта один раз на запрос
	flags, err := uc.flags.Current(ctx)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get feature flags: %v", err)
		return nil, fmt.Errorf("%w: failed to get feature flags: %v", ErrInternal, err)
	}

	// Клиент выбирает сотрудника только при включенном выборе сотрудника
	requestedStaff := req.StaffID
	if requestedStaff != nil && !req.Actor.IsAdmin() && !flags.StaffSelection {
		uc.logger.Info("CreateReservation: staff selection disabled, ignoring staff=%s", *requestedStaff)
		requestedStaff = nil
	}

	now := uc.timeProvider.Now()
	var result *domain.Reservation

	// 4. Проверка и запись в сериализуемой транзакции
	// При повторе fn выполняется заново целиком
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Настройки магазина
		settings, err := uc.settingsRepo.Get(txCtx)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				uc.logger.Error("CreateReservation: failed to get settings: %v", err)
				return fmt.Errorf("%w: failed to get settings: %w", ErrInternal, err)
			}
			settings = domain.DefaultStoreSettings()
		}

		// 4.2. Меню должно существовать и быть активным
		menu, err := uc.menuRepo.GetByID(txCtx, req.MenuID)
		if err != nil {
			if errors.Is(err, menuRepo.ErrMenuNotFound) {
				uc.logger.Warn("CreateReservation: menu id=%s not found", req.MenuID)
				return ErrMenuNotFound
			}
			uc.logger.Error("CreateReservation: failed to get menu id=%s: %v", req.MenuID, err)
			return fmt.Errorf("%w: failed to get menu: %w", ErrInternal, err)
		}
		if !menu.IsActive {
			uc.logger.Warn("CreateReservation: menu id=%s is inactive", req.MenuID)
			return ErrMenuNotFound
		}

		candidate := availability.Candidate{
			Date:            req.Date,
			Start:           req.StartTime,
			DurationMinutes: menu.DurationMinutes,
		}

		// 4.3. Правила расписания (дата, окно бронирования, часы работы)
		rules := availability.ScheduleRules{Settings: settings, Now: now, EnforceWindow: !req.Actor.IsAdmin()}
		if err := rules.Validate(candidate); err != nil {
			uc.logger.Warn("CreateReservation: schedule validation failed: %v", err)
			return mapScheduleError(err)
		}

		// 4.4. Сотрудник: выбранный или автоназначение
		staff, err := uc.resolveStaff(txCtx, requestedStaff, candidate, settings, flags)
		if err != nil {
			return err
		}

		status := domain.StatusPending
		if req.Actor.IsAdmin() {
			status = domain.StatusConfirmed
		}

		// 4.5. Сохраняем бронирование с денормализацией меню
		reservation := &domain.Reservation{
			UserID:          ownerID,
			StaffID:         &staff.ID,
			MenuID:          menu.ID,
			ReservedDate:    domain.DateOnly(req.Date),
			ReservedTime:    req.StartTime,
			DurationMinutes: menu.DurationMinutes,
			Status:          status,
			Notes:           req.Notes,
			MenuName:        menu.Name,
			MenuPrice:       menu.Price,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateReservation: slot taken by concurrent booking, staff=%s", staff.ID)
				return ErrSlotConflict
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Повторы исчерпаны: конкурирующая транзакция заняла слот
		if txmanager.IsRetryable(err) {
			uc.logger.Warn("CreateReservation: serialization retries exhausted: %v", err)
			err = ErrSlotConflict
		}
		if errors.Is(err, ErrSlotConflict) {
			uc.metrics.IncReservationConflict(metricsOperation)
		}
		return nil, err
	}

	uc.metrics.IncReservationCreated(string(result.Status))
	uc.logger.Info("CreateReservation: successfully created reservation id=%s, staff=%s, status=%s",
		result.ID, *result.StaffID, result.Status)

	// 5. Событие публикуется после коммита, ошибка не влияет на ответ
	if err := uc.publisher.Publish(ctx, events.NewReservationEvent(events.TypeReservationCreated, result, uc.timeProvider.Now())); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish event for id=%s: %v", result.ID, err)
	}

	return &Response{Reservation: result}, nil
}

// resolveStaff возвращает выбранного сотрудника или назначает первого свободного
// Перед проверкой берутся блокировки (сотрудник, день) в порядке id
func (uc *UseCase) resolveStaff(
	ctx context.Context,
	requested *uuid.UUID,
	candidate availability.Candidate,
	settings *domain.StoreSettings,
	flags domain.FeatureFlags,
) (*domain.Staff, error) {
	if requested != nil {
		staff, err := uc.staffRepo.GetByID(ctx, *requested)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateReservation: staff id=%s not found", *requested)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("CreateReservation: failed to get staff id=%s: %v", *requested, err)
			return nil, fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
		}
		if !staff.IsActive {
			uc.logger.Warn("CreateReservation: staff id=%s is inactive", *requested)
			return nil, ErrStaffNotFound
		}

		if err := uc.lockStaffDays(ctx, []*domain.Staff{staff}, candidate.Date); err != nil {
			return nil, err
		}

		if err := uc.availability.Check(ctx, staff, candidate, settings, flags, nil); err != nil {
			return nil, uc.mapAvailabilityError(err)
		}
		return staff, nil
	}

	all, err := uc.staffRepo.List(ctx, false)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %w", ErrInternal, err)
	}

	if err := uc.lockStaffDays(ctx, all, candidate.Date); err != nil {
		return nil, err
	}

	staff, err := uc.availability.AssignStaff(ctx, all, candidate, settings, flags, nil)
	if err != nil {
		return nil, uc.mapAvailabilityError(err)
	}
	return staff, nil
}

func (uc *UseCase) lockStaffDays(ctx context.Context, staff []*domain.Staff, date time.Time) error {
	ids := make([]uuid.UUID, 0, len(staff))
	for _, s := range staff {
		ids = append(ids, s.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := uc.reservationRepo.LockStaffDay(ctx, id, date); err != nil {
			uc.logger.Error("CreateReservation: failed to lock staff=%s, date=%s: %v", id, date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: failed to lock staff day: %w", ErrInternal, err)
		}
	}
	return nil
}

func (uc *UseCase) mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, availability.ErrSlotConflict), errors.Is(err, availability.ErrNoStaffAvailable):
		uc.logger.Warn("CreateReservation: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	case errors.Is(err, availability.ErrInvalidCandidate):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		uc.logger.Error("CreateReservation: availability check failed: %v", err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
