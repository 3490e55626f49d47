package update_reservation

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

const metricsOperation = "update"

// UseCase use case для изменения бронирования (поля, статус, отмена)
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
	location        *time.Location
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

// WithLocation задает часовой пояс магазина
// Дата из хранилища и из запроса переносится в него перед проверками слота
func (uc *UseCase) WithLocation(loc *time.Location) *UseCase {
	uc.location = loc
	return uc
}

// Execute выполняет изменение бронирования в одной сериализуемой транзакции
// Любая ошибка откатывает транзакцию, сохраненная строка остается прежней
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: actor=%s, role=%s, reservation=%s, status=%v, fields=%t",
		req.Actor.UserID, req.Actor.Role, req.ReservationID, statusString(req.Status), req.HasFieldChanges())

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Флаги тенанта
	flags, err := uc.flags.Current(ctx)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to get feature flags: %v", err)
		return nil, fmt.Errorf("%w: failed to get feature flags: %v", ErrInternal, err)
	}

	var (
		before  *domain.Reservation
		result  *domain.Reservation
		changed bool
	)

	// 3. Чтение, проверки и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()
		changed = false

		// 3.1. Текущее состояние
		current, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("UpdateReservation: reservation id=%s not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get reservation id=%s: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}
		before = current

		// 3.2. Права
		if err := authorize(req.Actor, current, req); err != nil {
			uc.logger.Warn("UpdateReservation: actor=%s denied for reservation=%s: %v", req.Actor.UserID, current.ID, err)
			return err
		}

		// 3.3. Поля можно менять только у активного бронирования
		if req.HasFieldChanges() {
			if err := domain.EnsureMutable(current.Status); err != nil {
				uc.logger.Warn("UpdateReservation: reservation id=%s is %s: %v", current.ID, current.Status, err)
				return err
			}
		}

		updated := current.Clone()
		updated.ReservedDate = domain.DateIn(current.ReservedDate, uc.location)

		// 3.4. Смена статуса через таблицу переходов
		if req.Status != nil && *req.Status != current.Status {
			if err := domain.CheckTransition(current.Status, *req.Status); err != nil {
				uc.logger.Warn("UpdateReservation: reservation id=%s: %v", current.ID, err)
				return err
			}
			updated.Status = *req.Status
			changed = true

			if updated.Status == domain.StatusCancelled {
				cancelledAt := now
				updated.CancelledAt = &cancelledAt
				updated.CancellationReason = req.CancellationReason
			}
		}

		// 3.5. Поля бронирования
		if req.HasFieldChanges() {
			if err := uc.applyFieldChanges(txCtx, req, updated, flags); err != nil {
				return err
			}
			changed = true
		}

		// 3.6. Новый интервал проверяется по расписанию и детектором, исключая само бронирование
		if req.AffectsSlot() && updated.IsActive() {
			if err := uc.checkSlot(txCtx, req.Actor, current, updated, flags, now); err != nil {
				return err
			}
		}

		if !changed {
			result = current
			return nil
		}

		// 3.7. Единственная запись
		saved, err := uc.reservationRepo.Update(txCtx, updated)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				uc.logger.Warn("UpdateReservation: slot taken by concurrent booking, reservation=%s", current.ID)
				return ErrSlotConflict
			}
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to update reservation id=%s: %v", current.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		result = saved
		return nil
	})

	if err != nil {
		if txmanager.IsRetryable(err) {
			uc.logger.Warn("UpdateReservation: serialization retries exhausted: %v", err)
			err = ErrSlotConflict
		}
		if errors.Is(err, ErrSlotConflict) {
			uc.metrics.IncReservationConflict(metricsOperation)
		}
		return nil, err
	}

	if !changed {
		uc.logger.Info("UpdateReservation: reservation id=%s unchanged", result.ID)
		return &Response{Reservation: result, Changed: false}, nil
	}

	uc.logger.Info("UpdateReservation: successfully updated reservation id=%s, status=%s", result.ID, result.Status)
	uc.publish(ctx, before, result)

	return &Response{Reservation: result, Changed: true}, nil
}

// applyFieldChanges применяет изменения полей и проверяет новые ссылки на меню и сотрудника
func (uc *UseCase) applyFieldChanges(ctx context.Context, req *Request, updated *domain.Reservation, flags domain.FeatureFlags) error {
	if req.MenuID != nil && *req.MenuID != updated.MenuID {
		menu, err := uc.menuRepo.GetByID(ctx, *req.MenuID)
		if err != nil {
			if errors.Is(err, menuRepo.ErrMenuNotFound) {
				uc.logger.Warn("UpdateReservation: menu id=%s not found", *req.MenuID)
				return ErrMenuNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get menu id=%s: %v", *req.MenuID, err)
			return fmt.Errorf("%w: failed to get menu: %w", ErrInternal, err)
		}
		if !menu.IsActive {
			uc.logger.Warn("UpdateReservation: menu id=%s is inactive", *req.MenuID)
			return ErrMenuNotFound
		}
		updated.MenuID = menu.ID
		updated.DurationMinutes = menu.DurationMinutes
		updated.MenuName = menu.Name
		updated.MenuPrice = menu.Price
	}

	if req.StaffID != nil && (updated.StaffID == nil || *req.StaffID != *updated.StaffID) {
		if !req.Actor.IsAdmin() && !flags.StaffSelection {
			return fmt.Errorf("%w: staff selection is disabled", ErrInvalidInput)
		}
		staffID := *req.StaffID
		updated.StaffID = &staffID
	}

	if req.Date != nil {
		updated.ReservedDate = domain.DateIn(*req.Date, uc.location)
	}

	if req.StartTime != nil {
		updated.ReservedTime = *req.StartTime
	}

	if req.Notes != nil {
		notes := *req.Notes
		updated.Notes = &notes
	}

	return nil
}

// checkSlot проверяет новый интервал под блокировками старого и нового (сотрудник, день)
func (uc *UseCase) checkSlot(
	ctx context.Context,
	actor domain.Actor,
	current, updated *domain.Reservation,
	flags domain.FeatureFlags,
	now time.Time,
) error {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("UpdateReservation: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %w", ErrInternal, err)
		}
		settings = domain.DefaultStoreSettings()
	}

	candidate := availability.Candidate{
		Date:            updated.ReservedDate,
		Start:           updated.ReservedTime,
		DurationMinutes: updated.DurationMinutes,
	}

	rules := availability.ScheduleRules{Settings: settings, Now: now, EnforceWindow: !actor.IsAdmin()}
	if err := rules.Validate(candidate); err != nil {
		uc.logger.Warn("UpdateReservation: schedule validation failed for reservation=%s: %v", current.ID, err)
		return mapScheduleError(err)
	}

	if updated.StaffID == nil {
		return fmt.Errorf("%w: reservation has no staff assigned", ErrInvalidInput)
	}

	staff, err := uc.staffRepo.GetByID(ctx, *updated.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("UpdateReservation: staff id=%s not found", *updated.StaffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get staff id=%s: %v", *updated.StaffID, err)
		return fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
	}
	if !staff.IsActive {
		uc.logger.Warn("UpdateReservation: staff id=%s is inactive", staff.ID)
		return ErrStaffNotFound
	}

	if err := uc.lockStaffDays(ctx, current, updated); err != nil {
		return err
	}

	if err := uc.availability.Check(ctx, staff, candidate, settings, flags, &current.ID); err != nil {
		if errors.Is(err, availability.ErrSlotConflict) {
			uc.logger.Warn("UpdateReservation: reservation=%s: %v", current.ID, err)
			return fmt.Errorf("%w: %v", ErrSlotConflict, err)
		}
		if errors.Is(err, availability.ErrInvalidCandidate) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("UpdateReservation: availability check failed: %v", err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return nil
}

// lockStaffDays блокирует старый и новый (сотрудник, день) в порядке ключа
func (uc *UseCase) lockStaffDays(ctx context.Context, current, updated *domain.Reservation) error {
	type staffDay struct {
		staffID uuid.UUID
		key     string
		res     *domain.Reservation
	}

	days := make([]staffDay, 0, 2)
	seen := make(map[string]bool, 2)
	for _, r := range []*domain.Reservation{current, updated} {
		if r.StaffID == nil {
			continue
		}
		key := r.StaffID.String() + ":" + r.ReservedDate.Format(domain.DateFormat)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, staffDay{staffID: *r.StaffID, key: key, res: r})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].key < days[j].key })

	for _, d := range days {
		if err := uc.reservationRepo.LockStaffDay(ctx, d.staffID, d.res.ReservedDate); err != nil {
			uc.logger.Error("UpdateReservation: failed to lock %s: %v", d.key, err)
			return fmt.Errorf("%w: failed to lock staff day: %w", ErrInternal, err)
		}
	}
	return nil
}

// publish отправляет событие после коммита, ошибка не влияет на ответ
func (uc *UseCase) publish(ctx context.Context, before, after *domain.Reservation) {
	now := uc.timeProvider.Now()

	var event events.Event
	if before.Status != after.Status {
		uc.metrics.IncStatusTransition(string(before.Status), string(after.Status))
		event = events.NewStatusChangedEvent(after, before.Status, now)
	} else {
		event = events.NewReservationEvent(events.TypeReservationUpdated, after, now)
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("UpdateReservation: failed to publish event for id=%s: %v", after.ID, err)
	}
}

func statusString(s *domain.ReservationStatus) string {
	if s == nil {
		return "-"
	}
	return string(*s)
}
