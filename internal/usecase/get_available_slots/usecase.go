package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	menuRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/menu"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	staffRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	menuRepo     MenuRepository
	staffRepo    StaffRepository
	settingsRepo SettingsRepository
	flags        FeatureFlagProvider
	calendar     Calendar
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	menuRepo MenuRepository,
	staffRepo StaffRepository,
	settingsRepo SettingsRepository,
	flags FeatureFlagProvider,
	calendar Calendar,
	logger Logger,
) *UseCase {
	return &UseCase{
		menuRepo:     menuRepo,
		staffRepo:    staffRepo,
		settingsRepo: settingsRepo,
		flags:        flags,
		calendar:     calendar,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: menu=%s, date=%s", req.MenuID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.MenuID == uuid.Nil {
		return nil, fmt.Errorf("%w: menuId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := domain.DateOnly(req.Date)
	now := uc.timeProvider.Now().In(date.Location())
	response := &Response{Date: date, MenuID: req.MenuID, Slots: []domain.AvailableSlot{}}

	// 2. Меню определяет длительность слота
	menu, err := uc.menuRepo.GetByID(ctx, req.MenuID)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			uc.logger.Warn("GetAvailableSlots: menu id=%s not found", req.MenuID)
			return nil, ErrMenuNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get menu id=%s: %v", req.MenuID, err)
		return nil, fmt.Errorf("%w: failed to get menu: %v", ErrInternal, err)
	}
	if !menu.IsActive {
		return nil, ErrMenuNotFound
	}

	// 3. Настройки магазина
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultStoreSettings()
		uc.logger.Info("GetAvailableSlots: using default store settings")
	}

	// 4. Закрытые и недоступные для бронирования даты дают пустой список
	if !isBookableDate(settings, date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is not bookable", date.Format(domain.DateFormat))
		return response, nil
	}

	flags, err := uc.flags.Current(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get feature flags: %v", err)
		return nil, fmt.Errorf("%w: failed to get feature flags: %v", ErrInternal, err)
	}

	// 5. Сотрудники, по которым считается доступность
	staff, err := uc.resolveStaff(ctx, req.StaffID, flags)
	if err != nil {
		return nil, err
	}

	// 6. Начала слотов по расписанию дня
	starts := generateTimeSlots(
		settings.ScheduleFor(date),
		settings.SlotDurationMinutes,
		menu.DurationMinutes,
		date,
		now,
		settings.MinBookingNoticeMinutes,
	)

	// 7. Занятые интервалы читаются один раз на сотрудника
	calendars := make([]staffCalendar, 0, len(staff))
	for _, s := range availability.SortForAssignment(staff) {
		occupied, err := uc.calendar.OccupiedIntervals(ctx, s, date, settings, flags, nil)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get occupied intervals for staff=%s: %v", s.ID, err)
			return nil, fmt.Errorf("%w: failed to get occupied intervals: %v", ErrInternal, err)
		}
		calendars = append(calendars, staffCalendar{staffID: s.ID, occupied: occupied})
	}

	response.Slots = buildSlots(starts, menu.DurationMinutes, calendars)

	uc.logger.Info("GetAvailableSlots: generated %d slots for menu=%s, date=%s, staff=%d",
		len(response.Slots), req.MenuID, date.Format(domain.DateFormat), len(calendars))

	return response, nil
}

// resolveStaff возвращает выбранного сотрудника или всех активных
func (uc *UseCase) resolveStaff(ctx context.Context, staffID *uuid.UUID, flags domain.FeatureFlags) ([]*domain.Staff, error) {
	if staffID != nil && flags.StaffSelection {
		staff, err := uc.staffRepo.GetByID(ctx, *staffID)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%s not found", *staffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%s: %v", *staffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if !staff.IsActive {
			return nil, ErrStaffNotFound
		}
		return []*domain.Staff{staff}, nil
	}

	staff, err := uc.staffRepo.List(ctx, false)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}
	return staff, nil
}
