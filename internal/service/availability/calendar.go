package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const minutesPerDay = 24 * 60

// Service собирает календарь занятости сотрудника и проверяет кандидатов на пересечения
// Все чтения идут через executor из ctx, поэтому внутри транзакции видно актуальное состояние
type Service struct {
	reservationRepo ReservationRepository
	blockedTimeRepo BlockedTimeRepository
	logger          Logger
}

// NewService создает новый сервис доступности
func NewService(reservationRepo ReservationRepository, blockedTimeRepo BlockedTimeRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		blockedTimeRepo: blockedTimeRepo,
		logger:          logger,
	}
}

// IsWithinBusinessHours проверяет, что интервал [start, start+duration) целиком лежит в часах работы
// Окончание ровно во время закрытия допустимо, переход через полночь нет
func IsWithinBusinessHours(settings *domain.StoreSettings, date time.Time, start types.TimeString, durationMinutes int) bool {
	if settings == nil || durationMinutes <= 0 || !settings.IsOpenOn(date) {
		return false
	}

	begin := start.Minutes()
	if begin < 0 {
		return false
	}
	end := begin + durationMinutes
	if end > minutesPerDay {
		return false
	}

	schedule := settings.ScheduleFor(date)
	open := schedule.OpenTime.Minutes()
	closing := schedule.CloseTime.Minutes()
	if open < 0 || closing < 0 {
		return false
	}

	return begin >= open && end <= closing
}

// OccupiedIntervals возвращает упорядоченный список занятых интервалов сотрудника на дату
// exclude исключает бронирование, которое сейчас редактируется
func (s *Service) OccupiedIntervals(
	ctx context.Context,
	staff *domain.Staff,
	date time.Time,
	settings *domain.StoreSettings,
	flags domain.FeatureFlags,
	exclude *uuid.UUID,
) ([]domain.Interval, error) {
	day := domain.DateOnly(date)
	intervals := make([]domain.Interval, 0)

	// 1. Активные бронирования сотрудника
	reservations, err := s.reservationRepo.ListActiveByStaffAndDate(ctx, staff.ID, day)
	if err != nil {
		s.logger.Error("OccupiedIntervals: failed to list reservations for staff=%s, date=%s: %v",
			staff.ID, day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: list reservations: %w", ErrInternal, err)
	}
	for _, r := range reservations {
		if exclude != nil && r.ID == *exclude {
			continue
		}
		intervals = append(intervals, r.Interval())
	}

	// 2. Блокировки магазина и сотрудника, обрезанные по границам дня
	blocked, err := s.blockedTimeRepo.ListOverlapping(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("OccupiedIntervals: failed to list blocked times for date=%s: %v",
			day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: list blocked times: %w", ErrInternal, err)
	}
	for _, b := range blocked {
		if !b.AppliesTo(staff.ID) {
			continue
		}
		if i, ok := b.ClipToDay(day); ok {
			intervals = append(intervals, i)
		}
	}

	// 3. Перерыв
	if settings != nil {
		if i, ok := settings.BreakInterval(); ok {
			intervals = append(intervals, i)
		}
	}

	// 4. Смены и отпуска учитываются только при включенном управлении сменами
	if flags.StaffShiftManagement {
		if staff.IsOnVacation(day) {
			intervals = append(intervals, domain.Interval{Start: 0, End: minutesPerDay, Source: domain.SourceVacation})
		} else {
			intervals = append(intervals, offShiftIntervals(staff.ShiftsOn(day))...)
		}
	}

	sortIntervals(intervals)
	return intervals, nil
}

// offShiftIntervals возвращает дополнение смен до целых суток
// Без смен в этот день весь день нерабочий
func offShiftIntervals(shifts []domain.StaffShift) []domain.Interval {
	working := make([]domain.Interval, 0, len(shifts))
	for _, shift := range shifts {
		i := domain.Interval{Start: shift.StartTime.Minutes(), End: shift.EndTime.Minutes()}
		if i.Start < 0 || i.End < 0 || i.IsEmpty() {
			continue
		}
		working = append(working, i)
	}
	sortIntervals(working)

	out := make([]domain.Interval, 0, len(working)+1)
	cursor := 0
	for _, w := range working {
		if w.Start > cursor {
			out = append(out, domain.Interval{Start: cursor, End: w.Start, Source: domain.SourceOffShift})
		}
		if w.End > cursor {
			cursor = w.End
		}
	}
	if cursor < minutesPerDay {
		out = append(out, domain.Interval{Start: cursor, End: minutesPerDay, Source: domain.SourceOffShift})
	}
	return out
}

func sortIntervals(intervals []domain.Interval) {
	sort.SliceStable(intervals, func(i, j int) bool {
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})
}
