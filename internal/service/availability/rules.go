package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrStoreClosed магазин закрыт в эту дату (выходной или праздник)
	ErrStoreClosed = errors.New("availability: store is closed on this date")

	// ErrPastDateTime время бронирования уже прошло
	ErrPastDateTime = errors.New("availability: date and time are in the past")

	// ErrOutsideBookingWindow дата вне окна advanceBookingMinDays..advanceBookingMaxDays
	ErrOutsideBookingWindow = errors.New("availability: date is outside the booking window")

	// ErrTooLateToBook до начала меньше minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("availability: too late to book this slot")

	// ErrOutsideBusinessHours интервал выходит за часы работы
	ErrOutsideBusinessHours = errors.New("availability: outside business hours")

	// ErrMisalignedSlot время начала не кратно шагу слотов от открытия
	ErrMisalignedSlot = errors.New("availability: start time is not aligned to the slot grid")
)

// ScheduleRules правила расписания для проверки кандидата
type ScheduleRules struct {
	Settings *domain.StoreSettings
	Now      time.Time

	// EnforceWindow включает проверки окна бронирования и минимального уведомления
	// Администраторы их обходят
	EnforceWindow bool
}

// Validate проверяет кандидата по расписанию магазина без обращения к хранилищу
func (r ScheduleRules) Validate(c Candidate) error {
	if _, err := c.Interval(); err != nil {
		return err
	}

	settings := r.Settings
	if settings == nil {
		settings = domain.DefaultStoreSettings()
	}

	// 1. Выходной или праздник
	if !settings.IsOpenOn(c.Date) {
		return fmt.Errorf("%w: %s", ErrStoreClosed, c.Date.Format(domain.DateFormat))
	}

	// 2. Прошедшее время
	now := r.Now.In(c.Date.Location())
	startAt := c.Start.On(c.Date)
	if !startAt.After(now) {
		return fmt.Errorf("%w: %s %s", ErrPastDateTime, c.Date.Format(domain.DateFormat), c.Start)
	}

	// 3. Окно бронирования и минимальное уведомление
	if r.EnforceWindow {
		days := DaysBetween(now, c.Date)
		if days < settings.AdvanceBookingMinDays {
			return fmt.Errorf("%w: booking must be at least %d days ahead", ErrOutsideBookingWindow, settings.AdvanceBookingMinDays)
		}
		if settings.AdvanceBookingMaxDays > 0 && days > settings.AdvanceBookingMaxDays {
			return fmt.Errorf("%w: booking must be at most %d days ahead", ErrOutsideBookingWindow, settings.AdvanceBookingMaxDays)
		}
		if startAt.Before(now.Add(time.Duration(settings.MinBookingNoticeMinutes) * time.Minute)) {
			return fmt.Errorf("%w: at least %d minutes notice required", ErrTooLateToBook, settings.MinBookingNoticeMinutes)
		}
	}

	// 4. Часы работы
	if !IsWithinBusinessHours(settings, c.Date, c.Start, c.DurationMinutes) {
		schedule := settings.ScheduleFor(c.Date)
		return fmt.Errorf("%w: %s+%dm is outside %s-%s",
			ErrOutsideBusinessHours, c.Start, c.DurationMinutes, schedule.OpenTime, schedule.CloseTime)
	}

	// 5. Сетка слотов
	open := settings.ScheduleFor(c.Date).OpenTime.Minutes()
	if settings.SlotDurationMinutes > 0 && (c.Start.Minutes()-open)%settings.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: step is %d minutes from %s",
			ErrMisalignedSlot, settings.SlotDurationMinutes, settings.ScheduleFor(c.Date).OpenTime)
	}

	return nil
}

// DaysBetween возвращает количество календарных дней от from до to
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
