package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// generateTimeSlots генерирует начала слотов на день
// Слоты идут от открытия с шагом slotDuration, пока услуга длительностью
// menuDuration заканчивается не позже закрытия
// Для сегодняшней даты отбрасываются слоты раньше now + minBookingNoticeMinutes
func generateTimeSlots(
	schedule domain.DaySchedule,
	slotDuration int,
	menuDuration int,
	requestDate time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) []types.TimeString {
	open := schedule.OpenTime.Minutes()
	closing := schedule.CloseTime.Minutes()
	if !schedule.IsOpen || open < 0 || closing < 0 || slotDuration <= 0 || menuDuration <= 0 {
		return []types.TimeString{}
	}

	// Шаг 1: Все слоты, в которые услуга помещается целиком
	allSlots := make([]types.TimeString, 0)
	for start := open; start+menuDuration <= closing; start += slotDuration {
		slot, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			break
		}
		allSlots = append(allSlots, slot)
	}

	// Шаг 2: Не сегодня - возвращаем все слоты
	if !domain.SameDay(requestDate, now) {
		return allSlots
	}

	// Шаг 3: Сегодня - отсекаем слоты раньше минимального времени
	minAllowed := now.Hour()*60 + now.Minute() + minBookingNoticeMinutes
	availableSlots := make([]types.TimeString, 0, len(allSlots))
	for _, slot := range allSlots {
		if slot.Minutes() >= minAllowed {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots
}

// isBookableDate проверяет дату по окну бронирования магазина
func isBookableDate(settings *domain.StoreSettings, date, now time.Time) bool {
	if domain.DateOnly(date).Before(domain.DateOnly(now)) {
		return false
	}
	if !settings.IsOpenOn(date) {
		return false
	}

	days := availability.DaysBetween(now, date)
	if days < settings.AdvanceBookingMinDays {
		return false
	}
	if settings.AdvanceBookingMaxDays > 0 && days > settings.AdvanceBookingMaxDays {
		return false
	}
	return true
}

// staffCalendar занятые интервалы одного сотрудника
type staffCalendar struct {
	staffID  uuid.UUID
	occupied []domain.Interval
}

// buildSlots вычисляет свободных сотрудников для каждого слота
// Граничащие интервалы не пересекаются
func buildSlots(starts []types.TimeString, menuDuration int, calendars []staffCalendar) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(starts))

	for _, start := range starts {
		end, err := start.AddMinutes(menuDuration)
		if err != nil {
			continue
		}

		candidate := domain.Interval{Start: start.Minutes(), End: start.Minutes() + menuDuration}
		free := make([]uuid.UUID, 0, len(calendars))
		for _, c := range calendars {
			if _, conflict := availability.FirstConflict(c.occupied, candidate); !conflict {
				free = append(free, c.staffID)
			}
		}

		result = append(result, domain.AvailableSlot{
			StartTime: start,
			EndTime:   end,
			StaffIDs:  free,
		})
	}

	return result
}
