package update_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на изменение
	ErrAccessDenied = errors.New("update_reservation: access denied")

	// ErrMenuNotFound возвращается, когда новое меню не найдено или неактивно
	ErrMenuNotFound = errors.New("update_reservation: menu not found")

	// ErrStaffNotFound возвращается, когда новый сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("update_reservation: staff not found")

	// ErrStoreClosed возвращается, когда магазин закрыт в новую дату
	ErrStoreClosed = errors.New("update_reservation: store is closed on this date")

	// ErrPastDateTime возвращается, когда новое время уже прошло
	ErrPastDateTime = errors.New("update_reservation: date and time are in the past")

	// ErrOutsideBookingWindow возвращается, когда новая дата вне окна бронирования
	ErrOutsideBookingWindow = errors.New("update_reservation: date is outside the booking window")

	// ErrTooLateToBook возвращается при нарушении minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("update_reservation: too late to book this slot")

	// ErrOutsideBusinessHours возвращается, когда новый интервал выходит за часы работы
	ErrOutsideBusinessHours = errors.New("update_reservation: outside business hours")

	// ErrInvalidTimeSlot возвращается, когда новое время не попадает в сетку слотов
	ErrInvalidTimeSlot = errors.New("update_reservation: invalid time slot")

	// ErrSlotConflict возвращается, когда новый интервал пересекается с занятым временем
	ErrSlotConflict = errors.New("update_reservation: time slot conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
