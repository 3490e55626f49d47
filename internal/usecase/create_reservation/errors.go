package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrAccessDenied возвращается, когда клиент пытается забронировать за другого пользователя
	ErrAccessDenied = errors.New("create_reservation: access denied")

	// ErrMenuNotFound возвращается, когда меню не найдено или неактивно
	ErrMenuNotFound = errors.New("create_reservation: menu not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("create_reservation: staff not found")

	// ErrStoreClosed возвращается, когда магазин закрыт в указанную дату
	ErrStoreClosed = errors.New("create_reservation: store is closed on this date")

	// ErrPastDateTime возвращается, когда время бронирования уже прошло
	ErrPastDateTime = errors.New("create_reservation: date and time are in the past")

	// ErrOutsideBookingWindow возвращается, когда дата вне окна бронирования
	ErrOutsideBookingWindow = errors.New("create_reservation: date is outside the booking window")

	// ErrTooLateToBook возвращается при нарушении minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_reservation: too late to book this slot")

	// ErrOutsideBusinessHours возвращается, когда интервал выходит за часы работы
	ErrOutsideBusinessHours = errors.New("create_reservation: outside business hours")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов
	ErrInvalidTimeSlot = errors.New("create_reservation: invalid time slot")

	// ErrSlotConflict возвращается, когда слот уже занят
	ErrSlotConflict = errors.New("create_reservation: time slot conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
