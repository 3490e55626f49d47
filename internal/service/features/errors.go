package features

import "errors"

var (
	// ErrAccessDenied возвращается, когда флаги меняет не супер-администратор
	ErrAccessDenied = errors.New("features: access denied")

	// ErrInvalidInput возвращается при пустом изменении или неизвестном флаге
	ErrInvalidInput = errors.New("features: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("features: internal error")
)
