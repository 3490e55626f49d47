package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Коды ошибок API
const (
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeMenuNotFound         = "MENU_NOT_FOUND"
	CodeStaffNotFound        = "STAFF_NOT_FOUND"
	CodeSlotConflict         = "TIME_SLOT_CONFLICT"
	CodeIllegalTransition    = "ILLEGAL_STATUS_TRANSITION"
	CodeImmutableReservation = "IMMUTABLE_RESERVATION"
	CodeOutsideBusinessHours = "OUTSIDE_BUSINESS_HOURS"
	CodeStoreClosed          = "STORE_CLOSED"
	CodePastDateTime         = "PAST_DATE_TIME"
	CodeOutsideBookingWindow = "OUTSIDE_BOOKING_WINDOW"
	CodeFeatureDisabled      = "FEATURE_DISABLED"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternal             = "INTERNAL_ERROR"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrorBody тело ответа с ошибкой
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail код и сообщение ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ошибку с кодом
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// RespondValidationError 400 VALIDATION_ERROR
func RespondValidationError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeValidation, message)
}

// RespondBadRequest 400 с произвольным кодом
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// RespondForbidden 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, CodeForbidden, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondConflict 409
func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondInternalError 500 без деталей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternal, msgInternalError)
}

// DecodeJSON декодирует тело запроса
// Пустое тело и лишние данные после объекта считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after json object")
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate проверяет validate теги структуры
// Возвращает описание первого нарушенного правила
func Validate(v interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			return jsonName(field.Tag.Get("json"), field.Name)
		})
	})

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		if fe.Param() != "" {
			return fmt.Errorf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%s: %s", fe.Field(), fe.Tag())
	}
	return err
}

func jsonName(tag, fallback string) string {
	name := strings.Split(tag, ",")[0]
	if name == "" || name == "-" {
		return fallback
	}
	return name
}

// PathUUID извлекает UUID из переменной пути
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

// QueryUUID извлекает опциональный UUID из query параметра
func QueryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
