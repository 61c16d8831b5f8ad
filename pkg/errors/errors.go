package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
	ErrInvalidToken         = errors.New("Invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenNotFound        = errors.New("Token does not exist")

	// Авторизация
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("Request not permitted")
	ErrForbidden          = errors.New("Not allowed")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordAlreadySet = errors.New("password already set")

	// Бронирование
	ErrOverlap   = errors.New("overlapped")
	ErrPastStart = errors.New("invalid start date")

	// Справочники
	ErrEquipmentCodeExists = errors.New("Equipement code already exists")
	ErrPerimeterCodeExists = errors.New("Perimeter code already exists")
	ErrEmailExists         = errors.New("email already exists")

	// Общие
	ErrNotFound       = errors.New("record not found")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("Unexpected error occured")
)

// HttpError несёт код ответа, который контроллер отдаст как есть.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil)
}

// ValidationError - некорректные или отсутствующие входные данные.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StorageError оборачивает сбой хранилища. Наружу уходит без деталей.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
