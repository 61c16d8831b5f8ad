package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "tarsier/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

type errorStatus struct {
	err  error
	code int
}

// Порядок важен: первое совпадение по errors.Is определяет код.
var errorStatuses = []errorStatus{
	{apperrors.ErrOverlap, http.StatusBadRequest},
	{apperrors.ErrPastStart, http.StatusBadRequest},
	{apperrors.ErrBadRequest, http.StatusBadRequest},
	{apperrors.ErrEquipmentCodeExists, http.StatusBadRequest},
	{apperrors.ErrPerimeterCodeExists, http.StatusBadRequest},
	{apperrors.ErrEmailExists, http.StatusBadRequest},
	{apperrors.ErrPasswordAlreadySet, http.StatusBadRequest},
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrUserNotFound, http.StatusNotFound},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized},
	{apperrors.ErrInvalidSigningMethod, http.StatusUnauthorized},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code, message := ResolveError(err)
	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("Внутренняя ошибка при обработке запроса",
			zap.String("path", ctx.Path()),
			zap.Error(err),
		)
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}

// ResolveError переводит ошибку в HTTP-код и текст для клиента.
// Детали сбоев хранилища наружу не уходят.
func ResolveError(err error) (int, string) {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return http.StatusBadRequest, describeFieldError(fieldErrs[0])
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code, fmt.Sprint(echoErr.Message)
	}

	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.code, s.err.Error()
		}
	}

	return http.StatusInternalServerError, apperrors.ErrInternalServer.Error()
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%q must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q is invalid (%s)", fe.Field(), fe.Tag())
	}
}
