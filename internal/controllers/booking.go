package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/services"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/utils"
)

type BookingController struct {
	bookingService services.BookingServiceInterface
	logger         *zap.Logger
}

func NewBookingController(service services.BookingServiceInterface, logger *zap.Logger) *BookingController {
	return &BookingController{bookingService: service, logger: logger}
}

func (c *BookingController) CreateBooking(ctx echo.Context) error {
	var payload dto.CreateBookingDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateBooking: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.bookingService.CreateBooking(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Booking created", http.StatusCreated)
}

func (c *BookingController) UpdateStatus(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateBookingStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.bookingService.UpdateStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Booking updated", http.StatusOK)
}

// GetBookingsInRange: ?start=&end=. Если любая граница не задана, отдаётся всё.
func (c *BookingController) GetBookingsInRange(ctx echo.Context) error {
	var start, end *time.Time
	rawStart, rawEnd := ctx.QueryParam("start"), ctx.QueryParam("end")
	if rawStart != "" && rawEnd != "" {
		s, err := utils.ParseTime("start", rawStart)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		e, err := utils.ParseTime("end", rawEnd)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		start, end = &s, &e
	}

	res, err := c.bookingService.GetBookingsInRange(ctx.Request().Context(), start, end)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *BookingController) GetBookings(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, err := c.bookingService.GetBookings(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK, res.Pagination.TotalCount)
}

func (c *BookingController) FindBooking(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.bookingService.FindBooking(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *BookingController) DeleteBooking(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.bookingService.DeleteBooking(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Booking deleted", http.StatusOK)
}
