package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/services"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/utils"
)

type FrequencyController struct {
	frequencyService services.FrequencyServiceInterface
	logger           *zap.Logger
}

func NewFrequencyController(service services.FrequencyServiceInterface, logger *zap.Logger) *FrequencyController {
	return &FrequencyController{frequencyService: service, logger: logger}
}

func (c *FrequencyController) GetFrequency(ctx echo.Context) error {
	res, err := c.frequencyService.GetFrequency(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *FrequencyController) UpdateFrequency(ctx echo.Context) error {
	var payload dto.UpdateFrequencyDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.frequencyService.UpdateFrequency(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Frequency updated", http.StatusOK)
}
