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

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(service services.EquipmentServiceInterface, logger *zap.Logger) *EquipmentController {
	return &EquipmentController{equipmentService: service, logger: logger}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK, res.Pagination.TotalCount)
}

func (c *EquipmentController) GetActiveEquipments(ctx echo.Context) error {
	res, err := c.equipmentService.GetActiveEquipments(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var payload dto.CreateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateEquipment: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Equipment created", http.StatusCreated)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("UpdateEquipment: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Equipment updated", http.StatusOK)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.equipmentService.DeleteEquipment(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Equipment deleted", http.StatusOK)
}

// GetFactor: ?equipId=&date=, оба параметра обязательны.
func (c *EquipmentController) GetFactor(ctx echo.Context) error {
	rawDate := ctx.QueryParam("date")
	if rawDate == "" || ctx.QueryParam("equipId") == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(`"date" and "equipId" are required`), c.logger)
	}
	id, err := utils.ParseIDQuery(ctx, "equipId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	asOf, err := utils.ParseTime("date", rawDate)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	factor, err := c.equipmentService.FactorAsOf(ctx.Request().Context(), id, asOf)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.FactorDTO{
		EquipmentID: id,
		Date:        asOf.Format(time.RFC3339),
		Factor:      factor,
	}, "", http.StatusOK)
}

func (c *EquipmentController) GetFactorHistory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.equipmentService.FactorHistory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}
