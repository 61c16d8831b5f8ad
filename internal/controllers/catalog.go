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

// CatalogController один на каждый справочник: типы оборудования, типы миссий.
type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         *zap.Logger
}

func NewCatalogController(service services.CatalogServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalogService: service, logger: logger}
}

func (c *CatalogController) GetItems(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, err := c.catalogService.GetItems(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK, res.Pagination.TotalCount)
}

func (c *CatalogController) GetActiveItems(ctx echo.Context) error {
	res, err := c.catalogService.GetActiveItems(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *CatalogController) FindItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.catalogService.FindItem(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *CatalogController) CreateItem(ctx echo.Context) error {
	var payload dto.CreateCatalogItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.catalogService.CreateItem(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Created", http.StatusCreated)
}

func (c *CatalogController) UpdateItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateCatalogItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.catalogService.UpdateItem(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Updated", http.StatusOK)
}

func (c *CatalogController) DeleteItem(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.catalogService.DeleteItem(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Deleted", http.StatusOK)
}
