package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/services"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/utils"
)

// Выгрузка без пагинации ограничена этим числом строк.
const exportLimit = 10000

var leakExportHeaders = []interface{}{
	"N° réservation", "Date réservation", "Périmètre", "Type de mission", "Équipement", "Facteur",
	"Fuite", "Date fuite", "Gain", "dB RMS", "K", "Débit", "Coût", "Devise",
	"Pilote", "Délai", "Action", "Coût action", "Statut", "Type action", "CO2", "Gain final",
}

type LeakController struct {
	leakService services.LeakServiceInterface
	logger      *zap.Logger
}

func NewLeakController(service services.LeakServiceInterface, logger *zap.Logger) *LeakController {
	return &LeakController{leakService: service, logger: logger}
}

func parseLeakFilter(ctx echo.Context) (dto.LeakFilterDTO, error) {
	var f dto.LeakFilterDTO
	if raw := ctx.QueryParam("perimeterId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, apperrors.NewBadRequestError(`"perimeterId" must be a positive integer`)
		}
		f.PerimeterID = id
	}
	if raw := ctx.QueryParam("typeMissionId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, apperrors.NewBadRequestError(`"typeMissionId" must be a positive integer`)
		}
		f.MissionTypeID = id
	}
	f.ActionStatus = ctx.QueryParam("actionStatut")
	f.ActionType = ctx.QueryParam("type_action")

	for _, p := range []struct {
		name   string
		target **time.Time
	}{{"start", &f.Start}, {"end", &f.End}} {
		raw := ctx.QueryParam(p.name)
		if raw == "" {
			continue
		}
		t, err := utils.ParseTime(p.name, raw)
		if err != nil {
			return f, err
		}
		*p.target = &t
	}

	page := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	f.Limit, f.Offset = page.Limit, page.Offset
	return f, nil
}

func (c *LeakController) GetLeaks(ctx echo.Context) error {
	filter, err := parseLeakFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.leakService.GetLeaks(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK, res.Pagination.TotalCount)
}

func (c *LeakController) GetLeaksByBooking(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.leakService.GetLeaksByBooking(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *LeakController) FindLeak(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.leakService.FindLeak(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

func (c *LeakController) CreateLeak(ctx echo.Context) error {
	var payload dto.CreateLeakDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateLeak: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.leakService.CreateLeak(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leak created", http.StatusCreated)
}

func (c *LeakController) UpdateLeak(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateLeakDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("UpdateLeak: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.leakService.UpdateLeak(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leak updated", http.StatusOK)
}

func (c *LeakController) DeleteLeak(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.leakService.DeleteLeak(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Leak deleted", http.StatusOK)
}

func (c *LeakController) GetGain(ctx echo.Context) error {
	var start, end *time.Time
	if raw := ctx.QueryParam("start"); raw != "" {
		t, err := utils.ParseTime("start", raw)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		start = &t
	}
	if raw := ctx.QueryParam("end"); raw != "" {
		t, err := utils.ParseTime("end", raw)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		end = &t
	}

	res, err := c.leakService.Gain(ctx.Request().Context(), start, end)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "", http.StatusOK)
}

// Export отдаёт отфильтрованный список утечек одним листом xlsx.
func (c *LeakController) Export(ctx echo.Context) error {
	filter, err := parseLeakFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter.Limit, filter.Offset = exportLimit, 0

	res, err := c.leakService.GetLeaks(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, res.List)
}

func optFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func leakToRow(item entities.LeakReportItem) []interface{} {
	return []interface{}{
		item.ReservationNumber, item.BookingStart.Format("02/01/2006 15:04"), item.PerimeterCode,
		item.MissionTypeName, item.EquipmentCode, optFloat(item.Factor),
		item.Name, optDate(item.LeakDate), optFloat(item.Gain), optFloat(item.DbRms), optFloat(item.K),
		optFloat(item.Flow), optFloat(item.Cost), item.Currency,
		item.ActionPilot, optDate(item.ActionDeadline), item.ActionDescription, optFloat(item.ActionCost),
		item.ActionStatus, item.ActionType, item.CO2Value, item.FinalGainValue,
	}
}

func (c *LeakController) respondWithXLSX(ctx echo.Context, data []entities.LeakReportItem) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Fuites"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	f.SetSheetRow(sheet, "A1", &leakExportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(leakExportHeaders), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := leakToRow(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "G", 20)
	f.SetColWidth(sheet, "Q", "Q", 40)

	fileName := fmt.Sprintf("fuites_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
