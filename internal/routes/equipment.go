package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runEquipmentRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentController) {
	equipments := secureGroup.Group("/equipments")
	equipments.GET("", ctrl.GetEquipments)
	equipments.GET("/active", ctrl.GetActiveEquipments)
	equipments.GET("/factor", ctrl.GetFactor)
	equipments.GET("/:id", ctrl.FindEquipment)
	equipments.GET("/:id/factor-history", ctrl.GetFactorHistory)
	equipments.POST("", ctrl.CreateEquipment)
	equipments.PUT("/:id", ctrl.UpdateEquipment)
	equipments.DELETE("/:id", ctrl.DeleteEquipment)
}
