package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runPerimeterRouter(secureGroup *echo.Group, ctrl *controllers.PerimeterController) {
	perimeters := secureGroup.Group("/perimeters")
	perimeters.GET("", ctrl.GetPerimeters)
	perimeters.GET("/active", ctrl.GetActivePerimeters)
	perimeters.GET("/:id", ctrl.FindPerimeter)
	perimeters.GET("/:id/plans", ctrl.GetPlans)
	perimeters.POST("", ctrl.CreatePerimeter)
	perimeters.PUT("/:id", ctrl.UpdatePerimeter)
	perimeters.DELETE("/:id", ctrl.DeletePerimeter)
}
