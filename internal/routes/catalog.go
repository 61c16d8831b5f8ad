package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runCatalogRouter(group *echo.Group, ctrl *controllers.CatalogController) {
	group.GET("", ctrl.GetItems)
	group.GET("/active", ctrl.GetActiveItems)
	group.GET("/:id", ctrl.FindItem)
	group.POST("", ctrl.CreateItem)
	group.PUT("/:id", ctrl.UpdateItem)
	group.DELETE("/:id", ctrl.DeleteItem)
}
