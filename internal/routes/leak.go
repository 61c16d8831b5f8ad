package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runLeakRouter(secureGroup *echo.Group, ctrl *controllers.LeakController) {
	leaks := secureGroup.Group("/leaks")
	leaks.GET("", ctrl.GetLeaks)
	leaks.GET("/export", ctrl.Export)
	leaks.GET("/gain", ctrl.GetGain)
	leaks.GET("/:id", ctrl.FindLeak)
	leaks.POST("", ctrl.CreateLeak)
	leaks.PUT("/:id", ctrl.UpdateLeak)
	leaks.DELETE("/:id", ctrl.DeleteLeak)
}
