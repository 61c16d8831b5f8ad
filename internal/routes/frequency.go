package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runFrequencyRouter(secureGroup *echo.Group, ctrl *controllers.FrequencyController) {
	secureGroup.GET("/frequency", ctrl.GetFrequency)
	secureGroup.PUT("/frequency", ctrl.UpdateFrequency)
}
