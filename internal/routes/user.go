package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runUserRouter(secureGroup *echo.Group, ctrl *controllers.UserController) {
	users := secureGroup.Group("/users")
	users.GET("", ctrl.GetUsers)
	users.GET("/:id", ctrl.FindUser)
	users.POST("", ctrl.CreateUser)
	users.PUT("/:id", ctrl.UpdateUser)
	users.DELETE("/:id", ctrl.DeleteUser)
}
