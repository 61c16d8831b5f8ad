package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runAuthRouter(public *echo.Group, secure *echo.Group, ctrl *controllers.AuthController) {
	auth := public.Group("/auth")
	auth.POST("/login", ctrl.Login)
	auth.POST("/logout", ctrl.Logout)
	auth.POST("/has-password", ctrl.HasPassword)
	auth.POST("/create-password", ctrl.CreatePassword)

	secure.GET("/auth/me", ctrl.Me)
}
