package routes

import (
	"github.com/labstack/echo/v4"

	"tarsier/internal/controllers"
)

func runBookingRouter(secureGroup *echo.Group, ctrl *controllers.BookingController, leakCtrl *controllers.LeakController) {
	bookings := secureGroup.Group("/bookings")
	bookings.POST("", ctrl.CreateBooking)
	bookings.GET("", ctrl.GetBookingsInRange)
	bookings.GET("/all", ctrl.GetBookings)
	bookings.GET("/:id", ctrl.FindBooking)
	bookings.GET("/:id/leaks", leakCtrl.GetLeaksByBooking)
	bookings.PUT("/:id/status", ctrl.UpdateStatus)
	bookings.DELETE("/:id", ctrl.DeleteBooking)
}
