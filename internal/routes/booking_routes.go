package routes

import (
	"sky_tours/internal/controllers"

	"github.com/gin-gonic/gin"
)

func BookingRoutes(r *gin.Engine) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("/", controllers.CreateBooking)
		bookings.GET("/:reference", controllers.GetBookingByReference)
	}
}
