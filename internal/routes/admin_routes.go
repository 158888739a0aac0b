package routes

import (
	"sky_tours/internal/controllers"
	"sky_tours/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.POST("/destinations", controllers.CreateDestination)
		admin.PUT("/destinations/:slug", controllers.UpdateDestination)

		admin.POST("/trips", controllers.CreateTrip)
		admin.PUT("/trips/:slug", controllers.UpdateTrip)
		admin.DELETE("/trips/:slug", controllers.DeleteTrip)

		admin.POST("/blog/:slug/publish", controllers.PublishBlogPost)

		admin.GET("/bookings", controllers.ListBookings)
		admin.PUT("/bookings/:reference/status", controllers.UpdateBookingStatus)
		admin.GET("/bookings/feed", controllers.BookingFeed)
	}
}
