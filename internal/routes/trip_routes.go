package routes

import (
	"sky_tours/internal/controllers"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine) {
	trips := r.Group("/trips")
	{
		trips.GET("/", controllers.ListTrips)
		trips.GET("/:slug", controllers.GetTripBySlug)
	}
}
