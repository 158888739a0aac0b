package routes

import (
	"sky_tours/internal/controllers"

	"github.com/gin-gonic/gin"
)

func DestinationRoutes(r *gin.Engine) {
	destinations := r.Group("/destinations")
	{
		destinations.GET("/", controllers.ListDestinations)
		destinations.GET("/:slug", controllers.GetDestinationBySlug)
	}
}
