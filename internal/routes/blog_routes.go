package routes

import (
	"sky_tours/internal/controllers"

	"github.com/gin-gonic/gin"
)

func BlogRoutes(r *gin.Engine) {
	blog := r.Group("/blog")
	{
		blog.GET("/", controllers.ListBlogPosts)
		blog.GET("/:slug", controllers.GetBlogPostBySlug)
	}
}
