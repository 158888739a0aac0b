package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sky_tours/internal/config"
	"sky_tours/internal/models"
)

// ListBlogPosts returns published posts, newest first. ?category=<slug>
// filters by blog category.
func ListBlogPosts(c *gin.Context) {
	query := config.DB.Where("status = ?", models.BlogPostStatusPublished).
		Preload("Category").
		Order("published_at DESC")

	if slug := c.Query("category"); slug != "" {
		var category models.BlogCategory
		if err := config.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		query = query.Where("category_id = ?", category.ID)
	}

	var posts []models.BlogPost
	if err := query.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetBlogPostBySlug returns one published post with its sections.
func GetBlogPostBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var post models.BlogPost
	err := config.DB.Where("slug = ? AND status = ?", slug, models.BlogPostStatusPublished).
		Preload("Category").
		Preload("Sections", orderByPosition).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// PublishBlogPost flips a draft to published and stamps the publish time
// (admin). Already-published posts keep their original timestamp.
func PublishBlogPost(c *gin.Context) {
	slug := c.Param("slug")

	var post models.BlogPost
	if err := config.DB.Where("slug = ?", slug).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.Status != models.BlogPostStatusPublished {
		now := time.Now()
		post.Status = models.BlogPostStatusPublished
		post.PublishedAt = &now
		if err := config.DB.Save(&post).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Publish failed: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}
