package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sky_tours/internal/config"
	"sky_tours/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// DestinationResponse mirrors models.Destination but carries the location
// as a GeoJSON string for API output.
type DestinationResponse struct {
	ID               uint                             `json:"ID"`
	CreatedAt        time.Time                        `json:"CreatedAt"`
	UpdatedAt        time.Time                        `json:"UpdatedAt"`
	Name             string                           `json:"name"`
	Slug             string                           `json:"slug"`
	Tagline          string                           `json:"tagline"`
	Description      string                           `json:"description"`
	HeroSubtitle     string                           `json:"hero_subtitle"`
	CardImage        string                           `json:"card_image"`
	HeroImage        string                           `json:"hero_image"`
	IsFeatured       bool                             `json:"is_featured"`
	FeaturedPosition int                              `json:"featured_position"`
	Location         string                           `json:"location"`
	PrimaryTrips     []models.Trip                    `json:"primary_trips,omitempty"`
	GalleryImages    []models.DestinationGalleryImage `json:"gallery_images,omitempty"`
}

func toDestinationResponse(destination models.Destination) DestinationResponse {
	geoJSON, err := convertWKBToGeoJSON(destination.Location)
	if err != nil {
		logrus.WithError(err).WithField("destination", destination.Slug).
			Warn("could not decode stored location; omitting from response")
	}
	return DestinationResponse{
		ID:               destination.ID,
		CreatedAt:        destination.CreatedAt,
		UpdatedAt:        destination.UpdatedAt,
		Name:             destination.Name,
		Slug:             destination.Slug,
		Tagline:          destination.Tagline,
		Description:      destination.Description,
		HeroSubtitle:     destination.HeroSubtitle,
		CardImage:        destination.CardImage,
		HeroImage:        destination.HeroImage,
		IsFeatured:       destination.IsFeatured,
		FeaturedPosition: destination.FeaturedPosition,
		Location:         geoJSON,
		PrimaryTrips:     destination.PrimaryTrips,
		GalleryImages:    destination.GalleryImages,
	}
}

// parseAndConvertLocation parses a GeoJSON point into WKB bytes for storage.
func parseAndConvertLocation(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts stored WKB bytes into a GeoJSON string.
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListDestinations returns all destinations; ?featured=true restricts to
// the homepage grid in its configured order.
func ListDestinations(c *gin.Context) {
	query := config.DB.Order("name")
	if c.Query("featured") == "true" {
		query = config.DB.Where("is_featured = ?", true).Order("featured_position")
	}

	var destinations []models.Destination
	if err := query.Find(&destinations).Error; err != nil {
		logrus.WithError(err).Error("ListDestinations: could not fetch destinations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch destinations"})
		return
	}

	responses := make([]DestinationResponse, 0, len(destinations))
	for _, d := range destinations {
		responses = append(responses, toDestinationResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"destinations": responses})
}

// GetDestinationBySlug returns one destination with its primary trips in
// display order and its gallery.
func GetDestinationBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var destination models.Destination
	err := config.DB.Where("slug = ?", slug).
		Preload("PrimaryTrips", func(db *gorm.DB) *gorm.DB {
			return db.Order("destination_order IS NULL, destination_order, title")
		}).
		Preload("GalleryImages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		}).
		First(&destination).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"destination": toDestinationResponse(destination)})
}

// CreateDestination registers a new destination (admin).
func CreateDestination(c *gin.Context) {
	var input struct {
		Name         string `json:"name" binding:"required"`
		Tagline      string `json:"tagline"`
		Description  string `json:"description"`
		HeroSubtitle string `json:"hero_subtitle"`
		CardImage    string `json:"card_image"`
		HeroImage    string `json:"hero_image"`
		Location     string `json:"location"` // GeoJSON point
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if !models.IsAllowedDestinationName(input.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination name is not in the allowed set"})
		return
	}

	location, err := parseAndConvertLocation(input.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location: " + err.Error()})
		return
	}

	destination := models.Destination{
		Name:         input.Name,
		Tagline:      input.Tagline,
		Description:  input.Description,
		HeroSubtitle: input.HeroSubtitle,
		CardImage:    input.CardImage,
		HeroImage:    input.HeroImage,
		Location:     location,
	}
	if err := config.DB.Create(&destination).Error; err != nil {
		logrus.WithError(err).Error("CreateDestination: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create destination: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"destination": toDestinationResponse(destination)})
}

// UpdateDestination modifies an existing destination (admin).
func UpdateDestination(c *gin.Context) {
	slug := c.Param("slug")

	var destination models.Destination
	if err := config.DB.Where("slug = ?", slug).First(&destination).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found"})
		return
	}

	var input struct {
		Tagline          *string `json:"tagline"`
		Description      *string `json:"description"`
		HeroSubtitle     *string `json:"hero_subtitle"`
		CardImage        *string `json:"card_image"`
		HeroImage        *string `json:"hero_image"`
		IsFeatured       *bool   `json:"is_featured"`
		FeaturedPosition *int    `json:"featured_position"`
		Location         *string `json:"location"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Tagline != nil {
		destination.Tagline = *input.Tagline
	}
	if input.Description != nil {
		destination.Description = *input.Description
	}
	if input.HeroSubtitle != nil {
		destination.HeroSubtitle = *input.HeroSubtitle
	}
	if input.CardImage != nil {
		destination.CardImage = *input.CardImage
	}
	if input.HeroImage != nil {
		destination.HeroImage = *input.HeroImage
	}
	if input.IsFeatured != nil {
		destination.IsFeatured = *input.IsFeatured
	}
	if input.FeaturedPosition != nil {
		destination.FeaturedPosition = *input.FeaturedPosition
	}
	if input.Location != nil {
		if *input.Location == "" {
			destination.Location = nil
		} else {
			location, err := parseAndConvertLocation(*input.Location)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location: " + err.Error()})
				return
			}
			destination.Location = location
		}
	}

	if err := config.DB.Save(&destination).Error; err != nil {
		logrus.WithError(err).Error("UpdateDestination: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"destination": toDestinationResponse(destination)})
}
