package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sky_tours/internal/config"
	"sky_tours/internal/models"
)

type tripInput struct {
	Title                      string   `json:"title" binding:"required"`
	DestinationSlug            string   `json:"destination_slug" binding:"required"`
	AdditionalDestinationSlugs []string `json:"additional_destination_slugs"`
	Teaser                     string   `json:"teaser"`
	CardImage                  string   `json:"card_image"`
	HeroImage                  string   `json:"hero_image"`
	DurationDays               int      `json:"duration_days" binding:"required,min=1"`
	GroupSizeMax               int      `json:"group_size_max" binding:"required,min=1"`
	BasePricePerPerson         string   `json:"base_price_per_person" binding:"required"`
	TourTypeLabel              string   `json:"tour_type_label"`
	IsService                  bool     `json:"is_service"`
	Highlights                 []string `json:"highlights"`
	Inclusions                 []string `json:"inclusions"`
	Exclusions                 []string `json:"exclusions"`
}

// ListTrips returns trips, optionally filtered to one destination via
// ?destination=<slug>, ordered by the per-destination rank.
func ListTrips(c *gin.Context) {
	query := config.DB.Preload("Destination").Preload("CategoryTags").
		Order("destination_order IS NULL, destination_order, title")

	if slug := c.Query("destination"); slug != "" {
		var destination models.Destination
		if err := config.DB.Where("slug = ?", slug).First(&destination).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found"})
			return
		}
		query = query.Where("destination_id = ?", destination.ID)
	}

	var trips []models.Trip
	if err := query.Find(&trips).Error; err != nil {
		logrus.WithError(err).Error("ListTrips: could not fetch trips")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GetTripBySlug returns one trip with its full content tree.
func GetTripBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var trip models.Trip
	err := config.DB.Where("slug = ?", slug).
		Preload("Destination").
		Preload("AdditionalDestinations").
		Preload("CategoryTags").
		Preload("Languages").
		Preload("Highlights", orderByPosition).
		Preload("About").
		Preload("ItineraryDays", orderByPosition).
		Preload("ItineraryDays.Steps", orderByPosition).
		Preload("Inclusions", orderByPosition).
		Preload("Exclusions", orderByPosition).
		Preload("FAQs", orderByPosition).
		Preload("Extras", orderByPosition).
		First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

// CreateTrip creates a trip with its destination links and list content in
// one transaction (admin).
func CreateTrip(c *gin.Context) {
	var input tripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateTrip: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	price, err := decimal.NewFromString(input.BasePricePerPerson)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base_price_per_person"})
		return
	}

	var destination models.Destination
	if err := config.DB.Where("slug = ?", input.DestinationSlug).First(&destination).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found"})
		return
	}

	additional, err := loadDestinationsBySlugs(input.AdditionalDestinationSlugs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	trip := models.Trip{
		Title:                  input.Title,
		DestinationID:          destination.ID,
		AdditionalDestinations: additional,
		Teaser:                 input.Teaser,
		CardImage:              input.CardImage,
		HeroImage:              input.HeroImage,
		DurationDays:           input.DurationDays,
		GroupSizeMax:           input.GroupSizeMax,
		BasePricePerPerson:     price,
		TourTypeLabel:          input.TourTypeLabel,
		IsService:              input.IsService,
	}
	if err := tx.Create(&trip).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create trip failed: " + err.Error()})
		return
	}

	for i, text := range input.Highlights {
		if err := tx.Create(&models.TripHighlight{TripID: trip.ID, Text: text, Position: i + 1}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create highlight failed: " + err.Error()})
			return
		}
	}
	for i, text := range input.Inclusions {
		if err := tx.Create(&models.TripInclusion{TripID: trip.ID, Text: text, Position: i + 1}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create inclusion failed: " + err.Error()})
			return
		}
	}
	for i, text := range input.Exclusions {
		if err := tx.Create(&models.TripExclusion{TripID: trip.ID, Text: text, Position: i + 1}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create exclusion failed: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	config.DB.Preload("Destination").Preload("AdditionalDestinations").
		Preload("Highlights", orderByPosition).
		Preload("Inclusions", orderByPosition).
		Preload("Exclusions", orderByPosition).
		First(&trip, trip.ID)
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// UpdateTrip modifies trip fields and optionally replaces the additional
// destination set (admin). DestinationOrder is owned by the normalizer and
// deliberately not writable here.
func UpdateTrip(c *gin.Context) {
	slug := c.Param("slug")

	var trip models.Trip
	if err := config.DB.Where("slug = ?", slug).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Title                      *string   `json:"title"`
		Teaser                     *string   `json:"teaser"`
		CardImage                  *string   `json:"card_image"`
		HeroImage                  *string   `json:"hero_image"`
		DurationDays               *int      `json:"duration_days"`
		GroupSizeMax               *int      `json:"group_size_max"`
		BasePricePerPerson         *string   `json:"base_price_per_person"`
		TourTypeLabel              *string   `json:"tour_type_label"`
		IsService                  *bool     `json:"is_service"`
		AdditionalDestinationSlugs *[]string `json:"additional_destination_slugs"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != nil {
		trip.Title = *input.Title
	}
	if input.Teaser != nil {
		trip.Teaser = *input.Teaser
	}
	if input.CardImage != nil {
		trip.CardImage = *input.CardImage
	}
	if input.HeroImage != nil {
		trip.HeroImage = *input.HeroImage
	}
	if input.DurationDays != nil {
		trip.DurationDays = *input.DurationDays
	}
	if input.GroupSizeMax != nil {
		trip.GroupSizeMax = *input.GroupSizeMax
	}
	if input.BasePricePerPerson != nil {
		price, err := decimal.NewFromString(*input.BasePricePerPerson)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base_price_per_person"})
			return
		}
		trip.BasePricePerPerson = price
	}
	if input.TourTypeLabel != nil {
		trip.TourTypeLabel = *input.TourTypeLabel
	}
	if input.IsService != nil {
		trip.IsService = *input.IsService
	}

	if err := config.DB.Save(&trip).Error; err != nil {
		logrus.WithError(err).Error("UpdateTrip: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	if input.AdditionalDestinationSlugs != nil {
		additional, err := loadDestinationsBySlugs(*input.AdditionalDestinationSlugs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := config.DB.Model(&trip).Association("AdditionalDestinations").Replace(additional); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update additional destinations: " + err.Error()})
			return
		}
	}

	config.DB.Preload("Destination").Preload("AdditionalDestinations").First(&trip, trip.ID)
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// DeleteTrip removes a trip (admin). Bookings reference trips, so trips
// with bookings are refused rather than cascaded.
func DeleteTrip(c *gin.Context) {
	slug := c.Param("slug")

	var trip models.Trip
	if err := config.DB.Where("slug = ?", slug).First(&trip).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	var bookingCount int64
	if err := config.DB.Model(&models.Booking{}).Where("trip_id = ?", trip.ID).Count(&bookingCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bookingCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Trip has bookings and cannot be deleted"})
		return
	}

	if err := config.DB.Delete(&trip).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted successfully"})
}

func loadDestinationsBySlugs(slugs []string) ([]models.Destination, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var destinations []models.Destination
	if err := config.DB.Where("slug IN ?", slugs).Find(&destinations).Error; err != nil {
		return nil, err
	}
	if len(destinations) != len(slugs) {
		return nil, errors.New("one or more additional destination slugs were not found")
	}
	return destinations, nil
}
