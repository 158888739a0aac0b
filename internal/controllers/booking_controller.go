package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sky_tours/internal/config"
	"sky_tours/internal/models"
)

type bookingInput struct {
	TripSlug        string `json:"trip_slug" binding:"required"`
	TravelDate      string `json:"travel_date" binding:"required"` // YYYY-MM-DD
	Adults          int    `json:"adults" binding:"required,min=1"`
	Children        int    `json:"children"`
	Infants         int    `json:"infants"`
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"special_requests"`
	ExtraIDs        []uint `json:"extra_ids"`
}

// CreateBooking records a reservation, snapshotting the trip and extra
// prices at booking time inside one transaction.
func CreateBooking(c *gin.Context) {
	var input bookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	travelDate, err := time.Parse("2006-01-02", input.TravelDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "travel_date must be YYYY-MM-DD"})
		return
	}

	var trip models.Trip
	if err := config.DB.Where("slug = ?", input.TripSlug).Preload("Extras").First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	extrasByID := make(map[uint]models.TripExtra, len(trip.Extras))
	for _, extra := range trip.Extras {
		extrasByID[extra.ID] = extra
	}
	selectedExtras := make([]models.TripExtra, 0, len(input.ExtraIDs))
	for _, id := range input.ExtraIDs {
		extra, ok := extrasByID[id]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Extra does not belong to this trip"})
			return
		}
		selectedExtras = append(selectedExtras, extra)
	}

	// Infants travel free; adults and children pay the per-person rate.
	payingTravellers := decimal.NewFromInt(int64(input.Adults + input.Children))
	baseSubtotal := trip.BasePricePerPerson.Mul(payingTravellers)
	extrasSubtotal := decimal.Zero
	for _, extra := range selectedExtras {
		extrasSubtotal = extrasSubtotal.Add(extra.Price)
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	booking := models.Booking{
		TripID:          trip.ID,
		TravelDate:      travelDate,
		Adults:          input.Adults,
		Children:        input.Children,
		Infants:         input.Infants,
		FullName:        input.FullName,
		Email:           input.Email,
		Phone:           input.Phone,
		SpecialRequests: input.SpecialRequests,
		BaseSubtotal:    baseSubtotal,
		ExtrasSubtotal:  extrasSubtotal,
		GrandTotal:      baseSubtotal.Add(extrasSubtotal),
	}
	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("CreateBooking: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create booking failed: " + err.Error()})
		return
	}

	for _, extra := range selectedExtras {
		line := models.BookingExtra{
			BookingID:      booking.ID,
			TripExtraID:    extra.ID,
			PriceAtBooking: extra.Price,
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create booking extra failed: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	broadcastBookingEvent(booking, trip)

	config.DB.Preload("Trip").Preload("BookingExtras.TripExtra").First(&booking, booking.ID)
	c.JSON(http.StatusCreated, gin.H{
		"booking":   booking,
		"reference": booking.ReferenceCode(),
	})
}

// GetBookingByReference lets a customer look up their booking by its code.
func GetBookingByReference(c *gin.Context) {
	reference := c.Param("reference")

	var booking models.Booking
	err := config.DB.Where("group_reference = ?", reference).
		Preload("Trip").Preload("BookingExtras.TripExtra").
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ListBookings lists bookings for the back office, newest first (admin).
// ?status=received filters by status.
func ListBookings(c *gin.Context) {
	query := config.DB.Preload("Trip").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateBookingStatus moves a booking through its status machine (admin).
func UpdateBookingStatus(c *gin.Context) {
	reference := c.Param("reference")

	var input struct {
		Status     string `json:"status" binding:"required"`
		StatusNote string `json:"status_note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch input.Status {
	case models.BookingStatusReceived, models.BookingStatusConfirmed, models.BookingStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: received, confirmed, cancelled"})
		return
	}

	var booking models.Booking
	if err := config.DB.Where("group_reference = ?", reference).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if booking.Status != input.Status {
		booking.StatusUpdatedAt = time.Now()
	}
	booking.Status = input.Status
	booking.StatusNote = input.StatusNote

	if err := config.DB.Save(&booking).Error; err != nil {
		logrus.WithError(err).Error("UpdateBookingStatus: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
