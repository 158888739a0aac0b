package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sky_tours/internal/config"
	"sky_tours/internal/models"
	"sky_tours/internal/ordering"
	"sky_tours/internal/routes"
)

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateModels(db))
	config.DB = db

	r := gin.New()
	routes.AuthRoutes(r)
	routes.DestinationRoutes(r)
	routes.TripRoutes(r)
	routes.BookingRoutes(r)
	routes.BlogRoutes(r)
	return r
}

func seedTrip(t *testing.T, price string) models.Trip {
	t.Helper()
	destination := models.Destination{Name: "Siwa"}
	require.NoError(t, config.DB.Create(&destination).Error)

	trip := models.Trip{
		Title:              "Salt Lakes Escape",
		DestinationID:      destination.ID,
		DurationDays:       2,
		GroupSizeMax:       12,
		BasePricePerPerson: decimal.RequireFromString(price),
	}
	require.NoError(t, config.DB.Create(&trip).Error)
	return trip
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingSnapshotsTotals(t *testing.T) {
	r := setupAPI(t)
	trip := seedTrip(t, "150.00")

	extra := models.TripExtra{TripID: trip.ID, Name: "Sandboarding", Price: decimal.RequireFromString("25.50")}
	require.NoError(t, config.DB.Create(&extra).Error)

	w := doJSON(t, r, http.MethodPost, "/bookings/", gin.H{
		"trip_slug":   trip.Slug,
		"travel_date": "2026-10-01",
		"adults":      2,
		"children":    1,
		"infants":     1,
		"full_name":   "Test Traveller",
		"email":       "traveller@example.com",
		"extra_ids":   []uint{extra.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var payload struct {
		Reference string `json:"reference"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.True(t, strings.HasPrefix(payload.Reference, "SKY"))

	var booking models.Booking
	require.NoError(t, config.DB.Preload("BookingExtras").First(&booking).Error)
	// 3 paying travellers at 150.00 plus one 25.50 extra; infants ride free.
	assert.True(t, booking.BaseSubtotal.Equal(decimal.RequireFromString("450.00")), booking.BaseSubtotal.String())
	assert.True(t, booking.ExtrasSubtotal.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, booking.GrandTotal.Equal(decimal.RequireFromString("475.50")))
	assert.Len(t, booking.BookingExtras, 1)
	assert.Equal(t, models.BookingStatusReceived, booking.Status)
}

func TestCreateBookingRejectsForeignExtra(t *testing.T) {
	r := setupAPI(t)
	trip := seedTrip(t, "100.00")

	other := models.Destination{Name: "Cairo"}
	require.NoError(t, config.DB.Create(&other).Error)
	otherTrip := models.Trip{Title: "Museum Day", DestinationID: other.ID, BasePricePerPerson: decimal.RequireFromString("50.00")}
	require.NoError(t, config.DB.Create(&otherTrip).Error)
	foreignExtra := models.TripExtra{TripID: otherTrip.ID, Name: "Audio Guide", Price: decimal.RequireFromString("5.00")}
	require.NoError(t, config.DB.Create(&foreignExtra).Error)

	w := doJSON(t, r, http.MethodPost, "/bookings/", gin.H{
		"trip_slug":   trip.Slug,
		"travel_date": "2026-10-01",
		"adults":      1,
		"full_name":   "Test Traveller",
		"email":       "traveller@example.com",
		"extra_ids":   []uint{foreignExtra.ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, config.DB.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestBookingLookupByReference(t *testing.T) {
	r := setupAPI(t)
	trip := seedTrip(t, "80.00")

	w := doJSON(t, r, http.MethodPost, "/bookings/", gin.H{
		"trip_slug":   trip.Slug,
		"travel_date": "2026-11-15",
		"adults":      1,
		"full_name":   "Test Traveller",
		"email":       "traveller@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Reference string `json:"reference"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	lookup := doJSON(t, r, http.MethodGet, "/bookings/"+created.Reference, nil)
	assert.Equal(t, http.StatusOK, lookup.Code)
	assert.Contains(t, lookup.Body.String(), trip.Slug)

	miss := doJSON(t, r, http.MethodGet, "/bookings/SKY000000-999999", nil)
	assert.Equal(t, http.StatusNotFound, miss.Code)
}

func TestListTripsFollowsDestinationOrder(t *testing.T) {
	r := setupAPI(t)

	destination := models.Destination{Name: "Luxor"}
	require.NoError(t, config.DB.Create(&destination).Error)
	for _, title := range []string{"Zebra Safari", "Karnak by Night", "Valley of the Kings"} {
		trip := models.Trip{Title: title, DestinationID: destination.ID, BasePricePerPerson: decimal.RequireFromString("60.00")}
		require.NoError(t, config.DB.Create(&trip).Error)
	}

	_, err := ordering.NewNormalizer(config.DB).Normalize("", false)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/trips/?destination="+destination.Slug, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Trips []models.Trip `json:"trips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Trips, 3)
	assert.Equal(t, "Karnak by Night", payload.Trips[0].Title)
	assert.Equal(t, "Valley of the Kings", payload.Trips[1].Title)
	assert.Equal(t, "Zebra Safari", payload.Trips[2].Title)
}
