package ordering

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sky_tours/internal/config"
	"sky_tours/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache memory DB: every pooled connection must see the
	// same database, and each test gets its own.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateModels(db))
	return db
}

func makeDestination(t *testing.T, db *gorm.DB, name string) models.Destination {
	t.Helper()
	destination := models.Destination{Name: name}
	require.NoError(t, db.Create(&destination).Error)
	return destination
}

func makeTrip(t *testing.T, db *gorm.DB, destination models.Destination, title string, order *int, additional ...models.Destination) models.Trip {
	t.Helper()
	trip := models.Trip{
		Title:                  title,
		DestinationID:          destination.ID,
		DurationDays:           1,
		GroupSizeMax:           10,
		DestinationOrder:       order,
		AdditionalDestinations: additional,
	}
	require.NoError(t, db.Create(&trip).Error)
	return trip
}

func intPtr(v int) *int { return &v }

func loadOrders(t *testing.T, db *gorm.DB, destinationID uint) map[string]*int {
	t.Helper()
	var trips []models.Trip
	require.NoError(t, db.Where("destination_id = ?", destinationID).Find(&trips).Error)
	orders := make(map[string]*int, len(trips))
	for _, trip := range trips {
		orders[trip.Title] = trip.DestinationOrder
	}
	return orders
}

func TestNormalizeAssignsDenseRanks(t *testing.T) {
	db := setupDB(t)
	siwa := makeDestination(t, db, "Siwa")
	makeTrip(t, db, siwa, "Salt Lakes Escape", nil)
	makeTrip(t, db, siwa, "Great Sand Sea Safari", nil)
	makeTrip(t, db, siwa, "Oracle Temple Walk", nil)

	results, err := NewNormalizer(db).Normalize("", false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].PrimaryCount)
	assert.Len(t, results[0].UpdatedTrips, 3)

	orders := loadOrders(t, db, siwa.ID)
	seen := make(map[int]bool)
	for title, order := range orders {
		require.NotNil(t, order, "trip %q left unranked", title)
		assert.False(t, seen[*order], "duplicate rank %d", *order)
		seen[*order] = true
		assert.GreaterOrEqual(t, *order, 1)
		assert.LessOrEqual(t, *order, 3)
	}

	// Unranked trips fall back to case-insensitive title order.
	assert.Equal(t, 1, *orders["Great Sand Sea Safari"])
	assert.Equal(t, 2, *orders["Oracle Temple Walk"])
	assert.Equal(t, 3, *orders["Salt Lakes Escape"])
}

func TestNormalizeIsIdempotent(t *testing.T) {
	db := setupDB(t)
	cairo := makeDestination(t, db, "Cairo")
	makeTrip(t, db, cairo, "Museum Day Tour", nil)
	makeTrip(t, db, cairo, "Nile Dinner Cruise", nil)

	normalizer := NewNormalizer(db)

	first, err := normalizer.Normalize("", false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Len(t, first[0].UpdatedTrips, 2)

	second, err := normalizer.Normalize("", false)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, second[0].UpdatedTrips, "second run must be a no-op")
	assert.Equal(t, 2, second[0].PrimaryCount)
}

func TestDryRunLeavesStoreUntouched(t *testing.T) {
	db := setupDB(t)
	luxor := makeDestination(t, db, "Luxor")
	makeTrip(t, db, luxor, "Valley of the Kings", nil)
	makeTrip(t, db, luxor, "Karnak by Night", intPtr(5))

	results, err := NewNormalizer(db).Normalize("", true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	// Both ranks change: 5 collapses to 1, the unranked trip gets 2.
	assert.Len(t, results[0].UpdatedTrips, 2)

	orders := loadOrders(t, db, luxor.ID)
	assert.Nil(t, orders["Valley of the Kings"])
	require.NotNil(t, orders["Karnak by Night"])
	assert.Equal(t, 5, *orders["Karnak by Night"])
}

func TestTieBreakIsCaseInsensitive(t *testing.T) {
	db := setupDB(t)
	aswan := makeDestination(t, db, "Aswan")
	// Created first, so it has the lower id; the title tie-break must still win.
	makeTrip(t, db, aswan, "Banana Tour", nil)
	makeTrip(t, db, aswan, "apple Tour", nil)

	_, err := NewNormalizer(db).Normalize("", false)
	require.NoError(t, err)

	orders := loadOrders(t, db, aswan.ID)
	require.NotNil(t, orders["apple Tour"])
	require.NotNil(t, orders["Banana Tour"])
	assert.Equal(t, 1, *orders["apple Tour"])
	assert.Equal(t, 2, *orders["Banana Tour"])
}

func TestExistingOrderSortsBeforeUnranked(t *testing.T) {
	db := setupDB(t)
	giza := makeDestination(t, db, "Giza")
	makeTrip(t, db, giza, "Camel Ride at Dawn", nil)
	makeTrip(t, db, giza, "Sphinx and Pyramids", intPtr(3))
	makeTrip(t, db, giza, "Sound and Light Show", intPtr(1))

	results, err := NewNormalizer(db).Normalize("", false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	orders := loadOrders(t, db, giza.ID)
	assert.Equal(t, 1, *orders["Sound and Light Show"])
	assert.Equal(t, 2, *orders["Sphinx and Pyramids"])
	assert.Equal(t, 3, *orders["Camel Ride at Dawn"])

	// Only the two trips whose stored rank differed were written.
	assert.Len(t, results[0].UpdatedTrips, 2)
}

func TestEmptyDestination(t *testing.T) {
	db := setupDB(t)
	makeDestination(t, db, "Farafra")

	results, err := NewNormalizer(db).Normalize("", false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].PrimaryCount)
	assert.Equal(t, 0, results[0].SecondaryCount)
	assert.Empty(t, results[0].UpdatedTrips)
}

func TestFilterMiss(t *testing.T) {
	db := setupDB(t)
	dakhla := makeDestination(t, db, "Dakhla")
	makeTrip(t, db, dakhla, "Mud-Brick Villages", nil)

	results, err := NewNormalizer(db).Normalize("nonexistent-place", false)
	assert.ErrorIs(t, err, ErrDestinationNotFound)
	assert.Nil(t, results)

	// Nothing anywhere was touched.
	orders := loadOrders(t, db, dakhla.ID)
	assert.Nil(t, orders["Mud-Brick Villages"])
}

func TestFilterBySlug(t *testing.T) {
	db := setupDB(t)
	sinai := makeDestination(t, db, "Sinai")
	kharga := makeDestination(t, db, "Kharga")
	makeTrip(t, db, sinai, "Mount Sinai Sunrise", nil)
	makeTrip(t, db, kharga, "Caravan Route Temples", nil)

	results, err := NewNormalizer(db).Normalize(sinai.Slug, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sinai", results[0].Destination.Name)

	// The other destination stays untouched.
	orders := loadOrders(t, db, kharga.ID)
	assert.Nil(t, orders["Caravan Route Temples"])
}

func TestMixedPrimaryAndSecondary(t *testing.T) {
	db := setupDB(t)
	fayoum := makeDestination(t, db, "Fayoum")
	cairo := makeDestination(t, db, "Cairo")

	makeTrip(t, db, fayoum, "Wadi El Rayan Waterfalls", nil)
	makeTrip(t, db, fayoum, "Magic Lake Sandboarding", nil)
	// Primary in Cairo, Fayoum listed as an additional stop.
	stopover := makeTrip(t, db, cairo, "Cairo and Oasis Combo", nil, fayoum)

	results, err := NewNormalizer(db).Normalize(fayoum.Slug, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 2, results[0].PrimaryCount)
	assert.Equal(t, 1, results[0].SecondaryCount)
	assert.Len(t, results[0].UpdatedTrips, 2)

	orders := loadOrders(t, db, fayoum.ID)
	assert.Equal(t, 1, *orders["Magic Lake Sandboarding"])
	assert.Equal(t, 2, *orders["Wadi El Rayan Waterfalls"])

	// The secondary ranking is reporting-only; the stored value stays NULL.
	var reloaded models.Trip
	require.NoError(t, db.First(&reloaded, stopover.ID).Error)
	assert.Nil(t, reloaded.DestinationOrder)
}

func TestSecondarySetExcludesOwnPrimaries(t *testing.T) {
	db := setupDB(t)
	bahareya := makeDestination(t, db, "Bahareya Oasis")
	// Lists its own primary destination as an additional stop too; it must
	// not be double counted as secondary.
	makeTrip(t, db, bahareya, "Black Desert Camp", nil, bahareya)

	results, err := NewNormalizer(db).Normalize("", false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].PrimaryCount)
	assert.Equal(t, 0, results[0].SecondaryCount)
}

func TestWriteFailureRollsBackWholeBatch(t *testing.T) {
	db := setupDB(t)
	aswan := makeDestination(t, db, "Aswan")
	cairo := makeDestination(t, db, "Cairo")
	makeTrip(t, db, aswan, "Felucca Sunset", nil)
	makeTrip(t, db, cairo, "Museum Day Tour", nil)

	// Fail the second destination's batched UPDATE; the first destination
	// (Aswan, processed first by name) has already written inside the
	// transaction by then.
	updates := 0
	err := db.Callback().Raw().Before("gorm:raw").Register("fail_second_order_update", func(tx *gorm.DB) {
		if strings.HasPrefix(tx.Statement.SQL.String(), "UPDATE trips SET destination_order") {
			updates++
			if updates == 2 {
				tx.AddError(errors.New("simulated write failure"))
			}
		}
	})
	require.NoError(t, err)

	results, err := NewNormalizer(db).Normalize("", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated write failure")
	assert.Nil(t, results)

	// All-or-nothing: the first destination's committed state is untouched.
	assert.Nil(t, loadOrders(t, db, aswan.ID)["Felucca Sunset"])
	assert.Nil(t, loadOrders(t, db, cairo.ID)["Museum Day Tour"])
}

func TestBatchSpansMultipleDestinations(t *testing.T) {
	db := setupDB(t)
	siwa := makeDestination(t, db, "Siwa")
	luxor := makeDestination(t, db, "Luxor")
	makeTrip(t, db, siwa, "Oasis Springs", nil)
	makeTrip(t, db, luxor, "West Bank Tombs", nil)

	results, err := NewNormalizer(db).Normalize("", true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, TotalUpdated(results))

	// Dry run rolled the whole batch back, both destinations included.
	assert.Nil(t, loadOrders(t, db, siwa.ID)["Oasis Springs"])
	assert.Nil(t, loadOrders(t, db, luxor.ID)["West Bank Tombs"])
}
