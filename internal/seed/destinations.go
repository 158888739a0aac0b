package seed

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sky_tours/internal/models"
)

var errDryRunRollback = errors.New("dry run rollback")

// DestinationSeed is the desired state for one canonical destination.
type DestinationSeed struct {
	Name         string
	Tagline      string
	HeroSubtitle string
}

// CanonicalDestinations is the full destination catalogue. Seeding is
// additive: existing rows keep any copy an editor already wrote.
var CanonicalDestinations = []DestinationSeed{
	{"Siwa", "An oasis of Amazigh culture and quiet", "Golden dunes, salt lakes and starry nights."},
	{"Fayoum", "Desert meets water at Wadi El Rayan", "Lakes, waterfalls, and gentle palm villages."},
	{"White & Black Desert", "Alien chalk sculptures and ebony dunes", "Camp under a sky bright with constellations."},
	{"Farafra", "Slow oasis life and white desert gateways", "Hot springs, palms, and wide open silence."},
	{"Dakhla", "Ancient villages and fertile fields in sand seas", "Mud-brick lanes, date groves, desert horizons."},
	{"Kharga", "Temples on old caravan routes of the Sahara", "Wide valleys, palm oases, and warm springs."},
	{"Bahareya Oasis", "Gateway to the Black & White Desert", "Golden dunes, crystal hills, oasis charm."},
	{"Giza", "The Great Pyramids and the timeless Sphinx", "Sunsets over stone and desert edges."},
	{"Cairo", "Fast, layered, alive", "Museums, markets, Nile views."},
	{"Alexandria", "Sea breeze, libraries, and Mediterranean light", "Corniche cafés and Greco-Roman whispers."},
	{"Ain El Sokhna", "Closest Red Sea escape from Cairo", "Clear water, soft beaches, year-round sun."},
	{"Sinai", "Red Sea reefs and rugged granite mountains", "Bedouin nights, starry camps, sunrise hikes."},
	{"Luxor", "The world's greatest open-air museum", "Nile sunsets, temples, West Bank tombs."},
	{"Aswan", "Granite islands and Nubian colors", "Calm Nile, feluccas, warm winter sun."},
}

// FeaturedGrid lists the destinations shown on the homepage grid, in
// display order (top-left to bottom-right).
var FeaturedGrid = []string{
	"Giza", "Cairo", "Alexandria", "Ain El Sokhna",
	"Fayoum", "Bahareya Oasis", "Sinai", "Siwa",
}

// Options controls a seeding run.
type Options struct {
	// DryRun executes the full write path and rolls the transaction back.
	DryRun bool
	// UnfeatureRest clears the featured flag on destinations outside FeaturedGrid.
	UnfeatureRest bool
}

// Summary reports what a seeding run did, by destination name.
type Summary struct {
	Created    []string
	Updated    []string
	Unchanged  []string
	Unfeatured []string
}

// Destinations upserts the canonical destination set and assigns featured
// grid positions. The run is atomic and idempotent: a second invocation on
// an already-seeded store reports everything unchanged.
func Destinations(db *gorm.DB, opts Options) (Summary, error) {
	var summary Summary

	gridPosition := make(map[string]int, len(FeaturedGrid))
	for i, name := range FeaturedGrid {
		gridPosition[name] = i + 1
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range CanonicalDestinations {
			var destination models.Destination
			err := tx.Where("name = ?", seed.Name).First(&destination).Error
			created := false
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				destination = models.Destination{Name: seed.Name}
				created = true
			case err != nil:
				return fmt.Errorf("look up destination %q: %w", seed.Name, err)
			}

			before := destination

			if destination.Tagline == "" {
				destination.Tagline = seed.Tagline
			}
			if destination.HeroSubtitle == "" {
				destination.HeroSubtitle = seed.HeroSubtitle
			}
			if pos, ok := gridPosition[seed.Name]; ok {
				destination.IsFeatured = true
				destination.FeaturedPosition = pos
			}

			if created {
				if err := tx.Create(&destination).Error; err != nil {
					return fmt.Errorf("create destination %q: %w", seed.Name, err)
				}
				summary.Created = append(summary.Created, seed.Name)
				continue
			}

			if destinationChanged(before, destination) {
				if err := tx.Save(&destination).Error; err != nil {
					return fmt.Errorf("update destination %q: %w", seed.Name, err)
				}
				summary.Updated = append(summary.Updated, seed.Name)
			} else {
				summary.Unchanged = append(summary.Unchanged, seed.Name)
			}
		}

		if opts.UnfeatureRest {
			var others []models.Destination
			if err := tx.Where("is_featured = ? AND name NOT IN ?", true, FeaturedGrid).Find(&others).Error; err != nil {
				return fmt.Errorf("load featured destinations: %w", err)
			}
			for i := range others {
				others[i].IsFeatured = false
				others[i].FeaturedPosition = 0
				if err := tx.Save(&others[i]).Error; err != nil {
					return fmt.Errorf("unfeature destination %q: %w", others[i].Name, err)
				}
				summary.Unfeatured = append(summary.Unfeatured, others[i].Name)
			}
		}

		if opts.DryRun {
			return errDryRunRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRunRollback) {
		return Summary{}, err
	}

	logrus.WithFields(logrus.Fields{
		"created": len(summary.Created),
		"updated": len(summary.Updated),
		"dry_run": opts.DryRun,
	}).Info("destination seed complete")

	return summary, nil
}

func destinationChanged(before, after models.Destination) bool {
	return before.Tagline != after.Tagline ||
		before.HeroSubtitle != after.HeroSubtitle ||
		before.IsFeatured != after.IsFeatured ||
		before.FeaturedPosition != after.FeaturedPosition
}
