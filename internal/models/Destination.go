package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Canonical destination names. Destination.Name must be one of these;
// the check mirrors the DB constraint on the original schema.
var AllowedDestinationNames = []string{
	"Siwa",
	"Fayoum",
	"White & Black Desert",
	"Farafra",
	"Dakhla",
	"Kharga",
	"Bahareya Oasis",
	"Giza",
	"Cairo",
	"Alexandria",
	"Ain El Sokhna",
	"Sinai",
	"Luxor",
	"Aswan",
}

// Destination represents a travel destination surfaced on the site.
// FeaturedPosition drives the homepage grid and is unrelated to the
// per-destination trip ordering on Trip.DestinationOrder.
type Destination struct {
	gorm.Model
	Name         string `json:"name" gorm:"size:200;uniqueIndex;not null" binding:"required"`
	Slug         string `json:"slug" gorm:"size:200;uniqueIndex"`
	Tagline      string `json:"tagline" gorm:"size:200"`
	Description  string `json:"description"`
	HeroSubtitle string `json:"hero_subtitle"`
	CardImage    string `json:"card_image" gorm:"size:300"`
	HeroImage    string `json:"hero_image" gorm:"size:300"`

	IsFeatured       bool `json:"is_featured" gorm:"index"`
	FeaturedPosition int  `json:"featured_position" gorm:"default:0"`

	// Geographic point stored as WKB; GeoJSON on the API surface.
	Location []byte `json:"-"`

	// PrimaryTrips are trips whose main destination is this one; their
	// DestinationOrder ranks them within this destination.
	PrimaryTrips []Trip `gorm:"foreignKey:DestinationID" json:"primary_trips,omitempty"`

	// SecondaryTrips merely list this destination as an additional stop.
	SecondaryTrips []Trip `gorm:"many2many:trip_additional_destinations;" json:"secondary_trips,omitempty"`

	GalleryImages []DestinationGalleryImage `gorm:"foreignKey:DestinationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"gallery_images,omitempty"`
}

// IsAllowedDestinationName reports whether name is part of the canonical set.
func IsAllowedDestinationName(name string) bool {
	for _, allowed := range AllowedDestinationNames {
		if allowed == name {
			return true
		}
	}
	return false
}

// BeforeSave enforces the canonical name set.
func (d *Destination) BeforeSave(tx *gorm.DB) error {
	if !IsAllowedDestinationName(d.Name) {
		return fmt.Errorf("destination name %q is not in the allowed set", d.Name)
	}
	return nil
}

// BeforeCreate assigns a unique slug derived from the name.
func (d *Destination) BeforeCreate(tx *gorm.DB) error {
	if d.Slug == "" {
		slug, err := generateUniqueSlug(tx, &Destination{}, d.Name)
		if err != nil {
			return err
		}
		d.Slug = slug
	}
	return nil
}

// DestinationGalleryImage is a positioned image in a destination gallery.
type DestinationGalleryImage struct {
	gorm.Model
	DestinationID uint   `json:"destination_id" gorm:"index"`
	Image         string `json:"image" gorm:"size:300;not null"`
	Caption       string `json:"caption" gorm:"size:200"`
	Position      int    `json:"position" gorm:"default:0"`
}
