package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trip is a bookable tour. Every trip has exactly one primary destination
// and may list further destinations as additional stops.
//
// DestinationOrder is the trip's dense 1-based rank among its primary
// destination's trips. It starts out NULL and is assigned exclusively by
// the ordering normalizer; nothing else writes it.
type Trip struct {
	gorm.Model
	Title string `json:"title" gorm:"size:200;not null" binding:"required"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex"`

	DestinationID uint        `json:"destination_id" gorm:"index;not null"`
	Destination   Destination `gorm:"foreignKey:DestinationID" json:"destination,omitempty"`

	AdditionalDestinations []Destination `gorm:"many2many:trip_additional_destinations;" json:"additional_destinations,omitempty"`

	Teaser    string `json:"teaser"`
	CardImage string `json:"card_image" gorm:"size:300"`
	HeroImage string `json:"hero_image" gorm:"size:300"`

	DurationDays int `json:"duration_days" gorm:"default:1"`
	GroupSizeMax int `json:"group_size_max" gorm:"default:1"`

	BasePricePerPerson decimal.Decimal `json:"base_price_per_person" gorm:"type:decimal(10,2)"`

	// Display label exactly as seen in the UI, e.g. "Daily Tour — Discovery Safari".
	TourTypeLabel string `json:"tour_type_label" gorm:"size:200"`

	IsService bool `json:"is_service"`

	DestinationOrder *int `json:"destination_order" gorm:"index"`

	CategoryTags []TripCategory `gorm:"many2many:trip_category_tags;" json:"category_tags,omitempty"`
	Languages    []Language     `gorm:"many2many:trip_languages;" json:"languages,omitempty"`

	Highlights    []TripHighlight    `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"highlights,omitempty"`
	About         *TripAbout         `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"about,omitempty"`
	ItineraryDays []TripItineraryDay `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"itinerary_days,omitempty"`
	Inclusions    []TripInclusion    `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"inclusions,omitempty"`
	Exclusions    []TripExclusion    `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"exclusions,omitempty"`
	FAQs          []TripFAQ          `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"faqs,omitempty"`
	Extras        []TripExtra        `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"extras,omitempty"`
}

// BeforeCreate assigns a unique slug derived from the title.
func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.Slug == "" {
		slug, err := generateUniqueSlug(tx, &Trip{}, t.Title)
		if err != nil {
			return err
		}
		t.Slug = slug
	}
	return nil
}

// TripCategory tags trips for filtering ("Desert Safari", "Cultural", ...).
type TripCategory struct {
	gorm.Model
	Name string `json:"name" gorm:"size:100;not null" binding:"required"`
	Slug string `json:"slug" gorm:"size:120;uniqueIndex"`
}

func (tc *TripCategory) BeforeCreate(tx *gorm.DB) error {
	if tc.Slug == "" {
		slug, err := generateUniqueSlug(tx, &TripCategory{}, tc.Name)
		if err != nil {
			return err
		}
		tc.Slug = slug
	}
	return nil
}

// Language a trip is guided in.
type Language struct {
	gorm.Model
	Name string `json:"name" gorm:"size:80;uniqueIndex;not null"`
	Code string `json:"code" gorm:"size:8"`
}
