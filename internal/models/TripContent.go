package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TripHighlight is a single bullet shown on the trip detail page.
type TripHighlight struct {
	gorm.Model
	TripID   uint   `json:"trip_id" gorm:"index"`
	Text     string `json:"text" gorm:"size:300;not null"`
	Position int    `json:"position" gorm:"default:0"`
}

// TripAbout holds the long-form description for a trip.
type TripAbout struct {
	gorm.Model
	TripID uint   `json:"trip_id" gorm:"uniqueIndex"`
	Body   string `json:"body"`
}

// TripItineraryDay groups itinerary steps under a day heading.
type TripItineraryDay struct {
	gorm.Model
	TripID   uint   `json:"trip_id" gorm:"index"`
	DayLabel string `json:"day_label" gorm:"size:100"`
	Title    string `json:"title" gorm:"size:200"`
	Position int    `json:"position" gorm:"default:0"`

	Steps []TripItineraryStep `gorm:"foreignKey:ItineraryDayID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"steps,omitempty"`
}

// TripItineraryStep is one entry within an itinerary day.
type TripItineraryStep struct {
	gorm.Model
	ItineraryDayID uint   `json:"itinerary_day_id" gorm:"index"`
	Description    string `json:"description" gorm:"not null"`
	Position       int    `json:"position" gorm:"default:0"`
}

// TripInclusion lists what the trip price covers.
type TripInclusion struct {
	gorm.Model
	TripID   uint   `json:"trip_id" gorm:"index"`
	Text     string `json:"text" gorm:"size:300;not null"`
	Position int    `json:"position" gorm:"default:0"`
}

// TripExclusion lists what the trip price does not cover.
type TripExclusion struct {
	gorm.Model
	TripID   uint   `json:"trip_id" gorm:"index"`
	Text     string `json:"text" gorm:"size:300;not null"`
	Position int    `json:"position" gorm:"default:0"`
}

// TripFAQ is a question/answer pair on the trip page.
type TripFAQ struct {
	gorm.Model
	TripID   uint   `json:"trip_id" gorm:"index"`
	Question string `json:"question" gorm:"size:300;not null"`
	Answer   string `json:"answer"`
	Position int    `json:"position" gorm:"default:0"`
}

// TripExtra is a priced optional add-on bookable with the trip.
type TripExtra struct {
	gorm.Model
	TripID      uint            `json:"trip_id" gorm:"index"`
	Name        string          `json:"name" gorm:"size:200;not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Position    int             `json:"position" gorm:"default:0"`
}
