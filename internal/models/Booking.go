package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking statuses.
const (
	BookingStatusReceived  = "received"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a customer's reservation for a trip. Monetary fields are
// snapshots taken at booking time so later price edits don't rewrite history.
type Booking struct {
	gorm.Model
	TripID uint `json:"trip_id" gorm:"index;not null"`
	Trip   Trip `gorm:"foreignKey:TripID" json:"trip,omitempty"`

	TravelDate time.Time `json:"travel_date" gorm:"not null"`

	Adults   int `json:"adults" gorm:"default:1"`
	Children int `json:"children" gorm:"default:0"`
	Infants  int `json:"infants" gorm:"default:0"`

	FullName string `json:"full_name" gorm:"size:150;not null"`
	Email    string `json:"email" gorm:"size:200;not null"`
	Phone    string `json:"phone" gorm:"size:40"`

	SpecialRequests string `json:"special_requests"`

	// GroupReference is the customer-facing code, e.g. "SKY250826-000042".
	GroupReference string `json:"group_reference" gorm:"size:20;index"`

	BaseSubtotal   decimal.Decimal `json:"base_subtotal" gorm:"type:decimal(10,2)"`
	ExtrasSubtotal decimal.Decimal `json:"extras_subtotal" gorm:"type:decimal(10,2)"`
	GrandTotal     decimal.Decimal `json:"grand_total" gorm:"type:decimal(10,2)"`

	Status          string    `json:"status" gorm:"size:20;index;default:received"`
	StatusNote      string    `json:"status_note" gorm:"size:255"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`

	BookingExtras []BookingExtra `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"booking_extras,omitempty"`
}

// ReferenceCode returns the stored group reference, deriving the canonical
// code from creation time and id when one has not been persisted yet.
func (b *Booking) ReferenceCode() string {
	if b.GroupReference != "" {
		return b.GroupReference
	}
	if b.ID == 0 {
		return "PENDING"
	}
	ts := b.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("SKY%s-%06d", ts.Format("060102"), b.ID)
}

// BeforeCreate stamps the initial status fields.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BookingStatusReceived
	}
	if b.StatusUpdatedAt.IsZero() {
		b.StatusUpdatedAt = time.Now()
	}
	return nil
}

// AfterCreate persists the derived reference code once the id is known.
func (b *Booking) AfterCreate(tx *gorm.DB) error {
	if b.GroupReference != "" {
		return nil
	}
	b.GroupReference = b.ReferenceCode()
	return tx.Model(&Booking{}).Where("id = ?", b.ID).
		Update("group_reference", b.GroupReference).Error
}

// BookingExtra snapshots one priced add-on attached to a booking.
type BookingExtra struct {
	gorm.Model
	BookingID      uint            `json:"booking_id" gorm:"index;uniqueIndex:idx_booking_extra"`
	TripExtraID    uint            `json:"trip_extra_id" gorm:"uniqueIndex:idx_booking_extra"`
	TripExtra      TripExtra       `gorm:"foreignKey:TripExtraID" json:"trip_extra,omitempty"`
	PriceAtBooking decimal.Decimal `json:"price_at_booking" gorm:"type:decimal(10,2)"`
}
