package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"sky_tours/internal/models"
)

// upgrader configures the WebSocket connection for the booking feed.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// bookingEvent is the JSON frame pushed to back-office dashboards when a
// new booking lands.
type bookingEvent struct {
	Reference  string    `json:"reference"`
	TripTitle  string    `json:"trip_title"`
	TripSlug   string    `json:"trip_slug"`
	TravelDate string    `json:"travel_date"`
	Travellers int       `json:"travellers"`
	GrandTotal string    `json:"grand_total"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

var bookingFeed = struct {
	sync.Mutex
	conns map[*websocket.Conn]bool
}{conns: make(map[*websocket.Conn]bool)}

// BookingFeed upgrades the connection and streams booking events until the
// client hangs up. Authentication happens in the route middleware.
func BookingFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("BookingFeed: websocket upgrade failed")
		return
	}

	bookingFeed.Lock()
	bookingFeed.conns[conn] = true
	bookingFeed.Unlock()

	// Drain incoming frames; the feed is push-only and the read loop just
	// detects disconnects.
	go func() {
		defer func() {
			bookingFeed.Lock()
			delete(bookingFeed.conns, conn)
			bookingFeed.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastBookingEvent fans a new booking out to every connected dashboard.
func broadcastBookingEvent(booking models.Booking, trip models.Trip) {
	event := bookingEvent{
		Reference:  booking.ReferenceCode(),
		TripTitle:  trip.Title,
		TripSlug:   trip.Slug,
		TravelDate: booking.TravelDate.Format("2006-01-02"),
		Travellers: booking.Adults + booking.Children + booking.Infants,
		GrandTotal: booking.GrandTotal.StringFixed(2),
		Status:     booking.Status,
		CreatedAt:  booking.CreatedAt,
	}

	bookingFeed.Lock()
	defer bookingFeed.Unlock()
	for conn := range bookingFeed.conns {
		if err := conn.WriteJSON(event); err != nil {
			logrus.WithError(err).Debug("BookingFeed: dropping dead connection")
			delete(bookingFeed.conns, conn)
			conn.Close()
		}
	}
}
