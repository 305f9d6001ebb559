package entity

import (
	"time"
)

// Booking status values
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingPending   = "pending"
)

// Price is a monetary amount in a specific currency
type Price struct {
	Amount   float64 `json:"amount" bson:"amount"`
	Currency string  `json:"currency" bson:"currency"`
}

// BookingEvent is the immutable fact of a single flight booking outcome.
// Once appended to a user's log it is never mutated or reordered.
type BookingEvent struct {
	ID             string    `json:"id" bson:"id"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
	UserID         string    `json:"userId" bson:"userId"`
	From           string    `json:"from" bson:"from"`
	To             string    `json:"to" bson:"to"`
	Date           string    `json:"date" bson:"date"`
	Carrier        string    `json:"carrier" bson:"carrier"`
	FlightNumber   string    `json:"flightNumber" bson:"flightNumber"`
	CabinClass     string    `json:"cabinClass" bson:"cabinClass"`
	Price          Price     `json:"price" bson:"price"`
	PassengerCount int       `json:"passengerCount" bson:"passengerCount"`
	Status         string    `json:"status" bson:"status"`
}

// Route returns the canonical route key for this booking
func (b *BookingEvent) Route() string {
	return b.From + "-" + b.To
}

// BookingLog is the append-only per-user booking history, ordered by
// insertion (timestamp ascending)
type BookingLog struct {
	UserID    string         `json:"userId" bson:"_id"`
	Bookings  []BookingEvent `json:"bookings" bson:"bookings"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// RouteRank is one entry of a popular-routes ranking
type RouteRank struct {
	Route    string    `json:"route"`
	Count    int64     `json:"count"`
	LastSeen time.Time `json:"lastSeen"`
}
