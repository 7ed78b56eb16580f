package entity

import "time"

// CheckInRecord is the current check-in state of one passenger of one booking
// for the booked tour date. Timestamp is set on the first scan and never
// changes afterwards; Destination, Location and UpdatedAt follow the latest
// scan.
type CheckInRecord struct {
	BookingID      string    `json:"booking_id"`
	PassengerIndex int       `json:"passenger_index"`
	Timestamp      time.Time `json:"timestamp"`
	Location       string    `json:"location"`
	Destination    string    `json:"destination"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DestinationLogEntry is one line of the append-only per-day scan log. Unlike
// CheckInRecord it is written once per scan and never rewritten.
type DestinationLogEntry struct {
	BookingID      string    `json:"booking_id"`
	PassengerIndex int       `json:"passenger_index"`
	Destination    string    `json:"destination"`
	Location       string    `json:"location"`
	At             time.Time `json:"at"`
}
