package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type BookingMade struct {
	Header        EventHeader `json:"header"`
	BookingID     string      `json:"booking_id"`
	Passengers    int         `json:"passengers"`
	SelectedDate  string      `json:"selected_date"`
	TimeSlot      string      `json:"time_slot"`
	CustomerEmail string      `json:"customer_email"`
	TotalPrice    float64     `json:"total_price"`
	QRCodes       []string    `json:"qr_codes"`
}

type PassengerCheckedIn struct {
	Header         EventHeader `json:"header"`
	BookingID      string      `json:"booking_id"`
	PassengerIndex int         `json:"passenger_index"`
	Destination    string      `json:"destination"`
	Location       string      `json:"location"`
	SelectedDate   string      `json:"selected_date"`
	Repeat         bool        `json:"repeat"`
}

type BookingCancelled struct {
	Header       EventHeader `json:"header"`
	BookingID    string      `json:"booking_id"`
	SelectedDate string      `json:"selected_date"`
	TimeSlot     string      `json:"time_slot"`
	Passengers   int         `json:"passengers"`
}
