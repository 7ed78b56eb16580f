package entity

import "time"

// DateFormat is the wire format for tour dates, e.g. "2025-06-01".
const DateFormat = "2006-01-02"

// DefaultSlotCapacity is the number of seats a time slot starts with unless
// an admin has overridden it.
const DefaultSlotCapacity = 50

// TimeSlots are the fixed hourly departures of the tour.
var TimeSlots = []string{
	"9:00",
	"10:00",
	"11:00",
	"12:00",
	"13:00",
	"14:00",
	"15:00",
	"16:00",
}

func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type PassengerType string

const (
	PassengerAdult PassengerType = "adult"
	PassengerChild PassengerType = "child"
)

type Passenger struct {
	Name string        `json:"name"`
	Type PassengerType `json:"type"`
}

type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Addon is a priced extra appended to a booking after creation (audio guide,
// upper-deck reservation, ...). Add-ons are the only post-creation mutation of
// a booking besides cancellation.
type Addon struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
)

type BookingStatus string

const (
	StatusCreated            BookingStatus = "created"
	StatusConfirmed          BookingStatus = "confirmed"
	StatusPartiallyCheckedIn BookingStatus = "partially_checked_in"
	StatusFullyCheckedIn     BookingStatus = "fully_checked_in"
	StatusCancelled          BookingStatus = "cancelled"
)

type Booking struct {
	ID            string        `json:"id"`
	Passengers    []Passenger   `json:"passengers"`
	SelectedDate  string        `json:"selected_date"`
	TimeSlot      string        `json:"time_slot"`
	Contact       ContactInfo   `json:"contact"`
	TotalPrice    float64       `json:"total_price"`
	Addons        []Addon       `json:"addons,omitempty"`
	QRCodes       []string      `json:"qr_codes"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Cancelled     bool          `json:"cancelled,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Status derives the booking state from the payment status, the cancellation
// flag and the number of passengers already checked in. It is never stored.
func (b Booking) Status(checkedIn int) BookingStatus {
	switch {
	case b.Cancelled:
		return StatusCancelled
	case len(b.Passengers) > 0 && checkedIn >= len(b.Passengers):
		return StatusFullyCheckedIn
	case checkedIn > 0:
		return StatusPartiallyCheckedIn
	case b.PaymentStatus == PaymentVerified:
		return StatusConfirmed
	default:
		return StatusCreated
	}
}
