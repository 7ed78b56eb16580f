package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus(t *testing.T) {
	booking := Booking{
		Passengers: []Passenger{
			{Name: "Ada Lovelace", Type: PassengerAdult},
			{Name: "Charles Babbage", Type: PassengerChild},
		},
	}

	assert.Equal(t, StatusCreated, booking.Status(0))

	booking.PaymentStatus = PaymentVerified
	assert.Equal(t, StatusConfirmed, booking.Status(0))
	assert.Equal(t, StatusPartiallyCheckedIn, booking.Status(1))
	assert.Equal(t, StatusFullyCheckedIn, booking.Status(2))

	booking.Cancelled = true
	assert.Equal(t, StatusCancelled, booking.Status(2), "cancellation wins over check-ins")
}

func TestValidTimeSlot(t *testing.T) {
	assert.True(t, ValidTimeSlot("9:00"))
	assert.True(t, ValidTimeSlot("16:00"))
	assert.False(t, ValidTimeSlot("8:00"))
	assert.False(t, ValidTimeSlot("17:00"))
	assert.False(t, ValidTimeSlot("10:30"))
	assert.False(t, ValidTimeSlot(""))
}

func TestIssueTickets(t *testing.T) {
	assert.Equal(t, "AB-1234|0", QRPayload("AB-1234", 0))

	tickets := IssueTickets("AB-1234", 3)
	assert.Equal(t, []string{"AB-1234|0", "AB-1234|1", "AB-1234|2"}, tickets)

	assert.Empty(t, IssueTickets("AB-1234", 0))
}
