package entity

import (
	"fmt"

	"github.com/samber/lo"
)

// QRPayload is the string encoded into a passenger's QR code. Scanners send it
// back verbatim, so the format is part of the wire contract.
func QRPayload(bookingID string, passengerIndex int) string {
	return fmt.Sprintf("%s|%d", bookingID, passengerIndex)
}

// IssueTickets returns one QR payload per passenger of a booking.
func IssueTickets(bookingID string, passengerCount int) []string {
	return lo.Map(lo.Range(passengerCount), func(i int, _ int) string {
		return QRPayload(bookingID, i)
	})
}
