package entity

type ConfirmationEmail struct {
	To             string  `json:"to"`
	BookingID      string  `json:"booking_id"`
	TotalPrice     float64 `json:"total_price"`
	AttachmentName string  `json:"attachment_name"`
}
