package gateway

import (
	"context"
	"fmt"
	"net/http"

	"tourbook/entity"
)

type EmailClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewEmailClient(baseURL string) EmailClient {
	return EmailClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (c EmailClient) SendBookingConfirmation(ctx context.Context, email entity.ConfirmationEmail) error {
	body := map[string]any{
		"to":          email.To,
		"subject":     fmt.Sprintf("Your tour booking %s", email.BookingID),
		"booking_id":  email.BookingID,
		"total_price": email.TotalPrice,
		"attachment":  email.AttachmentName,
	}
	return postJSON(ctx, c.httpClient, c.baseURL+"/emails", body, nil)
}
