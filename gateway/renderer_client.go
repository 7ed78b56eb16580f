package gateway

import (
	"context"
	"net/http"
)

type RendererClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRendererClient(baseURL string) RendererClient {
	return RendererClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

// RenderTicketPDF asks the rendering service to produce the ticket PDF with
// one QR code per payload and returns the stored file name.
func (c RendererClient) RenderTicketPDF(ctx context.Context, bookingID string, qrPayloads []string) (string, error) {
	body := map[string]any{
		"booking_id":  bookingID,
		"qr_payloads": qrPayloads,
	}
	var out struct {
		FileName string `json:"file_name"`
	}
	if err := postJSON(ctx, c.httpClient, c.baseURL+"/tickets/render", body, &out); err != nil {
		return "", err
	}
	return out.FileName, nil
}
