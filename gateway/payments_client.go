package gateway

import (
	"context"
	"fmt"
	"net/http"
)

type PaymentsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentsClient(baseURL string) PaymentsClient {
	return PaymentsClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

// VerifyPayment asks the payment gateway whether the intent has been
// captured. Payments are never captured here, only verified.
func (c PaymentsClient) VerifyPayment(ctx context.Context, paymentIntentID string) (bool, error) {
	url := fmt.Sprintf("%s/payment-intents/%s", c.baseURL, paymentIntentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code %d while verifying payment", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := jsonDecode(resp, &body); err != nil {
		return false, err
	}
	return body.Status == "succeeded", nil
}
