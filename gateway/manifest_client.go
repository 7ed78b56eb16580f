package gateway

import (
	"context"
	"fmt"
	"net/http"
)

// ManifestClient appends rows to the ops boarding manifests (spreadsheet-like
// service the operations team reads from).
type ManifestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewManifestClient(baseURL string) ManifestClient {
	return ManifestClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (c ManifestClient) AppendRow(ctx context.Context, manifestName string, row []string) error {
	body := map[string]any{
		"columns": row,
	}
	url := fmt.Sprintf("%s/manifests/%s/rows", c.baseURL, manifestName)
	return postJSON(ctx, c.httpClient, url, body, nil)
}
