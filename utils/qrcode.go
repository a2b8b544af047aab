package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const qrImageEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// FetchQRImage renders the payload as a QR PNG using the qrserver API and
// returns the image bytes. The caller uploads them to the artifact store.
func FetchQRImage(ctx context.Context, payload string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	q := url.Values{}
	q.Set("size", "300x300")
	q.Set("data", payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, qrImageEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build qr request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch qr image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qr service returned status %d", resp.StatusCode)
	}
	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read qr image: %w", err)
	}
	return img, nil
}
