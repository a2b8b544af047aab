package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ecocity/config"
)

// Gateway abstracts the mobile-money provider so the service and its tests
// are independent of Campay's HTTP surface.
type Gateway interface {
	// Collect requests a payment from the subscriber's phone and returns the
	// gateway's transaction reference.
	Collect(ctx context.Context, amount float64, phone, description, externalRef string) (string, error)
	// Status polls a transaction: "SUCCESSFUL", "FAILED" or "PENDING".
	Status(ctx context.Context, gatewayRef string) (string, error)
}

// CampayGateway talks to the Campay REST API. Campay publishes no Go SDK, so
// this is a thin net/http client: token, collect, transaction status.
type CampayGateway struct {
	BaseURL  string
	AppUser  string
	AppPass  string
	Currency string
	HTTP     *http.Client
}

func NewCampayGateway() *CampayGateway {
	return &CampayGateway{
		BaseURL:  config.AppConfig.CampayBaseURL,
		AppUser:  config.AppConfig.CampayAppUser,
		AppPass:  config.AppConfig.CampayAppPass,
		Currency: config.AppConfig.CampayCurrency,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *CampayGateway) token(ctx context.Context) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": g.AppUser,
		"password": g.AppPass,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/token/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("campay: failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("campay: token request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("campay: token request returned status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("campay: failed to decode token response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("campay: empty token in response")
	}
	return out.Token, nil
}

func (g *CampayGateway) Collect(ctx context.Context, amount float64, phone, description, externalRef string) (string, error) {
	token, err := g.token(ctx)
	if err != nil {
		return "", err
	}

	body, _ := json.Marshal(map[string]interface{}{
		"amount":             fmt.Sprintf("%.0f", amount),
		"currency":           g.Currency,
		"from":               phone,
		"description":        description,
		"external_reference": externalRef,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/collect/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("campay: failed to build collect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+token)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("campay: collect request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("campay: collect returned status %d", resp.StatusCode)
	}

	var out struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("campay: failed to decode collect response: %w", err)
	}
	if out.Reference == "" {
		return "", fmt.Errorf("campay: empty reference in collect response")
	}
	return out.Reference, nil
}

func (g *CampayGateway) Status(ctx context.Context, gatewayRef string) (string, error) {
	token, err := g.token(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/transaction/"+gatewayRef+"/", nil)
	if err != nil {
		return "", fmt.Errorf("campay: failed to build status request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("campay: status request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("campay: status returned status %d", resp.StatusCode)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("campay: failed to decode status response: %w", err)
	}
	return out.Status, nil
}
