// Package flutterwave is a thin client for the parts of the Flutterwave v3
// API the checkout flow needs: hosted payment links and transfer rates.
package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lodgerhq/lodger/internal/config"
)

const (
	defaultBaseURL = "https://api.flutterwave.com/v3"
	defaultTimeout = 15 * time.Second

	statusSuccess = "success"
)

// UpstreamError reports a gateway call that did not complete. The raw
// response body is never carried; it may contain account details.
type UpstreamError struct {
	Operation  string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("flutterwave: %s returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("flutterwave: %s failed", e.Operation)
}

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func New(cfg config.Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.Gateway.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Gateway.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		secretKey:  strings.TrimSpace(cfg.Gateway.SecretKey),
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Customer identifies the purchaser on the hosted checkout page.
type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CheckoutRequest describes a hosted payment link to create.
type CheckoutRequest struct {
	TxRef       string         `json:"tx_ref"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	RedirectURL string         `json:"redirect_url,omitempty"`
	Customer    Customer       `json:"customer"`
	Meta        map[string]any `json:"meta,omitempty"`
}

type checkoutResponse struct {
	Status string `json:"status"`
	Data   struct {
		Link string `json:"link"`
	} `json:"data"`
}

// CreatePaymentLink creates a hosted checkout session and returns the URL
// the purchaser should be redirected to.
func (c *Client) CreatePaymentLink(ctx context.Context, req CheckoutRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("flutterwave: encode checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("flutterwave: build checkout request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &UpstreamError{Operation: "create payment link"}
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Operation: "create payment link", StatusCode: resp.StatusCode}
	}

	var parsed checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UpstreamError{Operation: "create payment link", StatusCode: resp.StatusCode}
	}
	link := strings.TrimSpace(parsed.Data.Link)
	if parsed.Status != statusSuccess || link == "" {
		return "", &UpstreamError{Operation: "create payment link", StatusCode: resp.StatusCode}
	}
	return link, nil
}

// RateSide is one leg of a transfer-rate quote.
type RateSide struct {
	Currency string `json:"currency"`
	Amount   Number `json:"amount"`
}

// RateData is the transfer-rate payload. Field shapes vary across gateway
// versions, so amounts are parsed tolerantly and callers decide which legs
// to trust.
type RateData struct {
	Rate        Number   `json:"rate"`
	Source      RateSide `json:"source"`
	Destination RateSide `json:"destination"`
}

type rateResponse struct {
	Status string   `json:"status"`
	Data   RateData `json:"data"`
}

// TransferRate quotes the conversion of amount USD into the destination
// currency.
func (c *Client) TransferRate(ctx context.Context, amount float64, destination string) (*RateData, error) {
	query := url.Values{}
	query.Set("amount", fmt.Sprintf("%g", amount))
	query.Set("destination_currency", strings.ToUpper(strings.TrimSpace(destination)))
	query.Set("source_currency", "USD")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transfers/rates?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("flutterwave: build rate request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Operation: "transfer rate"}
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Operation: "transfer rate", StatusCode: resp.StatusCode}
	}

	var parsed rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Operation: "transfer rate", StatusCode: resp.StatusCode}
	}
	if parsed.Status != statusSuccess {
		return nil, &UpstreamError{Operation: "transfer rate", StatusCode: resp.StatusCode}
	}
	return &parsed.Data, nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
