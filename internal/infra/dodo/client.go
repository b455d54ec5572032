package dodo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal Dodo Payments API client. Only checkout-session
// creation is used; webhook delivery comes in the other direction and is
// handled by the api/dodowebhook package.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether an API key is present. Without one the
// checkout handler uses the mock path instead of calling out.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type CheckoutItem struct {
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Quantity    int     `json:"quantity"`
}

type CheckoutRequest struct {
	Items     []CheckoutItem    `json:"product_cart"`
	Customer  CheckoutCustomer  `json:"customer"`
	ReturnURL string            `json:"return_url"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata"`
}

type CheckoutCustomer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, reqBody CheckoutRequest) (*CheckoutSession, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkouts", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dodo checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dodo checkout returned %d: %s", resp.StatusCode, body)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("dodo checkout response malformed: %w", err)
	}
	if session.CheckoutURL == "" {
		return nil, fmt.Errorf("dodo checkout response missing checkout_url")
	}
	return &session, nil
}
