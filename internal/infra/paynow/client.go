package paynow

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const initiateURL = "https://www.paynow.co.zw/interface/initiatetransaction"

// Client talks to Paynow (Zimbabwe). Requests are url-encoded forms with a
// SHA512 hash trailer over the field values plus the integration key;
// responses come back url-encoded too.
type Client struct {
	integrationID  string
	integrationKey string
	httpc          *http.Client
}

func NewClient(integrationID, integrationKey string) *Client {
	return &Client{
		integrationID:  integrationID,
		integrationKey: integrationKey,
		httpc:          &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.integrationID != "" && c.integrationKey != ""
}

type InitiateResponse struct {
	Status     string
	BrowserURL string
	PollURL    string
}

type StatusResponse struct {
	Status    string
	Reference string
	Amount    string
}

// Paid reports whether Paynow considers the transaction settled.
func (s *StatusResponse) Paid() bool {
	switch strings.ToLower(s.Status) {
	case "paid", "awaiting delivery", "delivered":
		return true
	}
	return false
}

func (c *Client) InitiateTransaction(ctx context.Context, reference, email string, amount float64, returnURL, resultURL string) (*InitiateResponse, error) {
	// Field order matters: the hash covers values in submission order.
	fields := [][2]string{
		{"id", c.integrationID},
		{"reference", reference},
		{"amount", fmt.Sprintf("%.2f", amount)},
		{"additionalinfo", "Connect-Ed school payment"},
		{"returnurl", returnURL},
		{"resulturl", resultURL},
		{"authemail", email},
		{"status", "Message"},
	}

	form := url.Values{}
	var concat strings.Builder
	for _, f := range fields {
		form.Set(f[0], f[1])
		concat.WriteString(f[1])
	}
	form.Set("hash", c.hash(concat.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, initiateURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, err := c.do(req)
	if err != nil {
		return nil, err
	}

	out := &InitiateResponse{
		Status:     values.Get("status"),
		BrowserURL: values.Get("browserurl"),
		PollURL:    values.Get("pollurl"),
	}
	if !strings.EqualFold(out.Status, "ok") {
		return nil, fmt.Errorf("paynow initiate failed: %s", values.Get("error"))
	}
	return out, nil
}

// CheckStatus polls the transaction status URL Paynow handed back at
// initiation.
func (c *Client) CheckStatus(ctx context.Context, pollURL string) (*StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pollURL, nil)
	if err != nil {
		return nil, err
	}

	values, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		Status:    values.Get("status"),
		Reference: values.Get("reference"),
		Amount:    values.Get("amount"),
	}, nil
}

func (c *Client) do(req *http.Request) (url.Values, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paynow request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paynow returned %d: %s", resp.StatusCode, body)
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("paynow response malformed: %w", err)
	}
	return values, nil
}

func (c *Client) hash(values string) string {
	sum := sha512.Sum512([]byte(values + c.integrationKey))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
