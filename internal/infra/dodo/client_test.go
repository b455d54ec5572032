package dodo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkouts", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ce-abc123", req.Reference)
		assert.Equal(t, "1", req.Metadata["school_id"])
		require.Len(t, req.Items, 1)
		assert.Equal(t, 825.0, req.Items[0].Amount)

		json.NewEncoder(w).Encode(CheckoutSession{
			SessionID:   "cs-1",
			CheckoutURL: "https://checkout.dodopayments.com/cs-1",
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	session, err := c.CreateCheckoutSession(context.Background(), CheckoutRequest{
		Items:     []CheckoutItem{{ProductName: "Connect-Ed GROWTH signup", Amount: 825, Currency: "USD", Quantity: 1}},
		Customer:  CheckoutCustomer{Email: "admin@hilltop.ac.zw", Name: "Hilltop Primary"},
		Reference: "ce-abc123",
		Metadata:  map[string]string{"school_id": "1", "plan_type": "GROWTH", "is_signup": "true"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs-1", session.SessionID)
	assert.Equal(t, "https://checkout.dodopayments.com/cs-1", session.CheckoutURL)
}

func TestCreateCheckoutSession_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", srv.URL)
	_, err := c.CreateCheckoutSession(context.Background(), CheckoutRequest{})
	assert.Error(t, err)
}

func TestCreateCheckoutSession_MissingCheckoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"session_id":"cs-2"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	_, err := c.CreateCheckoutSession(context.Background(), CheckoutRequest{})
	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient("key", "").Configured())
	assert.False(t, NewClient("", "").Configured())
}
