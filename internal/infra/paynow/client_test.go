package paynow

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_UppercaseSHA512OverValuesPlusKey(t *testing.T) {
	c := NewClient("12345", "secret-key")

	sum := sha512.Sum512([]byte("abcsecret-key"))
	want := strings.ToUpper(hex.EncodeToString(sum[:]))

	assert.Equal(t, want, c.hash("abc"))
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient("12345", "key").Configured())
	assert.False(t, NewClient("", "key").Configured())
	assert.False(t, NewClient("12345", "").Configured())
}

func TestCheckStatus_ParsesURLEncodedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte("reference=ce-abc123&amount=800.00&status=Paid"))
	}))
	defer srv.Close()

	c := NewClient("12345", "key")
	status, err := c.CheckStatus(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Paid", status.Status)
	assert.Equal(t, "ce-abc123", status.Reference)
	assert.Equal(t, "800.00", status.Amount)
	assert.True(t, status.Paid())
}

func TestStatusResponse_Paid(t *testing.T) {
	for _, s := range []string{"Paid", "Awaiting Delivery", "Delivered"} {
		assert.True(t, (&StatusResponse{Status: s}).Paid(), s)
	}
	for _, s := range []string{"Created", "Sent", "Cancelled", "Refunded", ""} {
		assert.False(t, (&StatusResponse{Status: s}).Paid(), s)
	}
}

func TestCheckStatus_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("12345", "key")
	_, err := c.CheckStatus(context.Background(), srv.URL)
	assert.Error(t, err)
}
