package fonnte

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paybot-id/paybot/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.FonnteConfig{
		Token:       "token-123",
		Device:      "device-1",
		BaseURL:     srv.URL,
		CountryCode: "62",
	}
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, 2*time.Second)
}

func TestSendText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)
		assert.Equal(t, "token-123", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "628123456789", payload["target"])
		assert.Equal(t, "halo", payload["message"])
		assert.Equal(t, "62", payload["countryCode"])
		assert.Equal(t, "device-1", payload["device"])

		_, _ = w.Write([]byte(`{"status":true,"id":"msg-1"}`))
	})

	res, err := c.SendText(context.Background(), "628123456789", "halo")
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Equal(t, "msg-1", res.MessageID)
}

func TestSendTextDeclined(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"reason":"device disconnected"}`))
	})

	res, err := c.SendText(context.Background(), "628123456789", "halo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device disconnected")
	assert.False(t, res.Delivered)
}

func TestSendTextHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status":false,"reason":"invalid token"}`))
	})

	_, err := c.SendText(context.Background(), "628123456789", "halo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestSendImageJSONSucceeds(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		// The image reference rides under both keys for compatibility.
		assert.Equal(t, "https://img.example/qr.png", payload["file"])
		assert.Equal(t, "https://img.example/qr.png", payload["url"])
		_, _ = w.Write([]byte(`{"status":true,"id":"msg-2"}`))
	})

	res, err := c.SendImage(context.Background(), "628123456789", "https://img.example/qr.png", "Scan ya")
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Equal(t, 1, calls)
}

func TestSendImageFallsBackToMultipart(t *testing.T) {
	var jsonCalls, formCalls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "multipart/form-data") {
			formCalls++
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "628123456789", r.FormValue("target"))
			assert.Equal(t, "https://img.example/qr.png", r.FormValue("file"))
			assert.Equal(t, "Image", r.FormValue("message"))
			_, _ = w.Write([]byte(`{"status":true,"id":"msg-3"}`))
			return
		}
		jsonCalls++
		_, _ = w.Write([]byte(`{"status":false,"reason":"json unsupported"}`))
	})

	// Empty caption defaults to the placeholder.
	res, err := c.SendImage(context.Background(), "628123456789", "https://img.example/qr.png", "")
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Equal(t, "msg-3", res.MessageID)
	assert.Equal(t, 1, jsonCalls)
	assert.Equal(t, 1, formCalls)
}

func TestSendImageFallbackResultReturnedAsIs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			_, _ = w.Write([]byte(`{"status":false,"reason":"still no"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":false,"reason":"nope"}`))
	})

	res, err := c.SendImage(context.Background(), "628123456789", "https://img.example/qr.png", "x")
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, "still no", res.Reason)
}

func TestSendImageBothStrategiesError(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"status":false,"reason":"gateway down"}`))
	})

	_, err := c.SendImage(context.Background(), "628123456789", "https://img.example/qr.png", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both strategies")
	assert.Contains(t, err.Error(), "gateway down")
	// Exactly two network calls, never a third.
	assert.Equal(t, 2, calls)
}
