package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paybot-id/paybot/internal/bot/application"
	botdomain "github.com/paybot-id/paybot/internal/bot/domain"
	"github.com/paybot-id/paybot/internal/config"
	paydomain "github.com/paybot-id/paybot/internal/payment/domain"
)

type stubMessenger struct {
	texts int
}

func (s *stubMessenger) SendText(context.Context, string, string) (botdomain.DeliveryResult, error) {
	s.texts++
	return botdomain.DeliveryResult{Delivered: true}, nil
}

func (s *stubMessenger) SendImage(context.Context, string, string, string) (botdomain.DeliveryResult, error) {
	return botdomain.DeliveryResult{Delivered: true}, nil
}

type stubGateway struct{}

func (stubGateway) CreateOrder(_ context.Context, refID string, amount int64, channel string) (paydomain.Order, error) {
	return paydomain.Order{ReferenceID: refID, Amount: amount, Channel: channel}, nil
}

func (stubGateway) CheckStatus(context.Context, string) (string, error) { return "PENDING", nil }

func newTestHandler(m *stubMessenger) *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := application.NewRouter(log, m, stubGateway{}, config.PaymentConfig{Amount: 10000, Channel: "QRIS"})
	return NewHandler(log, router)
}

func TestInboundMessageReplies(t *testing.T) {
	m := &stubMessenger{}
	srv := httptest.NewServer(newTestHandler(m).Routes())
	defer srv.Close()

	body := `{"device":"device-1","sender":"628123456789","message":"halo","name":"Budi"}`
	res, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	var parsed struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Response string `json:"response"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&parsed))
	assert.True(t, parsed.Success)
	assert.Contains(t, parsed.Response, "Budi")
	assert.Equal(t, 1, m.texts)
}

func TestInboundMalformedBody(t *testing.T) {
	m := &stubMessenger{}
	srv := httptest.NewServer(newTestHandler(m).Routes())
	defer srv.Close()

	res, err := http.Post(srv.URL+"/", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	var parsed struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&parsed))
	assert.False(t, parsed.Success)
	assert.Equal(t, 0, m.texts)
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(&stubMessenger{}).Routes())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
