package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("FONNTE_TOKEN", "token")
	t.Setenv("TOKOPAY_MERCHANT_ID", "M001")
	t.Setenv("TOKOPAY_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "https://api.fonnte.com", cfg.Fonnte.BaseURL)
	assert.Equal(t, "62", cfg.Fonnte.CountryCode)
	assert.Equal(t, "https://api.tokopay.id", cfg.Tokopay.BaseURL)
	assert.Equal(t, int64(10000), cfg.Payment.Amount)
	assert.Equal(t, "QRIS", cfg.Payment.Channel)
	assert.Equal(t, 3*time.Second, cfg.Notify.ProcessingDelay)
	assert.Equal(t, 5*time.Second, cfg.Notify.CompletedDelay)
	assert.Equal(t, 24*time.Hour, cfg.DedupTTL)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
}

func TestLoadOverrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("PAYMENT_AMOUNT", "25000")
	t.Setenv("PAYMENT_CHANNEL", "OVO")
	t.Setenv("NOTIFY_PROCESSING_DELAY", "1m")
	t.Setenv("DEDUP_TTL", "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(25000), cfg.Payment.Amount)
	assert.Equal(t, "OVO", cfg.Payment.Channel)
	assert.Equal(t, time.Minute, cfg.Notify.ProcessingDelay)
	assert.Equal(t, 48*time.Hour, cfg.DedupTTL)
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("FONNTE_TOKEN", "")
	t.Setenv("TOKOPAY_MERCHANT_ID", "")
	t.Setenv("TOKOPAY_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
