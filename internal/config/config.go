package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to components through their
// constructors. Business logic never reads the environment directly.
type Config struct {
	HTTPAddr     string
	LogLevel     string
	OTLPEndpoint string

	RedisAddr string
	DedupTTL  time.Duration

	Fonnte  FonnteConfig
	Tokopay TokopayConfig
	Payment PaymentConfig
	Notify  NotifyConfig

	GatewayTimeout time.Duration
}

type FonnteConfig struct {
	Token       string
	Device      string
	BaseURL     string
	CountryCode string
}

type TokopayConfig struct {
	MerchantID string
	SecretKey  string
	BaseURL    string
}

// PaymentConfig fixes the order parameters: every "bayar" intent creates an
// order for the same amount on the same channel.
type PaymentConfig struct {
	Amount  int64
	Channel string
}

// NotifyConfig holds the delays between the stages of the success
// notification sequence. CompletedDelay counts from the processing stage,
// not from the confirmation.
type NotifyConfig struct {
	ProcessingDelay time.Duration
	CompletedDelay  time.Duration
}

var ErrMissingCredentials = errors.New("config: fonnte token and tokopay merchant id/secret are required")

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		LogLevel:     env("LOG_LEVEL", "info"),
		OTLPEndpoint: env("OTLP_ENDPOINT", "http://localhost:4318"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		DedupTTL:     envDuration("DEDUP_TTL", 24*time.Hour),
		Fonnte: FonnteConfig{
			Token:       os.Getenv("FONNTE_TOKEN"),
			Device:      os.Getenv("FONNTE_DEVICE"),
			BaseURL:     env("FONNTE_BASE_URL", "https://api.fonnte.com"),
			CountryCode: env("FONNTE_COUNTRY_CODE", "62"),
		},
		Tokopay: TokopayConfig{
			MerchantID: os.Getenv("TOKOPAY_MERCHANT_ID"),
			SecretKey:  os.Getenv("TOKOPAY_SECRET_KEY"),
			BaseURL:    env("TOKOPAY_BASE_URL", "https://api.tokopay.id"),
		},
		Payment: PaymentConfig{
			Amount:  envInt64("PAYMENT_AMOUNT", 10000),
			Channel: env("PAYMENT_CHANNEL", "QRIS"),
		},
		Notify: NotifyConfig{
			ProcessingDelay: envDuration("NOTIFY_PROCESSING_DELAY", 3*time.Second),
			CompletedDelay:  envDuration("NOTIFY_COMPLETED_DELAY", 5*time.Second),
		},
		GatewayTimeout: envDuration("GATEWAY_TIMEOUT", 10*time.Second),
	}

	if cfg.Fonnte.Token == "" || cfg.Tokopay.MerchantID == "" || cfg.Tokopay.SecretKey == "" {
		return Config{}, ErrMissingCredentials
	}
	return cfg, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt64(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
