package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/paybot-id/paybot/pkg/idempotency"
	"github.com/paybot-id/paybot/pkg/logging"
	"github.com/paybot-id/paybot/pkg/scheduler"
	"github.com/paybot-id/paybot/pkg/shutdown"
	"github.com/paybot-id/paybot/pkg/tracing"

	botapp "github.com/paybot-id/paybot/internal/bot/application"
	"github.com/paybot-id/paybot/internal/bot/infrastructure/fonnte"
	bothttp "github.com/paybot-id/paybot/internal/bot/infrastructure/http"
	"github.com/paybot-id/paybot/internal/config"
	payapp "github.com/paybot-id/paybot/internal/payment/application"
	paydomain "github.com/paybot-id/paybot/internal/payment/domain"
	payhttp "github.com/paybot-id/paybot/internal/payment/infrastructure/http"
	"github.com/paybot-id/paybot/internal/payment/infrastructure/tokopay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "paybot", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Redis backs the callback dedup store.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	dedup := idempotency.NewStore(rdb, cfg.DedupTTL)

	// Gateway clients.
	wa := fonnte.New(log, cfg.Fonnte, cfg.GatewayTimeout)
	pay := tokopay.New(log, cfg.Tokopay, cfg.GatewayTimeout)

	// Connectivity probe against the chat gateway; degraded startup is
	// allowed, a disconnected device only means sends will fail later.
	if ds, err := wa.DeviceStatus(ctx); err != nil {
		log.Warn("chat gateway probe failed", "err", err)
	} else {
		log.Info("chat gateway device", "status", ds.DeviceStatus, "device_id", ds.DeviceID)
	}

	signer := paydomain.NewSigner(cfg.Tokopay.SecretKey)
	notifier := payapp.NewNotifier(log, signer, textSender{wa: wa}, dedup, scheduler.New(),
		cfg.Notify.ProcessingDelay, cfg.Notify.CompletedDelay)
	router := botapp.NewRouter(log, wa, pay, cfg.Payment)

	r := chi.NewRouter()
	r.Mount("/webhook", bothttp.NewHandler(log, router).Routes())
	r.Mount("/payments/callback", payhttp.NewHandler(log, notifier).Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("paybot shutdown complete")
}

// textSender narrows the chat client to the sequencer's port, dropping the
// delivery result it does not use.
type textSender struct {
	wa *fonnte.Client
}

func (s textSender) SendText(ctx context.Context, target, message string) error {
	_, err := s.wa.SendText(ctx, target, message)
	return err
}
