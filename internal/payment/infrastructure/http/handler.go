package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/paybot-id/paybot/internal/payment/application"
	"github.com/paybot-id/paybot/internal/payment/domain"
)

// Handler exposes the payment gateway's callback webhook.
type Handler struct {
	log      *slog.Logger
	notifier *application.Notifier
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, notifier *application.Notifier) *Handler {
	return &Handler{
		log:      log,
		notifier: notifier,
		tracer:   otel.Tracer("payment-webhook"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.callback)
	r.Get("/", h.probe)

	return r
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentCallback")
	defer span.End()

	var cb domain.Callback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		h.log.Error("callback body parse failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to process webhook",
		})
		return
	}

	h.log.Info("payment callback received", "reference_id", cb.ReferenceID, "status", cb.Status, "amount", cb.Amount)

	err := h.notifier.Process(ctx, cb)
	switch {
	case errors.Is(err, application.ErrBadSignature):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "Invalid signature",
		})
	case errors.Is(err, application.ErrUnresolvableReference):
		// Permanently unprocessable: answer 200 so the gateway stops
		// redelivering. The rejection is already in the logs.
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Webhook ignored",
		})
	case err != nil:
		h.log.Error("callback processing failed", "reference_id", cb.ReferenceID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to process webhook",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Webhook processed successfully",
		})
	}
}

func (h *Handler) probe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Payment webhook endpoint ready",
		"status":    "active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
