package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/paybot-id/paybot/internal/bot/application"
	"github.com/paybot-id/paybot/internal/bot/domain"
)

// Handler exposes the chat gateway's inbound message webhook.
type Handler struct {
	log    *slog.Logger
	router *application.Router
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, router *application.Router) *Handler {
	return &Handler{
		log:    log,
		router: router,
		tracer: otel.Tracer("chat-webhook"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.inbound)
	r.Get("/", h.probe)

	return r
}

func (h *Handler) inbound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "InboundMessage")
	defer span.End()

	var in domain.InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.log.Error("webhook body parse failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to process webhook",
		})
		return
	}

	h.log.Info("message received", "device", in.Device, "sender", in.Sender, "name", in.Name)

	reply := h.router.Handle(ctx, in)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Webhook received successfully",
		"response": reply,
	})
}

func (h *Handler) probe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "WhatsApp bot webhook endpoint ready",
		"status":    "active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
