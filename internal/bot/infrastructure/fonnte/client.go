package fonnte

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/paybot-id/paybot/internal/bot/domain"
	"github.com/paybot-id/paybot/internal/config"
)

// Client sends WhatsApp messages through the chat gateway's /send endpoint.
// Image sends try a structured JSON payload first and fall back to one
// multipart submission; there is never a third attempt.
type Client struct {
	log    *slog.Logger
	cfg    config.FonnteConfig
	http   *http.Client
	tracer trace.Tracer
}

func New(log *slog.Logger, cfg config.FonnteConfig, timeout time.Duration) *Client {
	return &Client{
		log:    log,
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		tracer: otel.Tracer("fonnte-client"),
	}
}

type gatewayResponse struct {
	Status  bool   `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// DeviceStatus describes the bound WhatsApp device.
type DeviceStatus struct {
	DeviceStatus string `json:"device_status"`
	DeviceID     string `json:"device_id"`
	Webhook      string `json:"webhook"`
	Expired      string `json:"expired,omitempty"`
}

func (c *Client) SendText(ctx context.Context, target, message string) (domain.DeliveryResult, error) {
	ctx, span := c.tracer.Start(ctx, "SendText")
	defer span.End()

	payload := map[string]string{
		"target":      target,
		"message":     message,
		"countryCode": c.cfg.CountryCode,
	}
	if c.cfg.Device != "" {
		payload["device"] = c.cfg.Device
	}

	resp, err := c.postJSON(ctx, payload)
	if err != nil {
		return domain.DeliveryResult{}, err
	}
	if !resp.Status {
		return result(resp), fmt.Errorf("fonnte: send declined: %s", reason(resp))
	}

	c.log.Info("message sent", "target", target, "id", resp.ID)
	return result(resp), nil
}

// SendImage runs the two-strategy protocol: one JSON attempt, then on a
// gateway-reported failure or a transport/parse error, one multipart
// attempt. The multipart result is returned as-is; if the multipart
// attempt itself errors the call fails wrapping the first attempt's cause.
func (c *Client) SendImage(ctx context.Context, target, fileURL, caption string) (domain.DeliveryResult, error) {
	ctx, span := c.tracer.Start(ctx, "SendImage")
	defer span.End()

	if caption == "" {
		caption = "Image"
	}

	payload := map[string]string{
		"target":      target,
		"message":     caption,
		"file":        fileURL,
		"url":         fileURL, // some gateway revisions read url instead of file
		"countryCode": c.cfg.CountryCode,
	}
	if c.cfg.Device != "" {
		payload["device"] = c.cfg.Device
	}

	resp, jsonErr := c.postJSON(ctx, payload)
	if jsonErr == nil && resp.Status {
		c.log.Info("image sent", "target", target, "id", resp.ID)
		return result(resp), nil
	}
	if jsonErr == nil {
		jsonErr = fmt.Errorf("fonnte: image send declined: %s", reason(resp))
	}

	c.log.Warn("json image send failed, trying multipart", "target", target, "err", jsonErr)

	formResp, formErr := c.postMultipart(ctx, target, fileURL, caption)
	if formErr != nil {
		return domain.DeliveryResult{}, fmt.Errorf("fonnte: image send failed on both strategies: %w", jsonErr)
	}
	if formResp.Status {
		c.log.Info("image sent via multipart", "target", target, "id", formResp.ID)
	}
	return result(formResp), nil
}

// DeviceStatus asks the gateway about the bound device. Used at startup as
// a non-fatal connectivity probe.
func (c *Client) DeviceStatus(ctx context.Context) (DeviceStatus, error) {
	ctx, span := c.tracer.Start(ctx, "DeviceStatus")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/device", nil)
	if err != nil {
		return DeviceStatus{}, err
	}
	req.Header.Set("Authorization", c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("fonnte: device status request failed: %w", err)
	}
	defer res.Body.Close()

	var ds DeviceStatus
	if err := json.NewDecoder(res.Body).Decode(&ds); err != nil {
		return DeviceStatus{}, fmt.Errorf("fonnte: decode device status: %w", err)
	}
	return ds, nil
}

func (c *Client) postJSON(ctx context.Context, payload map[string]string) (gatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return gatewayResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return gatewayResponse{}, err
	}
	req.Header.Set("Authorization", c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) postMultipart(ctx context.Context, target, fileURL, caption string) (gatewayResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"target":      target,
		"message":     caption,
		"file":        fileURL,
		"countryCode": c.cfg.CountryCode,
	}
	if c.cfg.Device != "" {
		fields["device"] = c.cfg.Device
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return gatewayResponse{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return gatewayResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/send", &buf)
	if err != nil {
		return gatewayResponse{}, err
	}
	req.Header.Set("Authorization", c.cfg.Token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req)
}

func (c *Client) do(req *http.Request) (gatewayResponse, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return gatewayResponse{}, fmt.Errorf("fonnte: request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return gatewayResponse{}, fmt.Errorf("fonnte: read response: %w", err)
	}

	var parsed gatewayResponse
	parseErr := json.Unmarshal(raw, &parsed)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if parseErr != nil {
			return gatewayResponse{}, fmt.Errorf("fonnte: gateway error: http %d", res.StatusCode)
		}
		return gatewayResponse{}, fmt.Errorf("fonnte: gateway error: %s", reason(parsed))
	}
	if parseErr != nil {
		return gatewayResponse{}, fmt.Errorf("fonnte: decode response: %w", parseErr)
	}
	return parsed, nil
}

func result(r gatewayResponse) domain.DeliveryResult {
	return domain.DeliveryResult{Delivered: r.Status, MessageID: r.ID, Reason: reason(r)}
}

func reason(r gatewayResponse) string {
	if r.Reason != "" {
		return r.Reason
	}
	if r.Detail != "" {
		return r.Detail
	}
	if r.Message != "" {
		return r.Message
	}
	return "unknown error"
}
