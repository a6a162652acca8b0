package tokopay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/paybot-id/paybot/internal/config"
	"github.com/paybot-id/paybot/internal/payment/domain"
)

// Client creates payment orders and checks their status against the
// gateway's order endpoint. Every call is a single bounded request; retries
// are the caller's problem.
type Client struct {
	log    *slog.Logger
	cfg    config.TokopayConfig
	http   *http.Client
	tracer trace.Tracer
}

func New(log *slog.Logger, cfg config.TokopayConfig, timeout time.Duration) *Client {
	return &Client{
		log:    log,
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		tracer: otel.Tracer("tokopay-client"),
	}
}

// orderResponse tolerates schema drift between gateway revisions: the
// success flag has been observed as a bool and as the string "Success", and
// link fields appear both nested under data and at the top level.
type orderResponse struct {
	Status   json.RawMessage `json:"status"`
	ErrorMsg string          `json:"error_msg"`
	Data     struct {
		PayURL        string `json:"pay_url"`
		QRLink        string `json:"qr_link"`
		QRString      string `json:"qr_string"`
		TotalBayar    int64  `json:"total_bayar"`
		TotalDiterima int64  `json:"total_diterima"`
		Status        string `json:"status"`
	} `json:"data"`
	PayURL   string `json:"pay_url"`
	QRString string `json:"qr_string"`
}

// CreateOrder issues one order-creation request with the merchant
// credentials, reference id, amount and channel as query parameters.
func (c *Client) CreateOrder(ctx context.Context, refID string, amount int64, channel string) (domain.Order, error) {
	ctx, span := c.tracer.Start(ctx, "CreateOrder")
	defer span.End()

	q := url.Values{}
	q.Set("merchant", c.cfg.MerchantID)
	q.Set("secret", c.cfg.SecretKey)
	q.Set("ref_id", refID)
	q.Set("nominal", strconv.FormatInt(amount, 10))
	q.Set("metode", channel)

	resp, err := c.get(ctx, "/v1/order", q)
	if err != nil {
		return domain.Order{}, err
	}

	if !statusOK(resp.Status) {
		c.log.Error("order creation rejected", "ref_id", refID, "error_msg", resp.ErrorMsg)
		return domain.Order{}, fmt.Errorf("tokopay: order rejected: %s", orDefault(resp.ErrorMsg, "no reason given"))
	}

	order := domain.Order{
		ReferenceID:    refID,
		Amount:         orDefaultInt(resp.Data.TotalBayar, amount),
		Channel:        channel,
		PayURL:         orDefault(resp.Data.PayURL, resp.PayURL),
		QRLink:         orDefault(resp.Data.QRLink, orDefault(resp.Data.QRString, resp.QRString)),
		ReceivedAmount: resp.Data.TotalDiterima,
	}
	c.log.Info("order created", "ref_id", refID, "amount", order.Amount, "channel", channel)
	return order, nil
}

// CheckStatus queries the current state of an order. The returned string is
// the gateway's own status vocabulary (SUCCESS, FAILED, PENDING, ...).
func (c *Client) CheckStatus(ctx context.Context, refID string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "CheckStatus")
	defer span.End()

	q := url.Values{}
	q.Set("merchant", c.cfg.MerchantID)
	q.Set("secret", c.cfg.SecretKey)
	q.Set("ref_id", refID)

	resp, err := c.get(ctx, "/v1/order/status", q)
	if err != nil {
		return "", err
	}
	if !statusOK(resp.Status) {
		return "", fmt.Errorf("tokopay: status check rejected: %s", orDefault(resp.ErrorMsg, "no reason given"))
	}
	return orDefault(resp.Data.Status, string(domain.StatusPending)), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (orderResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return orderResponse{}, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return orderResponse{}, fmt.Errorf("tokopay: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return orderResponse{}, fmt.Errorf("tokopay: unexpected http status %d", res.StatusCode)
	}

	var parsed orderResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return orderResponse{}, fmt.Errorf("tokopay: decode response: %w", err)
	}
	return parsed, nil
}

func statusOK(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(s, "success") || strings.EqualFold(s, "true")
	}
	return false
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultInt(v, def int64) int64 {
	if v != 0 {
		return v
	}
	return def
}
