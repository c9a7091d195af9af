package hostplatform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/ordercollaborator"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils/logutil"
)

const (
	defaultTimeout = 15 * time.Second
	// Maximum order document size (1MB)
	maxOrderResponseSize = 1 << 20
	maxLoggedBody        = 256
)

type stockAction string

const (
	stockReserve stockAction = "reserve"
	stockRelease stockAction = "release"
	stockCommit  stockAction = "commit"
)

// Config points the client at the host platform's order API.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// orderDocument is the subset of the host order the gateway reads. The full
// document is kept as the request meta.
type orderDocument struct {
	ID            any             `json:"id"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	ReturnURL     string          `json:"return_url"`
	Billing       struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"billing"`
}

type statusUpdate struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// OrderClient implements OrderCollaborator over the host REST API.
type OrderClient struct {
	httpClient *http.Client
	cfg        Config
	logger     logger.Interface
}

var _ ordercollaborator.OrderCollaborator = (*OrderClient)(nil)

func NewOrderClient(cfg Config, logger logger.Interface) *OrderClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OrderClient{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

func (c *OrderClient) FetchOrder(ctx context.Context, orderID string) (*payment.OrderSnapshot, error) {
	resp, err := c.do(ctx, http.MethodGet, c.orderPath(orderID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxOrderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read order %s: %w", orderID, err)
	}
	if err := c.checkStatus(resp, raw, orderID); err != nil {
		return nil, err
	}

	return decodeOrder(raw)
}

func decodeOrder(raw []byte) (*payment.OrderSnapshot, error) {
	var doc orderDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var meta map[string]any
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}

	return payment.NewOrderSnapshot(payment.OrderSnapshotParams{
		ID:           cast.ToString(doc.ID),
		Total:        doc.Total,
		CurrencyCode: doc.Currency,
		Billing: payment.BillingDetails{
			FirstName: doc.Billing.FirstName,
			LastName:  doc.Billing.LastName,
			Email:     doc.Billing.Email,
			Phone:     doc.Billing.Phone,
		},
		ReturnURL:     doc.ReturnURL,
		Status:        doc.Status,
		PaymentMethod: doc.PaymentMethod,
		RawMeta:       meta,
	})
}

func (c *OrderClient) ReserveStock(ctx context.Context, orderID string) error {
	return c.stock(ctx, orderID, stockReserve)
}

func (c *OrderClient) ReleaseStock(ctx context.Context, orderID string) error {
	return c.stock(ctx, orderID, stockRelease)
}

func (c *OrderClient) CommitStock(ctx context.Context, orderID string) error {
	return c.stock(ctx, orderID, stockCommit)
}

func (c *OrderClient) stock(ctx context.Context, orderID string, action stockAction) error {
	resp, err := c.do(ctx, http.MethodPost, c.orderPath(orderID)+"/stock/"+string(action), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw := c.readBody(resp, orderID)
	if action == stockReserve && resp.StatusCode == http.StatusConflict {
		c.logger.Infow("stock reservation refused", "order_id", orderID)
		return ordercollaborator.ErrInsufficientStock
	}
	return c.checkStatus(resp, raw, orderID)
}

func (c *OrderClient) UpdateStatus(ctx context.Context, orderID, status, note string) error {
	body, err := json.Marshal(statusUpdate{Status: status, Note: note})
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, c.orderPath(orderID)+"/status", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw := c.readBody(resp, orderID)
	return c.checkStatus(resp, raw, orderID)
}

func (c *OrderClient) EmptyCart(ctx context.Context, orderID string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.orderPath(orderID)+"/cart", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw := c.readBody(resp, orderID)
	return c.checkStatus(resp, raw, orderID)
}

func (c *OrderClient) orderPath(orderID string) string {
	return "/orders/" + url.PathEscape(orderID)
}

func (c *OrderClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if body != nil {
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if c.cfg.ConsumerKey != "" {
		req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("host platform %s %s: %w", method, path, err)
	}
	return resp, nil
}

// readBody returns whatever part of the body arrived. A read failure is
// logged and the status code still decides the outcome.
func (c *OrderClient) readBody(resp *http.Response, orderID string) []byte {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxOrderResponseSize))
	if err != nil {
		c.logger.Warnw("failed to read host platform response",
			"order_id", orderID,
			"method", resp.Request.Method,
			"status", resp.StatusCode,
			"error", err,
		)
	}
	return raw
}

func (c *OrderClient) checkStatus(resp *http.Response, raw []byte, orderID string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ordercollaborator.ErrOrderNotFound, orderID)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warnw("host platform request failed",
			"order_id", orderID,
			"method", resp.Request.Method,
			"status", resp.StatusCode,
			"body", logutil.TruncateForLog(string(raw), maxLoggedBody),
		)
		return fmt.Errorf("host platform returned status %d", resp.StatusCode)
	}
	return nil
}
