package swirepay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/paymentgateway"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils/logutil"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.swirepay.com/v1"
	// DefaultTimeout bounds one outbound call.
	DefaultTimeout = 45 * time.Second
	// Maximum provider response body size (1MB)
	maxResponseSize = 1 << 20
	// Maximum length of a response body excerpt in logs
	maxLoggedBody = 512
)

// Config configures a Client.
type Config struct {
	BaseURL               string
	Variant               vo.EndpointVariant
	DefaultCurrency       string
	SessionTimeoutSeconds int
	Timeout               time.Duration
}

// linkResponse is the provider success envelope: { "entity": { "link": "..." } }.
type linkResponse struct {
	Entity *struct {
		Link *string `json:"link"`
	} `json:"entity"`
}

// Client requests payment links from the Swirepay API. It keeps no state
// between calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	opts       payment.BuildOptions
	logger     logger.Interface
}

var _ paymentgateway.PaymentLinkRequester = (*Client)(nil)

// NewClient creates a client with TLS verification left at the Go default
// (always verified).
func NewClient(cfg Config, logger logger.Interface) (*Client, error) {
	variant, err := vo.NewEndpointVariant(cfg.Variant.String())
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		opts: payment.BuildOptions{
			Variant:               variant,
			DefaultCurrency:       cfg.DefaultCurrency,
			SessionTimeoutSeconds: cfg.SessionTimeoutSeconds,
		},
		logger: logger,
	}, nil
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.baseURL + c.opts.Variant.Path()
}

// RequestPaymentLink issues exactly one POST. A config that fails validation
// never reaches the network.
func (c *Client) RequestPaymentLink(ctx context.Context, order *payment.OrderSnapshot, cfg payment.GatewayConfig) (*payment.PaymentLinkResponse, error) {
	const op = "request payment link"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, payment.NewCancelledError(op, err)
	}

	body, err := payment.BuildPaymentLinkRequest(order, c.opts)
	if err != nil {
		return nil, err
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, payment.NewConfigError(op, fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, payment.NewConfigError(op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAPIKey, cfg.PrivateKey)

	log := c.logger.With(
		"order_id", order.ID(),
		"mode", cfg.Mode.String(),
		"api_key", logutil.MaskSecret(cfg.PrivateKey),
		"endpoint", c.Endpoint(),
	)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warnw("payment link request cancelled", "error", ctxErr)
			return nil, payment.NewCancelledError(op, ctxErr)
		}
		log.Warnw("payment link request failed", "error", err)
		return nil, payment.NewConnectionError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, payment.NewCancelledError(op, ctxErr)
		}
		log.Warnw("failed to read payment link response", "status", resp.StatusCode, "error", err)
		return nil, payment.NewConnectionError(op, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnw("payment link request rejected",
			"status", resp.StatusCode,
			"body", logutil.TruncateForLog(string(raw), maxLoggedBody),
			"duration", time.Since(started),
		)
		return nil, payment.NewConnectionError(op, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	link, err := parseLink(raw)
	if err != nil {
		log.Errorw("unreadable payment link response",
			"status", resp.StatusCode,
			"body", logutil.TruncateForLog(string(raw), maxLoggedBody),
			"error", err,
		)
		return nil, payment.NewParseError(op, err)
	}

	log.Debugw("payment link received", "status", resp.StatusCode, "duration", time.Since(started))

	return &payment.PaymentLinkResponse{RedirectURL: link}, nil
}

func parseLink(raw []byte) (string, error) {
	var data linkResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if data.Entity == nil || data.Entity.Link == nil {
		return "", errors.New("response has no entity.link")
	}
	link := strings.TrimSpace(*data.Entity.Link)
	if link == "" {
		return "", errors.New("response entity.link is empty")
	}
	return link, nil
}
