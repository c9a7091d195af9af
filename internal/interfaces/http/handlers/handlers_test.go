package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/usecases"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

func init() {
	if err := utils.RegisterGinValidators(); err != nil {
		panic(err)
	}
}

// =====================================================================
// Mock use cases
// =====================================================================

type mockProcessUC struct {
	result  *dto.ProcessPaymentResponse
	err     error
	orderID string
}

func (m *mockProcessUC) Execute(ctx context.Context, orderID string) (*dto.ProcessPaymentResponse, error) {
	m.orderID = orderID
	return m.result, m.err
}

type mockInstructionsUC struct {
	fields  *dto.PaymentFieldsResponse
	thanks  *dto.InstructionsResponse
	err     error
	orderID string
}

func (m *mockInstructionsUC) PaymentFields(ctx context.Context) (*dto.PaymentFieldsResponse, error) {
	return m.fields, m.err
}

func (m *mockInstructionsUC) ThankYou(ctx context.Context, orderID string) (*dto.InstructionsResponse, error) {
	m.orderID = orderID
	return m.thanks, m.err
}

type mockCreateLinkUC struct {
	result *usecases.CreatePaymentLinkResult
	err    error
	order  *payment.OrderSnapshot
	calls  int
}

func (m *mockCreateLinkUC) Execute(ctx context.Context, order *payment.OrderSnapshot, settings payment.GatewaySettings) (*usecases.CreatePaymentLinkResult, error) {
	m.calls++
	m.order = order
	return m.result, m.err
}

type staticLoader struct {
	settings payment.GatewaySettings
	err      error
}

func (s staticLoader) Load(ctx context.Context) (payment.GatewaySettings, error) {
	return s.settings, s.err
}

type mockSettingsUC struct {
	result    *dto.GatewaySettingsResponse
	err       error
	updatedBy string
	req       dto.UpdateGatewaySettingsRequest
}

func (m *mockSettingsUC) Get(ctx context.Context) (*dto.GatewaySettingsResponse, error) {
	return m.result, m.err
}

func (m *mockSettingsUC) Update(ctx context.Context, req dto.UpdateGatewaySettingsRequest, updatedBy string) (*dto.GatewaySettingsResponse, error) {
	m.req = req
	m.updatedBy = updatedBy
	return m.result, m.err
}

type mockListAttemptsUC struct {
	list []*dto.PaymentLinkAttemptResponse
	one  *dto.PaymentLinkAttemptResponse
	err  error
}

func (m *mockListAttemptsUC) ByOrder(ctx context.Context, orderID string) ([]*dto.PaymentLinkAttemptResponse, error) {
	return m.list, m.err
}

func (m *mockListAttemptsUC) BySID(ctx context.Context, sid string) (*dto.PaymentLinkAttemptResponse, error) {
	return m.one, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

func newTestAttempt(t *testing.T) *payment.PaymentLinkAttempt {
	t.Helper()
	money, err := vo.NewMoney(decimal.RequireFromString("25.00"), "USD")
	require.NoError(t, err)
	attempt, err := payment.NewPaymentLinkAttempt("1001", vo.EndpointVariantPaymentLink, vo.GatewayModeTest, money)
	require.NoError(t, err)
	return attempt
}

func validLinkRequest() map[string]any {
	return map[string]any{
		"id":            "1001",
		"total":         "25.00",
		"currency_code": "USD",
		"return_url":    "https://shop.example.com/checkout/order-received/1001",
		"billing": map[string]any{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"email":      "ada@example.com",
		},
	}
}

// =====================================================================
// CheckoutHandler
// =====================================================================

func TestCheckoutHandler_ProcessPayment(t *testing.T) {
	t.Run("success returns redirect", func(t *testing.T) {
		uc := &mockProcessUC{result: &dto.ProcessPaymentResponse{Result: dto.ResultSuccess, Redirect: "https://pay.example.com/l/abc"}}
		handler := NewCheckoutHandler(uc, nil, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/1001/process", nil)
		testutil.SetURLParam(c, "order_id", "1001")
		handler.ProcessPayment(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1001", uc.orderID)
		resp := testutil.ParseResponse(t, w)
		assert.True(t, resp.Success)

		var data dto.ProcessPaymentResponse
		testutil.DecodeData(t, resp, &data)
		assert.Equal(t, "https://pay.example.com/l/abc", data.Redirect)
	})

	t.Run("failure carries the notice", func(t *testing.T) {
		uc := &mockProcessUC{result: &dto.ProcessPaymentResponse{Result: dto.ResultFailure, Notice: payment.NoticeConnectionError}}
		handler := NewCheckoutHandler(uc, nil, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/1001/process", nil)
		testutil.SetURLParam(c, "order_id", "1001")
		handler.ProcessPayment(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := testutil.ParseResponse(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrorTypePaymentFailed, resp.Error.Type)
		assert.Equal(t, payment.NoticeConnectionError, resp.Error.Message)
	})

	t.Run("concurrent submission is a conflict", func(t *testing.T) {
		uc := &mockProcessUC{err: apperrors.NewConflictError("checkout already in progress")}
		handler := NewCheckoutHandler(uc, nil, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/1001/process", nil)
		testutil.SetURLParam(c, "order_id", "1001")
		handler.ProcessPayment(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing order id", func(t *testing.T) {
		uc := &mockProcessUC{}
		handler := NewCheckoutHandler(uc, nil, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders//process", nil)
		handler.ProcessPayment(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, uc.orderID)
	})
}

func TestCheckoutHandler_Instructions(t *testing.T) {
	t.Run("renders thank-you block", func(t *testing.T) {
		uc := &mockInstructionsUC{thanks: &dto.InstructionsResponse{OrderID: "1001", Show: true, InstructionsHTML: "<p>Pay</p>"}}
		handler := NewCheckoutHandler(nil, uc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/checkout/instructions", nil)
		testutil.SetQueryParams(c, map[string]string{"order_id": "1001"})
		handler.Instructions(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1001", uc.orderID)
	})

	t.Run("order id is required", func(t *testing.T) {
		handler := NewCheckoutHandler(nil, &mockInstructionsUC{}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/checkout/instructions", nil)
		handler.Instructions(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		uc := &mockInstructionsUC{err: apperrors.NewNotFoundError("order not found", "404")}
		handler := NewCheckoutHandler(nil, uc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/checkout/instructions", nil)
		testutil.SetQueryParams(c, map[string]string{"order_id": "404"})
		handler.Instructions(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get rejects foreign id prefix", func(t *testing.T) {
		uc := &mockListAttemptsUC{}
		handler := NewAttemptHandler(uc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/admin/attempts/setting_abc", nil)
		testutil.SetURLParam(c, "attempt_id", "setting_abc")
		handler.Get(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutHandler_PaymentFields(t *testing.T) {
	uc := &mockInstructionsUC{fields: &dto.PaymentFieldsResponse{Title: "Credit Card", DescriptionHTML: "<p>Pay</p>", TestMode: true}}
	handler := NewCheckoutHandler(nil, uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/checkout/payment-fields", nil)
	handler.PaymentFields(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := testutil.ParseResponse(t, w)
	var data dto.PaymentFieldsResponse
	testutil.DecodeData(t, resp, &data)
	assert.Equal(t, "Credit Card", data.Title)
	assert.True(t, data.TestMode)
}

// =====================================================================
// PaymentLinkHandler
// =====================================================================

func TestPaymentLinkHandler_CreatePaymentLink(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		attempt := newTestAttempt(t)
		uc := &mockCreateLinkUC{result: &usecases.CreatePaymentLinkResult{Attempt: attempt, RedirectURL: "https://pay.example.com/l/abc"}}
		handler := NewPaymentLinkHandler(uc, staticLoader{settings: payment.DefaultGatewaySettings()}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/payment-links", validLinkRequest())
		handler.CreatePaymentLink(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := testutil.ParseResponse(t, w)
		var data dto.PaymentLinkResponse
		testutil.DecodeData(t, resp, &data)
		assert.Equal(t, "https://pay.example.com/l/abc", data.RedirectURL)
		assert.Equal(t, attempt.SID(), data.AttemptSID)

		require.NotNil(t, uc.order)
		assert.Equal(t, "1001", uc.order.ID())
		assert.Equal(t, "Ada Lovelace", uc.order.Billing().FullName())
	})

	t.Run("invalid currency code is rejected by binding", func(t *testing.T) {
		uc := &mockCreateLinkUC{}
		handler := NewPaymentLinkHandler(uc, staticLoader{}, testutil.NewMockLogger())

		body := validLinkRequest()
		body["currency_code"] = "US1"
		c, w := testutil.NewTestContext(http.MethodPost, "/payment-links", body)
		handler.CreatePaymentLink(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, uc.calls)
	})

	t.Run("negative total is a validation error", func(t *testing.T) {
		uc := &mockCreateLinkUC{}
		handler := NewPaymentLinkHandler(uc, staticLoader{}, testutil.NewMockLogger())

		body := validLinkRequest()
		body["total"] = "-1.00"
		c, w := testutil.NewTestContext(http.MethodPost, "/payment-links", body)
		handler.CreatePaymentLink(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := testutil.ParseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, string(apperrors.ErrorTypeValidation), resp.Error.Type)
		assert.Zero(t, uc.calls)
	})

	t.Run("settings store failure", func(t *testing.T) {
		uc := &mockCreateLinkUC{}
		handler := NewPaymentLinkHandler(uc, staticLoader{err: errors.New("db down")}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/payment-links", validLinkRequest())
		handler.CreatePaymentLink(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Zero(t, uc.calls)
	})

	errorCases := []struct {
		name     string
		err      error
		wantCode int
		wantType apperrors.ErrorType
	}{
		{"config error", payment.NewConfigError("create payment link", errors.New("missing key")), http.StatusServiceUnavailable, apperrors.ErrorTypeUnavailable},
		{"connection error", payment.NewConnectionError("create payment link", errors.New("refused")), http.StatusBadGateway, apperrors.ErrorTypeBadGateway},
		{"parse error", payment.NewParseError("create payment link", errors.New("no link")), http.StatusBadGateway, apperrors.ErrorTypeBadGateway},
		{"cancelled", payment.NewCancelledError("create payment link", context.Canceled), 499, apperrors.ErrorTypeCanceled},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockCreateLinkUC{result: &usecases.CreatePaymentLinkResult{Attempt: newTestAttempt(t)}, err: tc.err}
			handler := NewPaymentLinkHandler(uc, staticLoader{settings: payment.DefaultGatewaySettings()}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/payment-links", validLinkRequest())
			handler.CreatePaymentLink(c)

			assert.Equal(t, tc.wantCode, w.Code)
			resp := testutil.ParseResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(tc.wantType), resp.Error.Type)
		})
	}
}

// =====================================================================
// GatewaySettingsHandler
// =====================================================================

func TestGatewaySettingsHandler(t *testing.T) {
	t.Run("get returns masked settings", func(t *testing.T) {
		uc := &mockSettingsUC{result: &dto.GatewaySettingsResponse{Title: "Credit Card", PrivateKey: "sk_live_****dddd"}}
		handler := NewGatewaySettingsHandler(uc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/admin/gateway/settings", nil)
		handler.GetSettings(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "sk_live_****dddd")
	})

	t.Run("update passes the partial request", func(t *testing.T) {
		uc := &mockSettingsUC{result: &dto.GatewaySettingsResponse{Title: "Card"}}
		handler := NewGatewaySettingsHandler(uc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPut, "/admin/gateway/settings", map[string]any{"title": "Card", "testmode": false})
		handler.UpdateSettings(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, settingsUpdatedBy, uc.updatedBy)
		require.NotNil(t, uc.req.Title)
		assert.Equal(t, "Card", *uc.req.Title)
		require.NotNil(t, uc.req.TestMode)
		assert.False(t, *uc.req.TestMode)
		assert.Nil(t, uc.req.PrivateKey)
	})

	t.Run("update validation error", func(t *testing.T) {
		uc := &mockSettingsUC{err: apperrors.NewValidationError("private key required in live mode")}
		handler := NewGatewaySettingsHandler(uc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPut, "/admin/gateway/settings", map[string]any{"testmode": false})
		handler.UpdateSettings(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =====================================================================
// AttemptHandler
// =====================================================================

func TestAttemptHandler(t *testing.T) {
	attempt := dto.ToPaymentLinkAttemptResponse(newTestAttempt(t))

	t.Run("list by order", func(t *testing.T) {
		handler := NewAttemptHandler(&mockListAttemptsUC{list: []*dto.PaymentLinkAttemptResponse{attempt}}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/admin/orders/1001/attempts", nil)
		testutil.SetURLParam(c, "order_id", "1001")
		handler.ListByOrder(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := testutil.ParseResponse(t, w)
		var data []dto.PaymentLinkAttemptResponse
		testutil.DecodeData(t, resp, &data)
		require.Len(t, data, 1)
		assert.Equal(t, attempt.SID, data[0].SID)
	})

	t.Run("get unknown attempt", func(t *testing.T) {
		handler := NewAttemptHandler(&mockListAttemptsUC{err: apperrors.NewNotFoundError("payment link attempt not found")}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/admin/attempts/pla_missing", nil)
		testutil.SetURLParam(c, "attempt_id", "pla_missing")
		handler.Get(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =====================================================================
// HealthHandler
// =====================================================================

func TestHealthHandler(t *testing.T) {
	up := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("unreachable") }

	t.Run("all up", func(t *testing.T) {
		handler := NewHealthHandler(map[string]HealthCheck{"database": up, "redis": up}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		handler.Health(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("one down", func(t *testing.T) {
		handler := NewHealthHandler(map[string]HealthCheck{"database": up, "redis": down}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		handler.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := testutil.ParseResponse(t, w)
		var data map[string]string
		testutil.DecodeData(t, resp, &data)
		assert.Equal(t, "down", data["redis"])
		assert.Equal(t, "up", data["database"])
	})
}
