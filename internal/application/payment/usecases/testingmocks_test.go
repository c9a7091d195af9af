package usecases

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/instructionsmailer"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/setting"
)

type mockRequester struct {
	mock.Mock
}

func (m *mockRequester) RequestPaymentLink(ctx context.Context, order *payment.OrderSnapshot, cfg payment.GatewayConfig) (*payment.PaymentLinkResponse, error) {
	args := m.Called(ctx, order, cfg)
	resp, _ := args.Get(0).(*payment.PaymentLinkResponse)
	return resp, args.Error(1)
}

type mockAttemptRepo struct {
	mock.Mock
}

func (m *mockAttemptRepo) Create(ctx context.Context, attempt *payment.PaymentLinkAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *mockAttemptRepo) Update(ctx context.Context, attempt *payment.PaymentLinkAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *mockAttemptRepo) GetBySID(ctx context.Context, sid string) (*payment.PaymentLinkAttempt, error) {
	args := m.Called(ctx, sid)
	a, _ := args.Get(0).(*payment.PaymentLinkAttempt)
	return a, args.Error(1)
}

func (m *mockAttemptRepo) ListByOrderID(ctx context.Context, orderID string) ([]*payment.PaymentLinkAttempt, error) {
	args := m.Called(ctx, orderID)
	list, _ := args.Get(0).([]*payment.PaymentLinkAttempt)
	return list, args.Error(1)
}

type mockSettingRepo struct {
	mock.Mock
}

func (m *mockSettingRepo) GetByKey(ctx context.Context, category, key string) (*setting.SystemSetting, error) {
	args := m.Called(ctx, category, key)
	s, _ := args.Get(0).(*setting.SystemSetting)
	return s, args.Error(1)
}

func (m *mockSettingRepo) GetByCategory(ctx context.Context, category string) ([]*setting.SystemSetting, error) {
	args := m.Called(ctx, category)
	list, _ := args.Get(0).([]*setting.SystemSetting)
	return list, args.Error(1)
}

func (m *mockSettingRepo) Upsert(ctx context.Context, s *setting.SystemSetting) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSettingRepo) UpsertMany(ctx context.Context, settings []*setting.SystemSetting) error {
	return m.Called(ctx, settings).Error(0)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) FetchOrder(ctx context.Context, orderID string) (*payment.OrderSnapshot, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*payment.OrderSnapshot)
	return o, args.Error(1)
}

func (m *mockOrders) ReserveStock(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *mockOrders) ReleaseStock(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *mockOrders) CommitStock(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *mockOrders) UpdateStatus(ctx context.Context, orderID, status, note string) error {
	return m.Called(ctx, orderID, status, note).Error(0)
}

func (m *mockOrders) EmptyCart(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) Lock(ctx context.Context, orderID string) (string, bool, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockGuard) Unlock(ctx context.Context, orderID, token string) error {
	return m.Called(ctx, orderID, token).Error(0)
}

func (m *mockGuard) ConfirmedRedirect(ctx context.Context, orderID string) (string, bool, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockGuard) RememberRedirect(ctx context.Context, orderID, url string) error {
	return m.Called(ctx, orderID, url).Error(0)
}

type mockMailer struct {
	mock.Mock
	sent chan instructionsmailer.InstructionsEmail
}

func (m *mockMailer) SendInstructions(ctx context.Context, msg instructionsmailer.InstructionsEmail) error {
	err := m.Called(ctx, msg).Error(0)
	if m.sent != nil {
		m.sent <- msg
	}
	return err
}

// staticSettings is a GatewaySettingsLoader over a fixed form.
type staticSettings struct {
	settings payment.GatewaySettings
	err      error
}

func (s staticSettings) Load(ctx context.Context) (payment.GatewaySettings, error) {
	return s.settings, s.err
}

func readySettings() payment.GatewaySettings {
	s := payment.DefaultGatewaySettings()
	s.TestPublishableKey = "pk_test_1111aaaa"
	s.TestPrivateKey = "sk_test_2222bbbb"
	s.PublishableKey = "pk_live_3333cccc"
	s.PrivateKey = "sk_live_4444dddd"
	return s
}

func newOrder(id, total, returnURL string) *payment.OrderSnapshot {
	o, err := payment.NewOrderSnapshot(payment.OrderSnapshotParams{
		ID:           id,
		Total:        decimal.RequireFromString(total),
		CurrencyCode: "USD",
		Billing: payment.BillingDetails{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+15550100",
		},
		ReturnURL:     returnURL,
		Status:        payment.OrderStatusPending,
		PaymentMethod: "swirepay",
	})
	if err != nil {
		panic(err)
	}
	return o
}
