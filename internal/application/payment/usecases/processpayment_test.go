package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/instructionsmailer"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/ordercollaborator"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	apperrors "github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/services/markdown"
)

type processFixture struct {
	guard     *mockGuard
	orders    *mockOrders
	requester *mockRequester
	attempts  *mockAttemptRepo
	mailer    *mockMailer
	settings  payment.GatewaySettings
}

func newProcessFixture() *processFixture {
	f := &processFixture{
		guard:     new(mockGuard),
		orders:    new(mockOrders),
		requester: new(mockRequester),
		attempts:  new(mockAttemptRepo),
		mailer:    &mockMailer{sent: make(chan instructionsmailer.InstructionsEmail, 1)},
		settings:  readySettings(),
	}
	f.guard.On("ConfirmedRedirect", mock.Anything, mock.Anything).Return("", false, nil).Maybe()
	f.guard.On("Lock", mock.Anything, mock.Anything).Return("tok-1", true, nil).Maybe()
	f.guard.On("Unlock", mock.Anything, mock.Anything, "tok-1").Return(nil).Maybe()
	f.attempts.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.attempts.On("Update", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func (f *processFixture) useCase() *ProcessPaymentUseCase {
	log := logger.NewNopLogger()
	loader := staticSettings{settings: f.settings}
	links := NewCreatePaymentLinkUseCase(f.requester, f.attempts, log, LinkOptions{DefaultCurrency: "USD"})
	instructions := NewInstructionsUseCase(loader, f.orders, markdown.NewMarkdownService(), log)
	return NewProcessPaymentUseCase(f.guard, f.orders, loader, links, instructions, f.mailer, log)
}

func TestProcessPaymentUseCase_Success(t *testing.T) {
	f := newProcessFixture()
	order := newOrder("2001", "42.50", "https://shop.example.com/thanks")

	f.orders.On("FetchOrder", mock.Anything, "2001").Return(order, nil)
	f.orders.On("ReserveStock", mock.Anything, "2001").Return(nil)
	f.requester.On("RequestPaymentLink", mock.Anything, order, mock.Anything).
		Return(&payment.PaymentLinkResponse{RedirectURL: "https://pay.swirepay.com/l/ok"}, nil)
	f.orders.On("UpdateStatus", mock.Anything, "2001", payment.OrderStatusOnHold, OnHoldNote).Return(nil)
	f.orders.On("CommitStock", mock.Anything, "2001").Return(nil)
	f.orders.On("EmptyCart", mock.Anything, "2001").Return(nil)
	f.guard.On("RememberRedirect", mock.Anything, "2001", "https://pay.swirepay.com/l/ok").Return(nil)
	f.mailer.On("SendInstructions", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.useCase().Execute(context.Background(), "2001")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultSuccess, resp.Result)
	assert.Equal(t, "https://pay.swirepay.com/l/ok", resp.Redirect)
	assert.Empty(t, resp.Notice)

	select {
	case msg := <-f.mailer.sent:
		assert.Equal(t, "ada@example.com", msg.To)
		assert.Equal(t, "Ada Lovelace", msg.ToName)
		assert.Contains(t, msg.Subject, "2001")
	case <-time.After(2 * time.Second):
		t.Fatal("instructions email was not sent")
	}

	f.orders.AssertExpectations(t)
	f.guard.AssertCalled(t, "Unlock", mock.Anything, "2001", "tok-1")
	f.orders.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_ConnectionFailureLeavesOrderUntouched(t *testing.T) {
	f := newProcessFixture()
	order := newOrder("2002", "10", "https://shop.example.com/thanks")

	f.orders.On("FetchOrder", mock.Anything, "2002").Return(order, nil)
	f.orders.On("ReserveStock", mock.Anything, "2002").Return(nil)
	f.orders.On("ReleaseStock", mock.Anything, "2002").Return(nil)
	f.requester.On("RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, payment.NewConnectionError("request payment link", errors.New("status 500")))

	resp, err := f.useCase().Execute(context.Background(), "2002")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultFailure, resp.Result)
	assert.Equal(t, payment.NoticeConnectionError, resp.Notice)
	assert.Empty(t, resp.Redirect)

	f.orders.AssertCalled(t, "ReleaseStock", mock.Anything, "2002")
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "CommitStock", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "EmptyCart", mock.Anything, mock.Anything)
	f.guard.AssertNotCalled(t, "RememberRedirect", mock.Anything, mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "SendInstructions", mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_DisabledGateway(t *testing.T) {
	f := newProcessFixture()
	f.settings.Enabled = false

	resp, err := f.useCase().Execute(context.Background(), "2003")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultFailure, resp.Result)
	assert.Equal(t, payment.NoticeUnavailable, resp.Notice)
	f.orders.AssertNotCalled(t, "FetchOrder", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything)
	f.requester.AssertNotCalled(t, "RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_ReplaysConfirmedRedirect(t *testing.T) {
	f := newProcessFixture()
	f.guard.ExpectedCalls = nil
	f.guard.On("ConfirmedRedirect", mock.Anything, "2004").Return("https://pay.swirepay.com/l/prev", true, nil)

	resp, err := f.useCase().Execute(context.Background(), "2004")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultSuccess, resp.Result)
	assert.Equal(t, "https://pay.swirepay.com/l/prev", resp.Redirect)
	f.guard.AssertNotCalled(t, "Lock", mock.Anything, mock.Anything)
	f.requester.AssertNotCalled(t, "RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_LockHeldElsewhere(t *testing.T) {
	f := newProcessFixture()
	f.guard.ExpectedCalls = nil
	f.guard.On("ConfirmedRedirect", mock.Anything, mock.Anything).Return("", false, nil)
	f.guard.On("Lock", mock.Anything, "2005").Return("", false, nil)

	resp, err := f.useCase().Execute(context.Background(), "2005")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsConflictError(err))
	f.guard.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_LiveModeRequiresHTTPS(t *testing.T) {
	f := newProcessFixture()
	f.settings.TestMode = false
	order := newOrder("2006", "10", "http://shop.example.com/thanks")
	f.orders.On("FetchOrder", mock.Anything, "2006").Return(order, nil)

	resp, err := f.useCase().Execute(context.Background(), "2006")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultFailure, resp.Result)
	assert.Equal(t, payment.NoticeInsecureReturn, resp.Notice)
	f.orders.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_TestModeAllowsHTTP(t *testing.T) {
	f := newProcessFixture()
	order := newOrder("2007", "10", "http://localhost/thanks")
	f.orders.On("FetchOrder", mock.Anything, "2007").Return(order, nil)
	f.orders.On("ReserveStock", mock.Anything, "2007").Return(nil)
	f.requester.On("RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.PaymentLinkResponse{RedirectURL: "https://pay.swirepay.com/l/t"}, nil)
	f.orders.On("UpdateStatus", mock.Anything, "2007", payment.OrderStatusOnHold, OnHoldNote).Return(nil)
	f.orders.On("CommitStock", mock.Anything, "2007").Return(nil)
	f.orders.On("EmptyCart", mock.Anything, "2007").Return(nil)
	f.guard.On("RememberRedirect", mock.Anything, "2007", mock.Anything).Return(nil)

	log := logger.NewNopLogger()
	loader := staticSettings{settings: f.settings}
	links := NewCreatePaymentLinkUseCase(f.requester, f.attempts, log, LinkOptions{DefaultCurrency: "USD"})
	uc := NewProcessPaymentUseCase(f.guard, f.orders, loader, links, nil, nil, log)

	resp, err := uc.Execute(context.Background(), "2007")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultSuccess, resp.Result)
}

func TestProcessPaymentUseCase_OutOfStock(t *testing.T) {
	f := newProcessFixture()
	order := newOrder("2008", "10", "https://shop.example.com/thanks")
	f.orders.On("FetchOrder", mock.Anything, "2008").Return(order, nil)
	f.orders.On("ReserveStock", mock.Anything, "2008").Return(ordercollaborator.ErrInsufficientStock)

	resp, err := f.useCase().Execute(context.Background(), "2008")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultFailure, resp.Result)
	assert.Equal(t, NoticeOutOfStock, resp.Notice)
	f.requester.AssertNotCalled(t, "RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_OrderNotFound(t *testing.T) {
	f := newProcessFixture()
	f.orders.On("FetchOrder", mock.Anything, "missing").Return(nil, ordercollaborator.ErrOrderNotFound)

	resp, err := f.useCase().Execute(context.Background(), "missing")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsNotFoundError(err))
	f.guard.AssertCalled(t, "Unlock", mock.Anything, "missing", "tok-1")
}

func TestProcessPaymentUseCase_EmptyOrderID(t *testing.T) {
	f := newProcessFixture()

	_, err := f.useCase().Execute(context.Background(), "")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	f.guard.AssertNotCalled(t, "Lock", mock.Anything, mock.Anything)
}

func TestProcessPaymentUseCase_OnHoldFailureSkipsEmail(t *testing.T) {
	f := newProcessFixture()
	order := newOrder("2009", "10", "https://shop.example.com/thanks")
	f.orders.On("FetchOrder", mock.Anything, "2009").Return(order, nil)
	f.orders.On("ReserveStock", mock.Anything, "2009").Return(nil)
	f.requester.On("RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.PaymentLinkResponse{RedirectURL: "https://pay.swirepay.com/l/x"}, nil)
	f.orders.On("UpdateStatus", mock.Anything, "2009", mock.Anything, mock.Anything).Return(errors.New("host 500"))
	f.orders.On("CommitStock", mock.Anything, "2009").Return(nil)
	f.orders.On("EmptyCart", mock.Anything, "2009").Return(nil)
	f.guard.On("RememberRedirect", mock.Anything, "2009", mock.Anything).Return(nil)

	resp, err := f.useCase().Execute(context.Background(), "2009")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultSuccess, resp.Result)
	f.mailer.AssertNotCalled(t, "SendInstructions", mock.Anything, mock.Anything)
}

// memoryGuard is an in-process CheckoutGuard. beforeLookup runs once, on the
// first ConfirmedRedirect call, to let another submission slip in between the
// lookup and Lock.
type memoryGuard struct {
	mu           sync.Mutex
	locks        map[string]string
	redirects    map[string]string
	seq          int
	beforeLookup func()
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{locks: map[string]string{}, redirects: map[string]string{}}
}

func (g *memoryGuard) Lock(ctx context.Context, orderID string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.locks[orderID]; held {
		return "", false, nil
	}
	g.seq++
	token := fmt.Sprintf("tok-%d", g.seq)
	g.locks[orderID] = token
	return token, true, nil
}

func (g *memoryGuard) Unlock(ctx context.Context, orderID, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.locks[orderID] == token {
		delete(g.locks, orderID)
	}
	return nil
}

func (g *memoryGuard) ConfirmedRedirect(ctx context.Context, orderID string) (string, bool, error) {
	if hook := g.takeHook(); hook != nil {
		hook()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	url, ok := g.redirects[orderID]
	return url, ok, nil
}

func (g *memoryGuard) takeHook() func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	hook := g.beforeLookup
	g.beforeLookup = nil
	return hook
}

func (g *memoryGuard) RememberRedirect(ctx context.Context, orderID, url string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.redirects[orderID] = url
	return nil
}

func TestProcessPaymentUseCase_SubmissionCompletedBeforeLockIsReplayed(t *testing.T) {
	f := newProcessFixture()
	order := newOrder("3001", "25.00", "https://shop.example.com/thanks")

	f.orders.On("FetchOrder", mock.Anything, "3001").Return(order, nil)
	f.orders.On("ReserveStock", mock.Anything, "3001").Return(nil)
	f.requester.On("RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.PaymentLinkResponse{RedirectURL: "https://pay.swirepay.com/l/first"}, nil)
	f.orders.On("UpdateStatus", mock.Anything, "3001", payment.OrderStatusOnHold, OnHoldNote).Return(nil)
	f.orders.On("CommitStock", mock.Anything, "3001").Return(nil)
	f.orders.On("EmptyCart", mock.Anything, "3001").Return(nil)
	f.mailer.On("SendInstructions", mock.Anything, mock.Anything).Return(nil)

	guard := newMemoryGuard()
	log := logger.NewNopLogger()
	loader := staticSettings{settings: f.settings}
	links := NewCreatePaymentLinkUseCase(f.requester, f.attempts, log, LinkOptions{DefaultCurrency: "USD"})
	instructions := NewInstructionsUseCase(loader, f.orders, markdown.NewMarkdownService(), log)
	uc := NewProcessPaymentUseCase(guard, f.orders, loader, links, instructions, f.mailer, log)

	var inner *dto.ProcessPaymentResponse
	guard.beforeLookup = func() {
		var err error
		inner, err = uc.Execute(context.Background(), "3001")
		require.NoError(t, err)
	}

	resp, err := uc.Execute(context.Background(), "3001")

	require.NoError(t, err)
	require.NotNil(t, inner)
	assert.Equal(t, dto.ResultSuccess, inner.Result)
	assert.Equal(t, dto.ResultSuccess, resp.Result)
	assert.Equal(t, inner.Redirect, resp.Redirect)

	f.requester.AssertNumberOfCalls(t, "RequestPaymentLink", 1)
	f.orders.AssertNumberOfCalls(t, "ReserveStock", 1)
	f.orders.AssertNumberOfCalls(t, "CommitStock", 1)
	f.orders.AssertNumberOfCalls(t, "FetchOrder", 1)
}

func newOnHoldOrder(t *testing.T, id, paymentMethod string) *payment.OrderSnapshot {
	t.Helper()
	o, err := payment.NewOrderSnapshot(payment.OrderSnapshotParams{
		ID:            id,
		Total:         decimal.RequireFromString("18.00"),
		CurrencyCode:  "USD",
		Billing:       payment.BillingDetails{FirstName: "Ada", Email: "ada@example.com"},
		ReturnURL:     "https://shop.example.com/thanks",
		Status:        payment.OrderStatusOnHold,
		PaymentMethod: paymentMethod,
	})
	require.NoError(t, err)
	return o
}

func TestProcessPaymentUseCase_OrderAlreadyAwaitingPayment(t *testing.T) {
	f := newProcessFixture()
	f.orders.On("FetchOrder", mock.Anything, "3002").Return(newOnHoldOrder(t, "3002", constants.GatewayID), nil)

	resp, err := f.useCase().Execute(context.Background(), "3002")

	require.NoError(t, err)
	assert.Equal(t, dto.ResultFailure, resp.Result)
	assert.Equal(t, NoticeAwaitingPayment, resp.Notice)
	f.orders.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "CommitStock", mock.Anything, mock.Anything)
	f.requester.AssertNotCalled(t, "RequestPaymentLink", mock.Anything, mock.Anything, mock.Anything)
	f.guard.AssertCalled(t, "Unlock", mock.Anything, "3002", "tok-1")
}

func TestProcessPaymentUseCase_OnHoldByOtherGatewayProceeds(t *testing.T) {
	f := newProcessFixture()
	f.orders.On("FetchOrder", mock.Anything, "3003").Return(newOnHoldOrder(t, "3003", "bacs"), nil)
	f.orders.On("ReserveStock", mock.Anything, "3003").Return(ordercollaborator.ErrInsufficientStock)

	resp, err := f.useCase().Execute(context.Background(), "3003")

	require.NoError(t, err)
	assert.Equal(t, NoticeOutOfStock, resp.Notice)
	f.orders.AssertCalled(t, "ReserveStock", mock.Anything, "3003")
}
