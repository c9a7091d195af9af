package checkoutguard

import "context"

// CheckoutGuard stops a double-submitted checkout from creating two payment
// links for one order.
type CheckoutGuard interface {
	// Lock takes the per-order in-flight lock. ok is false when another
	// request holds it. The returned token must be passed to Unlock.
	Lock(ctx context.Context, orderID string) (token string, ok bool, err error)
	// Unlock releases the lock only if token still owns it.
	Unlock(ctx context.Context, orderID, token string) error
	// ConfirmedRedirect returns the redirect of an order that already
	// succeeded, so a resubmission gets the same page.
	ConfirmedRedirect(ctx context.Context, orderID string) (url string, ok bool, err error)
	RememberRedirect(ctx context.Context, orderID, url string) error
}
