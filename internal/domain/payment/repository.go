package payment

import "context"

type AttemptRepository interface {
	Create(ctx context.Context, attempt *PaymentLinkAttempt) error
	Update(ctx context.Context, attempt *PaymentLinkAttempt) error
	GetBySID(ctx context.Context, sid string) (*PaymentLinkAttempt, error)
	// ListByOrderID returns the order's attempts, newest first.
	ListByOrderID(ctx context.Context, orderID string) ([]*PaymentLinkAttempt, error)
}
