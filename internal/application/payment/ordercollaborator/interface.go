package ordercollaborator

import (
	"context"
	"errors"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
)

var (
	// ErrOrderNotFound is returned when the host has no such order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInsufficientStock is returned when a reservation cannot be made.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderCollaborator is the host platform's side of checkout. Stock is
// reserved before the provider call and either committed or released after.
type OrderCollaborator interface {
	FetchOrder(ctx context.Context, orderID string) (*payment.OrderSnapshot, error)
	ReserveStock(ctx context.Context, orderID string) error
	ReleaseStock(ctx context.Context, orderID string) error
	CommitStock(ctx context.Context, orderID string) error
	UpdateStatus(ctx context.Context, orderID, status, note string) error
	EmptyCart(ctx context.Context, orderID string) error
}
