package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/checkoutguard"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

const (
	checkoutLockKeyPrefix     = "swirepay:checkout:lock:"
	checkoutRedirectKeyPrefix = "swirepay:checkout:redirect:"
)

// unlockScript deletes the lock only when the caller's token still owns it.
// KEYS[1]: lock key
// ARGV[1]: token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCheckoutGuard serializes checkout per order across server instances
// and remembers the redirect of a confirmed payment link.
type RedisCheckoutGuard struct {
	client    *redis.Client
	lockTTL   time.Duration
	replayTTL time.Duration
	logger    logger.Interface
}

var _ checkoutguard.CheckoutGuard = (*RedisCheckoutGuard)(nil)

func NewRedisCheckoutGuard(client *redis.Client, lockTTL, replayTTL time.Duration, logger logger.Interface) *RedisCheckoutGuard {
	return &RedisCheckoutGuard{
		client:    client,
		lockTTL:   lockTTL,
		replayTTL: replayTTL,
		logger:    logger,
	}
}

func (g *RedisCheckoutGuard) Lock(ctx context.Context, orderID string) (string, bool, error) {
	if orderID == "" {
		return "", false, errors.New("order id cannot be empty")
	}
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, checkoutLockKeyPrefix+orderID, token, g.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !ok {
		g.logger.Infow("checkout lock held by another request", "order_id", orderID)
		return "", false, nil
	}
	return token, true, nil
}

func (g *RedisCheckoutGuard) Unlock(ctx context.Context, orderID, token string) error {
	if token == "" {
		return nil
	}
	released, err := unlockScript.Run(ctx, g.client, []string{checkoutLockKeyPrefix + orderID}, token).Int()
	if err != nil {
		return fmt.Errorf("failed to release checkout lock: %w", err)
	}
	if released == 0 {
		// Lock expired or was taken over; the other holder keeps it.
		g.logger.Warnw("checkout lock no longer owned at release", "order_id", orderID)
	}
	return nil
}

func (g *RedisCheckoutGuard) ConfirmedRedirect(ctx context.Context, orderID string) (string, bool, error) {
	url, err := g.client.Get(ctx, checkoutRedirectKeyPrefix+orderID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read confirmed redirect: %w", err)
	}
	return url, true, nil
}

func (g *RedisCheckoutGuard) RememberRedirect(ctx context.Context, orderID, url string) error {
	if err := g.client.Set(ctx, checkoutRedirectKeyPrefix+orderID, url, g.replayTTL).Err(); err != nil {
		return fmt.Errorf("failed to store confirmed redirect: %w", err)
	}
	return nil
}
