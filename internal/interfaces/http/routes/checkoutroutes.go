package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/handlers"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/middleware"
)

// CheckoutRouteConfig holds dependencies for the store-facing routes.
type CheckoutRouteConfig struct {
	CheckoutHandler    *handlers.CheckoutHandler
	PaymentLinkHandler *handlers.PaymentLinkHandler
	RateLimiter        *middleware.RateLimiter
}

// SetupCheckoutRoutes configures checkout and payment link routes. Routes
// that reach the payment provider are rate limited.
func SetupCheckoutRoutes(engine *gin.Engine, cfg *CheckoutRouteConfig) {
	checkout := engine.Group("/checkout")
	{
		checkout.GET("/payment-fields", cfg.CheckoutHandler.PaymentFields)
		checkout.GET("/instructions", cfg.CheckoutHandler.Instructions)
		checkout.POST("/orders/:order_id/process", cfg.RateLimiter.Limit(), cfg.CheckoutHandler.ProcessPayment)
	}

	engine.POST("/payment-links", cfg.RateLimiter.Limit(), cfg.PaymentLinkHandler.CreatePaymentLink)
}
