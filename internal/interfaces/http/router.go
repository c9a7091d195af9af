package http

import (
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/middleware"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/routes"
)

// SetupRoutes configures middleware and all HTTP routes.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log.Named("http")))
	c.engine.Use(middleware.Recovery(c.log.Named("http")))

	c.engine.GET("/health", c.hdlrs.health.Health)

	routes.SetupCheckoutRoutes(c.engine, &routes.CheckoutRouteConfig{
		CheckoutHandler:    c.hdlrs.checkout,
		PaymentLinkHandler: c.hdlrs.paymentLink,
		RateLimiter:        c.rateLimiter,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		SettingsHandler: c.hdlrs.settings,
		AttemptHandler:  c.hdlrs.attempts,
		AdminAuth:       c.adminAuth,
	})
}
