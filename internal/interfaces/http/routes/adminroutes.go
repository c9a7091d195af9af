package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/handlers"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin routes.
type AdminRouteConfig struct {
	SettingsHandler *handlers.GatewaySettingsHandler
	AttemptHandler  *handlers.AttemptHandler
	AdminAuth       *middleware.AdminAuth
}

// SetupAdminRoutes configures the admin API. Every route requires the admin
// bearer token.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(cfg.AdminAuth.RequireAdmin())
	{
		admin.GET("/gateway/settings", cfg.SettingsHandler.GetSettings)
		admin.PUT("/gateway/settings", cfg.SettingsHandler.UpdateSettings)

		admin.GET("/orders/:order_id/attempts", cfg.AttemptHandler.ListByOrder)
		admin.GET("/attempts/:attempt_id", cfg.AttemptHandler.Get)
	}
}
