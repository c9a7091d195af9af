package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

// ContextKeyAdmin is set once the admin token has been verified.
const ContextKeyAdmin = "admin"

// AdminAuth checks a bearer token against the configured bcrypt hash. With no
// hash configured every admin request is refused.
type AdminAuth struct {
	tokenHash []byte
	logger    logger.Interface
}

func NewAdminAuth(tokenHash string, logger logger.Interface) *AdminAuth {
	return &AdminAuth{
		tokenHash: []byte(strings.TrimSpace(tokenHash)),
		logger:    logger,
	}
}

func (m *AdminAuth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.tokenHash) == 0 {
			m.logger.Warnw("admin request refused, no admin token configured", "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "admin API is not configured")
			c.Abort()
			return
		}

		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword(m.tokenHash, []byte(parts[1])); err != nil {
			m.logger.Warnw("admin token rejected",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid admin token")
			c.Abort()
			return
		}

		c.Set(ContextKeyAdmin, true)
		c.Next()
	}
}
