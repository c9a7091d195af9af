package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/paymentgateway"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/usecases"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/setting"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/cache"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/config"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/email"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/hostplatform"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/repository"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/swirepay"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/handlers"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http/middleware"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/services/markdown"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	settingRepo setting.Repository
	attemptRepo payment.AttemptRepository
}

type allUseCases struct {
	settings     *usecases.GatewaySettingsUseCase
	createLink   *usecases.CreatePaymentLinkUseCase
	process      *usecases.ProcessPaymentUseCase
	instructions *usecases.InstructionsUseCase
	attempts     *usecases.ListPaymentLinkAttemptsUseCase
}

type allHandlers struct {
	checkout    *handlers.CheckoutHandler
	paymentLink *handlers.PaymentLinkHandler
	settings    *handlers.GatewaySettingsHandler
	attempts    *handlers.AttemptHandler
	health      *handlers.HealthHandler
}

// Container wires infrastructure, use cases and handlers for the HTTP server.
type Container struct {
	engine   *gin.Engine
	db       *gorm.DB
	redis    *redis.Client
	cfg      *config.Config
	log      logger.Interface
	gateways *paymentgateway.Registry

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	adminAuth   *middleware.AdminAuth
	rateLimiter *middleware.RateLimiter
}

// NewContainer builds the object graph. The Swirepay client is registered in
// gateways under constants.GatewayID and checkout resolves it from there.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, gateways *paymentgateway.Registry, log logger.Interface) (*Container, error) {
	if err := utils.RegisterGinValidators(); err != nil {
		return nil, err
	}

	c := &Container{
		engine:   gin.New(),
		db:       db,
		redis:    redisClient,
		cfg:      cfg,
		log:      log,
		gateways: gateways,
	}

	c.repos = &repositories{
		settingRepo: repository.NewSystemSettingRepository(db, log.Named("repository.setting")),
		attemptRepo: repository.NewPaymentLinkAttemptRepository(db, log.Named("repository.attempt")),
	}

	opts, err := LinkOptions(cfg)
	if err != nil {
		return nil, err
	}

	requester, err := c.initGateway()
	if err != nil {
		return nil, err
	}

	c.initUseCases(requester, opts)
	c.initHandlers()

	c.adminAuth = middleware.NewAdminAuth(cfg.Admin.TokenHash, log.Named("middleware.admin"))
	c.rateLimiter = middleware.NewRateLimiter(redisClient, cfg.Server.RateLimitPerMinute, time.Minute, log.Named("middleware.ratelimit"))

	return c, nil
}

// initGateway registers the Swirepay client unless a requester is already
// registered under the gateway id.
func (c *Container) initGateway() (paymentgateway.PaymentLinkRequester, error) {
	if requester, ok := c.gateways.Get(constants.GatewayID); ok {
		return requester, nil
	}

	client, err := NewSwirepayClient(c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	if err := c.gateways.Register(constants.GatewayID, client); err != nil {
		return nil, fmt.Errorf("failed to register payment gateway: %w", err)
	}
	c.log.Infow("payment gateway registered", "gateway", constants.GatewayID, "endpoint", client.Endpoint())
	return client, nil
}

func (c *Container) initUseCases(requester paymentgateway.PaymentLinkRequester, opts usecases.LinkOptions) {
	log := c.log
	orders := hostplatform.NewOrderClient(hostplatform.Config{
		BaseURL:        c.cfg.Host.BaseURL,
		ConsumerKey:    c.cfg.Host.ConsumerKey,
		ConsumerSecret: c.cfg.Host.ConsumerSecret,
		Timeout:        c.cfg.Host.RequestTimeout(),
	}, log.Named("hostplatform"))
	guard := cache.NewRedisCheckoutGuard(c.redis, c.cfg.CheckoutLockTTL(), c.cfg.Checkout.ReplayTTL(), log.Named("checkoutguard"))
	mailer := email.NewInstructionsMailer(c.cfg.Email, log.Named("email"))

	settingsUC := usecases.NewGatewaySettingsUseCase(c.repos.settingRepo, log.Named("usecase.settings"))
	createLinkUC := usecases.NewCreatePaymentLinkUseCase(requester, c.repos.attemptRepo, log.Named("usecase.paymentlink"), opts)
	instructionsUC := usecases.NewInstructionsUseCase(settingsUC, orders, markdown.NewMarkdownService(), log.Named("usecase.instructions"))

	c.ucs = &allUseCases{
		settings:     settingsUC,
		createLink:   createLinkUC,
		instructions: instructionsUC,
		process:      usecases.NewProcessPaymentUseCase(guard, orders, settingsUC, createLinkUC, instructionsUC, mailer, log.Named("usecase.checkout")),
		attempts:     usecases.NewListPaymentLinkAttemptsUseCase(c.repos.attemptRepo, log.Named("usecase.attempts")),
	}
}

func (c *Container) initHandlers() {
	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		},
	}

	c.hdlrs = &allHandlers{
		checkout:    handlers.NewCheckoutHandler(c.ucs.process, c.ucs.instructions, c.log.Named("handler.checkout")),
		paymentLink: handlers.NewPaymentLinkHandler(c.ucs.createLink, c.ucs.settings, c.log.Named("handler.paymentlink")),
		settings:    handlers.NewGatewaySettingsHandler(c.ucs.settings, c.log.Named("handler.settings")),
		attempts:    handlers.NewAttemptHandler(c.ucs.attempts, c.log.Named("handler.attempts")),
		health:      handlers.NewHealthHandler(checks, c.log.Named("handler.health")),
	}
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// NewSwirepayClient builds the provider client from the swirepay config
// section. Shared with the link command.
func NewSwirepayClient(cfg *config.Config, log logger.Interface) (*swirepay.Client, error) {
	opts, err := LinkOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := swirepay.NewClient(swirepay.Config{
		BaseURL:               cfg.Swirepay.APIBaseURL,
		Variant:               opts.Variant,
		DefaultCurrency:       opts.DefaultCurrency,
		SessionTimeoutSeconds: cfg.Swirepay.SessionTimeoutSeconds,
		Timeout:               cfg.Swirepay.RequestTimeout(),
	}, log.Named("swirepay"))
	if err != nil {
		return nil, fmt.Errorf("failed to create swirepay client: %w", err)
	}
	return client, nil
}

// LinkOptions reads the deployment-level request options.
func LinkOptions(cfg *config.Config) (usecases.LinkOptions, error) {
	variant, err := vo.NewEndpointVariant(cfg.Swirepay.EndpointVariant)
	if err != nil {
		return usecases.LinkOptions{}, fmt.Errorf("swirepay.endpoint_variant: %w", err)
	}
	return usecases.LinkOptions{
		Variant:         variant,
		DefaultCurrency: cfg.Swirepay.DefaultCurrency,
	}, nil
}
