package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderAPIKey        = "x-api-key"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyRequestID = "request_id"

	// Database table names
	TableSystemSettings     = "system_settings"
	TablePaymentLinkAttempt = "payment_link_attempts"

	// Settings category holding the gateway form values
	SettingsCategoryGateway = "swirepay_gateway"

	// Gateway registry key, also used as the host's payment method id
	GatewayID = "swirepay"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgValidationFailed    = "Validation failed"
)
