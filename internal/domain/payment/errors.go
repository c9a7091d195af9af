package payment

import (
	"errors"
	"fmt"
)

// ErrAttemptNotFound is returned when a payment link attempt does not exist.
var ErrAttemptNotFound = errors.New("payment link attempt not found")

// ErrorKind classifies a failed payment link request.
type ErrorKind string

const (
	// ErrorKindConfig is raised before any network call.
	ErrorKindConfig ErrorKind = "config"
	// ErrorKindConnection covers transport failures and non-2xx answers.
	ErrorKindConnection ErrorKind = "connection"
	// ErrorKindParse means a 2xx answer without a usable entity.link.
	ErrorKindParse ErrorKind = "parse"
	// ErrorKindCancelled means the caller's context ended the call.
	ErrorKindCancelled ErrorKind = "cancelled"
)

// GatewayError is the failure half of a payment link response.
type GatewayError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func newGatewayError(kind ErrorKind, op string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Op: op, Err: err}
}

func NewConfigError(op string, err error) *GatewayError {
	return newGatewayError(ErrorKindConfig, op, err)
}

func NewConnectionError(op string, err error) *GatewayError {
	return newGatewayError(ErrorKindConnection, op, err)
}

func NewParseError(op string, err error) *GatewayError {
	return newGatewayError(ErrorKindParse, op, err)
}

func NewCancelledError(op string, err error) *GatewayError {
	return newGatewayError(ErrorKindCancelled, op, err)
}

// KindOf returns the kind of the first GatewayError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind, true
	}
	return "", false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func IsConfigError(err error) bool     { return isKind(err, ErrorKindConfig) }
func IsConnectionError(err error) bool { return isKind(err, ErrorKindConnection) }
func IsParseError(err error) bool      { return isKind(err, ErrorKindParse) }
func IsCancelled(err error) bool       { return isKind(err, ErrorKindCancelled) }

// Shopper-facing checkout notices. Parse failures read the same as
// connection failures; operators tell them apart from the logs.
const (
	NoticeConnectionError = "Connection error."
	NoticeUnavailable     = "This payment method is currently unavailable. Please choose another payment method."
	NoticeInterrupted     = "Checkout was interrupted. Please try again."
	NoticeInsecureReturn  = "This payment method requires a secure (https) store connection."
)

// ShopperNotice maps a failed request to the checkout notice.
func ShopperNotice(err error) string {
	kind, _ := KindOf(err)
	switch kind {
	case ErrorKindConfig:
		return NoticeUnavailable
	case ErrorKindCancelled:
		return NoticeInterrupted
	default:
		return NoticeConnectionError
	}
}
