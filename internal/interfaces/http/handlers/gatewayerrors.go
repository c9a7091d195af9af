package handlers

import (
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
)

// gatewayAppError converts a payment link failure into the HTTP error. Errors
// that are not gateway errors pass through unchanged.
func gatewayAppError(err error) error {
	kind, ok := payment.KindOf(err)
	if !ok {
		return err
	}

	switch kind {
	case payment.ErrorKindConfig:
		return errors.NewUnavailableError("payment gateway is not configured", err.Error())
	case payment.ErrorKindCancelled:
		return errors.NewCanceledError("payment link request was cancelled")
	case payment.ErrorKindParse:
		return errors.NewBadGatewayError("payment provider returned an unusable response")
	default:
		return errors.NewBadGatewayError("payment provider could not be reached")
	}
}
