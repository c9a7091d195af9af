package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

// ErrorTypePaymentFailed marks a checkout the shopper must retry or change.
const ErrorTypePaymentFailed = "payment_failed"

// CheckoutHandler serves the endpoints the store front calls during checkout.
type CheckoutHandler struct {
	processUC      processPaymentUseCase
	instructionsUC instructionsUseCase
	logger         logger.Interface
}

func NewCheckoutHandler(processUC processPaymentUseCase, instructionsUC instructionsUseCase, logger logger.Interface) *CheckoutHandler {
	return &CheckoutHandler{
		processUC:      processUC,
		instructionsUC: instructionsUC,
		logger:         logger,
	}
}

// ProcessPayment runs checkout for an order and answers with the redirect or
// the shopper-facing notice.
// POST /checkout/orders/:order_id/process
func (h *CheckoutHandler) ProcessPayment(c *gin.Context) {
	orderID := c.Param("order_id")
	if orderID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "order_id parameter is required")
		return
	}

	result, err := h.processUC.Execute(c.Request.Context(), orderID)
	if err != nil {
		h.logger.Warnw("checkout failed", "order_id", orderID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Result != dto.ResultSuccess {
		utils.FailureResponse(c, http.StatusUnprocessableEntity, ErrorTypePaymentFailed, result.Notice, result)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// PaymentFields returns the title and description shown under the payment
// method at checkout.
// GET /checkout/payment-fields
func (h *CheckoutHandler) PaymentFields(c *gin.Context) {
	result, err := h.instructionsUC.PaymentFields(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to render payment fields", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Instructions returns the thank-you page block for an order.
// GET /checkout/instructions?order_id=
func (h *CheckoutHandler) Instructions(c *gin.Context) {
	orderID := c.Query("order_id")
	if orderID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "order_id query parameter is required")
		return
	}

	result, err := h.instructionsUC.ThankYou(c.Request.Context(), orderID)
	if err != nil {
		h.logger.Warnw("failed to render instructions", "order_id", orderID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
