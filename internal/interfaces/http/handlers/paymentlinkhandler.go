package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

// PaymentLinkHandler requests a link for an order snapshot supplied by the
// caller. Stock and order status are left to the caller.
type PaymentLinkHandler struct {
	createUC createPaymentLinkUseCase
	settings gatewaySettingsLoader
	logger   logger.Interface
}

func NewPaymentLinkHandler(createUC createPaymentLinkUseCase, settings gatewaySettingsLoader, logger logger.Interface) *PaymentLinkHandler {
	return &PaymentLinkHandler{
		createUC: createUC,
		settings: settings,
		logger:   logger,
	}
}

// CreatePaymentLink handles POST /payment-links
func (h *PaymentLinkHandler) CreatePaymentLink(c *gin.Context) {
	var req dto.OrderSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create payment link", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	order, err := req.ToOrderSnapshot()
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid order", err.Error()))
		return
	}

	settings, err := h.settings.Load(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to load gateway settings", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), order, settings)
	if err != nil {
		h.logger.Warnw("payment link request failed", "order_id", order.ID(), "error", err)
		utils.ErrorResponseWithError(c, gatewayAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Payment link created", &dto.PaymentLinkResponse{
		RedirectURL: result.RedirectURL,
		AttemptSID:  result.Attempt.SID(),
	})
}
