package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/id"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

// AttemptHandler serves the payment link audit log.
type AttemptHandler struct {
	listUC listAttemptsUseCase
	logger logger.Interface
}

func NewAttemptHandler(listUC listAttemptsUseCase, logger logger.Interface) *AttemptHandler {
	return &AttemptHandler{
		listUC: listUC,
		logger: logger,
	}
}

// ListByOrder handles GET /admin/orders/:order_id/attempts
func (h *AttemptHandler) ListByOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	result, err := h.listUC.ByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.logger.Warnw("failed to list payment link attempts", "order_id", orderID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Get handles GET /admin/attempts/:attempt_id
func (h *AttemptHandler) Get(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "attempt_id", id.PrefixLinkAttempt, "payment link attempt")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.BySID(c.Request.Context(), sid)
	if err != nil {
		h.logger.Warnw("failed to get payment link attempt", "attempt_id", sid, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
