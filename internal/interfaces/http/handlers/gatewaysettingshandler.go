package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

// settingsUpdatedBy is recorded on settings rows changed through the admin API.
const settingsUpdatedBy = "admin"

// GatewaySettingsHandler exposes the gateway settings form to store admins.
type GatewaySettingsHandler struct {
	settingsUC gatewaySettingsUseCase
	logger     logger.Interface
}

func NewGatewaySettingsHandler(settingsUC gatewaySettingsUseCase, logger logger.Interface) *GatewaySettingsHandler {
	return &GatewaySettingsHandler{
		settingsUC: settingsUC,
		logger:     logger,
	}
}

// GetSettings handles GET /admin/gateway/settings
func (h *GatewaySettingsHandler) GetSettings(c *gin.Context) {
	result, err := h.settingsUC.Get(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to get gateway settings", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateSettings handles PUT /admin/gateway/settings
func (h *GatewaySettingsHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateGatewaySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update gateway settings", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.settingsUC.Update(c.Request.Context(), req, settingsUpdatedBy)
	if err != nil {
		h.logger.Warnw("failed to update gateway settings", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settings updated successfully", result)
}
