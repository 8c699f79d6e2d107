package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
	"github.com/beautyconnect/pay_go_server/internal/service"
)

type MerchantHandler struct {
	merchantService *service.MerchantService
}

func NewMerchantHandler(merchantService *service.MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
	}
}

// Fetch 查询商家账户和余额
// POST /functions/v1/fetch_merchant
func (h *MerchantHandler) Fetch(c *gin.Context) {
	var req dto.FetchMerchantRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.merchantService.Fetch(c.Request.Context(), req.AccountID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, info)
}
