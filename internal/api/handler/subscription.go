package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/beautyconnect/pay_go_server/internal/api/middleware"
	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
	"github.com/beautyconnect/pay_go_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Buy 购买订阅
// POST /functions/v1/buy_subscription
func (h *SubscriptionHandler) Buy(c *gin.Context) {
	var req dto.BuySubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	if !middleware.CanActFor(c, req.UserID) {
		response.PermissionError(c, "")
		return
	}

	resp, err := h.subscriptionService.Purchase(c.Request.Context(), req.UserID, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

// Expire 扫描并标记过期订阅，任意请求方法
// ANY /functions/v1/expire_subscriptions
func (h *SubscriptionHandler) Expire(c *gin.Context) {
	n, err := h.subscriptionService.ExpireSweep(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, &dto.ExpireSubscriptionsResponse{
		Message: "Expired subscriptions updated",
		Expired: n,
	})
}
