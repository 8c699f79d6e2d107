package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
	"github.com/beautyconnect/pay_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Send 创建分账支付
// POST /functions/v1/send_payment
func (h *PaymentHandler) Send(c *gin.Context) {
	var req dto.SendPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.Charge(c.Request.Context(), &req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, resp)
}
