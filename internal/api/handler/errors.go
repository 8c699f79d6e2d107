package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
	"github.com/beautyconnect/pay_go_server/internal/service"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// binding 校验失败时返回的错误，按 结构体.字段 查找
var (
	requiredErrors = map[string]error{
		"BuySubscriptionRequest.UserID":  service.ErrMissingUserID,
		"SyncVendorRequest.UserID":       service.ErrMissingUserID,
		"FetchMerchantRequest.AccountID": service.ErrMissingAccount,
		"SendPaymentRequest.Amount":      service.ErrInvalidAmount,
		"SendPaymentRequest.Currency":    service.ErrInvalidCurrency,
		"SendPaymentRequest.AccountID":   service.ErrMissingAccount,
	}
	ruleErrors = map[string]error{
		"CreateVendorRequest.Country":  service.ErrInvalidCountry,
		"SendPaymentRequest.Amount":    service.ErrInvalidAmount,
		"SendPaymentRequest.Currency":  service.ErrInvalidCurrency,
		"SendPaymentRequest.AccountID": service.ErrInvalidMerchant,
	}
)

// fieldError 取第一个不合法的字段，其余字段不再提示
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return nil
	}

	fe := verrs[0]
	errs := ruleErrors
	if fe.Tag() == "required" {
		errs = requiredErrors
	}
	if e, ok := errs[fe.StructNamespace()]; ok {
		return e
	}
	return service.ErrMissingFields
}

// bindJSON 解析并校验请求体，空请求体按空对象校验
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return true
	}

	if ferr := fieldError(err); ferr != nil {
		response.ParamError(c, ferr.Error())
		return false
	}
	response.ParamError(c, "Invalid JSON body")
	return false
}

// handleServiceError 将 service 错误转换为 HTTP 响应
func handleServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		validationErr  *service.ValidationError
		processorErr   *service.ProcessorError
		persistenceErr *service.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		response.ParamError(c, validationErr.Error())
	case errors.Is(err, service.ErrVendorNotFound):
		response.NotFoundError(c, err.Error())
	case errors.As(err, &processorErr):
		// 处理方拒绝请求本身是客户端问题，其余按服务端错误
		if processorErr.Rejected() {
			response.ParamError(c, processorErr.Error())
			return
		}
		response.ServerError(c, processorErr.Error())
	case errors.As(err, &persistenceErr):
		response.ServerError(c, persistenceErr.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
