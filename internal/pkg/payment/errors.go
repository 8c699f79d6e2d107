package payment

import (
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v78"
)

// IsRejection 处理方拒绝了请求本身（参数错误、卡被拒等），
// 网络、鉴权、限流和 5xx 不算
func IsRejection(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}

	switch se.HTTPStatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return false
	}
	if se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 {
		return true
	}
	return se.Type == stripe.ErrorTypeCard || se.Type == stripe.ErrorTypeInvalidRequest
}

// Message 优先返回处理方给出的错误信息
func Message(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}
