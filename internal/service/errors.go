package service

import (
	"errors"

	"github.com/beautyconnect/pay_go_server/internal/pkg/payment"
)

var (
	ErrMissingUserID   = NewValidationError("Missing user_id")
	ErrMissingFields   = NewValidationError("Missing required fields")
	ErrMissingAccount  = NewValidationError("Missing account id")
	ErrInvalidCountry  = NewValidationError("Invalid country")
	ErrInvalidAmount   = NewValidationError("Invalid amount")
	ErrInvalidCurrency = NewValidationError("Invalid currency")
	ErrInvalidMerchant = NewValidationError("Invalid merchant account id")

	ErrVendorNotFound = errors.New("Vendor account not found")
)

// ValidationError 请求参数不合法，在任何外部调用之前返回
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ProcessorError 支付处理方返回的错误
type ProcessorError struct {
	Op  string
	Err error
}

func (e *ProcessorError) Error() string {
	return payment.Message(e.Err)
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// Rejected 处理方拒绝了请求本身（参数错误、卡被拒），而非网络或服务端故障
func (e *ProcessorError) Rejected() bool {
	return payment.IsRejection(e.Err)
}

// PersistenceError 数据库写入或读取失败，消息透传给客户端
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func processorErr(op string, err error) error {
	return &ProcessorError{Op: op, Err: err}
}

func persistenceErr(err error) error {
	return &PersistenceError{Err: err}
}
