// Package payment 支付处理方网关，service 只依赖 Gateway 接口
package payment

import (
	"context"

	"github.com/stripe/stripe-go/v78"
)

// IntentRequest 创建支付意图的参数
type IntentRequest struct {
	Amount             int64
	Currency           string
	PaymentMethodTypes []string
	// 设置了 PaymentMethodTypes 时忽略
	AutomaticPaymentMethods bool
	// 分账到商家账户
	OnBehalfOf     string
	Destination    string
	ApplicationFee int64
	Metadata       map[string]string
	IdempotencyKey string
}

// Intent 已创建的支付意图
type Intent struct {
	ID           string
	ClientSecret string

	// 同一幂等键重放时返回的是原支付，可能已被取消
	Status string
}

// AccountRequest 创建商家收款账户的参数
type AccountRequest struct {
	Type           string
	Country        string
	Email          string
	BusinessType   string
	Capabilities   []string
	Metadata       map[string]string
	IdempotencyKey string
}

// LinkRequest 入驻链接参数
type LinkRequest struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
	Type       string
}

const (
	CapabilityTransfers    = "transfers"
	CapabilityCardPayments = "card_payments"

	AccountTypeStandard       = "standard"
	BusinessTypeIndividual    = "individual"
	LinkTypeAccountOnboarding = "account_onboarding"

	IntentStatusCanceled = "canceled"
)

// Gateway service 用到的处理方操作
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*Intent, error)
	CancelPaymentIntent(ctx context.Context, id string) error
	CreateAccount(ctx context.Context, req *AccountRequest) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, req *LinkRequest) (*stripe.AccountLink, error)
	GetAccount(ctx context.Context, accountID string) (*stripe.Account, error)
	// GetBalance 查询商家账户余额
	GetBalance(ctx context.Context, accountID string) (*stripe.Balance, error)
}
