package dto

import (
	"encoding/json"
	"strings"

	"github.com/beautyconnect/pay_go_server/internal/model"
)

// BuySubscriptionRequest 购买订阅请求
type BuySubscriptionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (r *BuySubscriptionRequest) UnmarshalJSON(data []byte) error {
	type raw BuySubscriptionRequest
	if err := json.Unmarshal(data, (*raw)(r)); err != nil {
		return err
	}
	r.UserID = strings.TrimSpace(r.UserID)
	return nil
}

// BuySubscriptionResponse 购买订阅响应
type BuySubscriptionResponse struct {
	ClientSecret string              `json:"clientSecret"`
	Subscription *model.Subscription `json:"subscription"`
}

// ExpireSubscriptionsResponse 过期扫描响应
type ExpireSubscriptionsResponse struct {
	Message string `json:"message"`
	Expired int64  `json:"expired"`
}

// CreateVendorRequest 商家入驻请求，country 为 ISO 3166-1 alpha-2，大小写不敏感
type CreateVendorRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Country string `json:"country" binding:"required,iso3166_1_alpha2"`
}

// UnmarshalJSON 去掉首尾空白，国家代码转大写，之后再做 binding 校验
func (r *CreateVendorRequest) UnmarshalJSON(data []byte) error {
	type raw CreateVendorRequest
	if err := json.Unmarshal(data, (*raw)(r)); err != nil {
		return err
	}
	r.UserID = strings.TrimSpace(r.UserID)
	r.Email = strings.TrimSpace(r.Email)
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	return nil
}

// CreateVendorResponse 商家入驻响应
type CreateVendorResponse struct {
	StripeAccountID string `json:"stripe_account_id"`
	OnboardingURL   string `json:"onboarding_url"`
}

// SyncVendorRequest 同步入驻状态请求
type SyncVendorRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (r *SyncVendorRequest) UnmarshalJSON(data []byte) error {
	type raw SyncVendorRequest
	if err := json.Unmarshal(data, (*raw)(r)); err != nil {
		return err
	}
	r.UserID = strings.TrimSpace(r.UserID)
	return nil
}

// SyncVendorResponse 同步入驻状态响应
type SyncVendorResponse struct {
	Account *model.PayableAccount `json:"account"`
}

// FetchMerchantRequest 查询商家请求
type FetchMerchantRequest struct {
	AccountID string `json:"merchant_account_id" binding:"required"`
}

func (r *FetchMerchantRequest) UnmarshalJSON(data []byte) error {
	type raw FetchMerchantRequest
	if err := json.Unmarshal(data, (*raw)(r)); err != nil {
		return err
	}
	r.AccountID = strings.TrimSpace(r.AccountID)
	return nil
}

// MerchantInfo 商家信息（账户 + 余额）
type MerchantInfo struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	BusinessType   string      `json:"businessType"`
	Country        string      `json:"country"`
	PayoutsEnabled bool        `json:"payoutsEnabled"`
	ChargesEnabled bool        `json:"chargesEnabled"`
	Capabilities   interface{} `json:"capabilities"`
	Requirements   interface{} `json:"requirements"`
	Company        interface{} `json:"company"`
	Individual     interface{} `json:"individual"`
	Balance        Balance     `json:"balance"`
}

// Balance 账户余额
type Balance struct {
	Available []Amount `json:"available"`
	Pending   []Amount `json:"pending"`
	Livemode  bool     `json:"livemode"`
}

// Amount 单一币种金额（最小货币单位）
type Amount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// SendPaymentRequest 分账支付请求，amount 保留原始数字，范围由 service 校验
type SendPaymentRequest struct {
	Amount    json.Number `json:"amount" binding:"required,number"`
	Currency  string      `json:"currency" binding:"required,len=3,alpha"`
	AccountID string      `json:"merchant_account_id" binding:"required,startswith=acct_,min=6"`
}

// UnmarshalJSON 币种转小写
func (r *SendPaymentRequest) UnmarshalJSON(data []byte) error {
	type raw SendPaymentRequest
	if err := json.Unmarshal(data, (*raw)(r)); err != nil {
		return err
	}
	r.Currency = strings.ToLower(strings.TrimSpace(r.Currency))
	r.AccountID = strings.TrimSpace(r.AccountID)
	return nil
}

// SendPaymentResponse 分账支付响应
type SendPaymentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
