package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/beautyconnect/pay_go_server/internal/model"
)

// TestSubscription 创建测试订阅，默认 30 天后到期
func TestSubscription(t *testing.T, db *gorm.DB, userID string, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		UserID:             userID,
		SubscriptionID:     fmt.Sprintf("pi_fixture_%d", time.Now().UnixNano()),
		SubscriptionExpiry: time.Now().UTC().Add(30 * 24 * time.Hour),
		Status:             model.SubscriptionStatusActive,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithExpiry 设置到期时间
func WithExpiry(expiry time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.SubscriptionExpiry = expiry
	}
}

// WithStatus 设置订阅状态
func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
		s.Expired = status == model.SubscriptionStatusExpired
	}
}

// TestAccount 创建测试收款账户
func TestAccount(t *testing.T, db *gorm.DB, userID string, opts ...func(*model.PayableAccount)) *model.PayableAccount {
	t.Helper()

	account := &model.PayableAccount{
		UserID:           userID,
		Email:            fmt.Sprintf("%s@example.com", userID),
		Country:          "FR",
		AccountID:        fmt.Sprintf("acct_fixture_%d", time.Now().UnixNano()),
		OnboardingStatus: model.OnboardingStatusLinkIssued,
	}

	for _, opt := range opts {
		opt(account)
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return account
}

// WithCountry 设置国家
func WithCountry(country string) func(*model.PayableAccount) {
	return func(a *model.PayableAccount) {
		a.Country = country
	}
}

// WithAccountID 设置处理方账户 ID
func WithAccountID(accountID string) func(*model.PayableAccount) {
	return func(a *model.PayableAccount) {
		a.AccountID = accountID
	}
}

// WithOnboardingStatus 设置入驻状态
func WithOnboardingStatus(status string) func(*model.PayableAccount) {
	return func(a *model.PayableAccount) {
		a.OnboardingStatus = status
	}
}
