package model

import (
	"time"
)

const (
	SubscriptionStatusActive  = "Active"
	SubscriptionStatusExpired = "expired"
)

// Subscription 用户的平台订阅，每个用户只有一行
type Subscription struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	UserID             string    `gorm:"size:64;uniqueIndex;not null" json:"user_id"`
	SubscriptionID     string    `gorm:"size:255;not null" json:"subscription_id"` // 支付处理方的 payment intent ID
	SubscriptionExpiry time.Time `gorm:"not null;index" json:"subscription_expiry"`
	Expired            bool      `gorm:"not null" json:"expired"`
	Status             string    `gorm:"size:20;not null;index" json:"status"` // Active, expired
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
