package model

import (
	"time"
)

// 入驻状态，按顺序推进
const (
	OnboardingStatusCreated    = "created"
	OnboardingStatusLinkIssued = "link_issued"
	OnboardingStatusCompleted  = "completed"
)

// PayableAccount 商家在支付处理方的收款账户
type PayableAccount struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	UserID           string    `gorm:"size:64;uniqueIndex;not null" json:"user_id"`
	Email            string    `gorm:"size:255;not null" json:"email"`
	Country          string    `gorm:"size:2;not null" json:"country"`
	AccountID        string    `gorm:"size:255;not null;index" json:"account_id"`
	OnboardingStatus string    `gorm:"size:20;not null" json:"onboarding_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PayableAccount) TableName() string {
	return "accounts"
}
