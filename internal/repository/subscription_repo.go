package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beautyconnect/pay_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert 按 user_id 写入订阅，已存在则整行覆盖
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_id",
			"subscription_expiry",
			"expired",
			"status",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ExpireDue 将已过期的有效订阅标记为 expired，返回更新行数
func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("status = ? AND subscription_expiry < ?", model.SubscriptionStatusActive, now).
		Updates(map[string]interface{}{
			"status":     model.SubscriptionStatusExpired,
			"expired":    true,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// CountDue 统计待过期的订阅数
func (r *SubscriptionRepository) CountDue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("status = ? AND subscription_expiry < ?", model.SubscriptionStatusActive, now).
		Count(&count).Error
	return count, err
}
