package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beautyconnect/pay_go_server/internal/model"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Upsert 按 user_id 写入收款账户，只保留最新的 account_id
func (r *AccountRepository) Upsert(ctx context.Context, account *model.PayableAccount) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"country",
			"account_id",
			"onboarding_status",
			"updated_at",
		}),
	}).Create(account).Error
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*model.PayableAccount, error) {
	var account model.PayableAccount
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateStatus 推进入驻状态
func (r *AccountRepository) UpdateStatus(ctx context.Context, userID, status string) error {
	return r.db.WithContext(ctx).Model(&model.PayableAccount{}).
		Where("user_id = ?", userID).
		Update("onboarding_status", status).Error
}
