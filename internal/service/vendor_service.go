package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/beautyconnect/pay_go_server/config"
	"github.com/beautyconnect/pay_go_server/internal/model"
	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/payment"
	"github.com/beautyconnect/pay_go_server/internal/pkg/pubsub"
	"github.com/beautyconnect/pay_go_server/internal/repository"
)

type VendorService struct {
	accountRepo *repository.AccountRepository
	gateway     payment.Gateway
	publisher   *pubsub.Publisher
	cfg         *config.Config
	logger      *slog.Logger
	now         func() time.Time
}

func NewVendorService(
	accountRepo *repository.AccountRepository,
	gateway payment.Gateway,
	publisher *pubsub.Publisher,
	cfg *config.Config,
	logger *slog.Logger,
) *VendorService {
	return &VendorService{
		accountRepo: accountRepo,
		gateway:     gateway,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Onboard 为商家开通收款账户并生成入驻链接
//
// 同一用户再次入驻且国家不变时复用已有账户，只重新签发链接；
// 国家变化时处理方账户不可修改，创建新账户并覆盖记录。
func (s *VendorService) Onboard(ctx context.Context, req *dto.CreateVendorRequest, clientKey string) (*dto.CreateVendorResponse, error) {
	userID, email, country := req.UserID, req.Email, req.Country

	existing, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceErr(err)
	}

	account := &model.PayableAccount{
		UserID:  userID,
		Email:   email,
		Country: country,
	}

	if existing != nil && existing.Country == country && existing.AccountID != "" {
		// 处理方账户的邮箱由商家在入驻页面维护，这里沿用创建时的邮箱
		account.Email = existing.Email
		account.AccountID = existing.AccountID
		account.OnboardingStatus = existing.OnboardingStatus
	} else {
		if clientKey == "" {
			clientKey = s.now().Format("2006-01-02")
		}
		created, err := s.gateway.CreateAccount(ctx, &payment.AccountRequest{
			Type:           payment.AccountTypeStandard,
			Country:        country,
			Email:          email,
			BusinessType:   payment.BusinessTypeIndividual,
			Capabilities:   []string{payment.CapabilityTransfers, payment.CapabilityCardPayments},
			Metadata:       map[string]string{"user_id": userID},
			IdempotencyKey: idempotencyKey(userID, "vendor_account", country, clientKey),
		})
		if err != nil {
			return nil, processorErr("create_account", err)
		}

		account.AccountID = created.ID
		account.OnboardingStatus = model.OnboardingStatusCreated
		if err := s.accountRepo.Upsert(ctx, account); err != nil {
			return nil, persistenceErr(err)
		}
	}

	link, err := s.gateway.CreateAccountLink(ctx, &payment.LinkRequest{
		AccountID:  account.AccountID,
		RefreshURL: s.cfg.Stripe.RefreshURL,
		ReturnURL:  s.cfg.Stripe.ReturnURL,
		Type:       payment.LinkTypeAccountOnboarding,
	})
	if err != nil {
		return nil, processorErr("create_account_link", err)
	}

	// 已完成入驻的账户不回退状态
	if account.OnboardingStatus != model.OnboardingStatusCompleted {
		account.OnboardingStatus = model.OnboardingStatusLinkIssued
	}
	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, persistenceErr(err)
	}

	s.publish(ctx, &pubsub.Event{
		Type:      pubsub.EventVendorOnboarded,
		UserID:    userID,
		AccountID: account.AccountID,
		Attributes: map[string]string{
			"country":           country,
			"onboarding_status": account.OnboardingStatus,
		},
	})

	return &dto.CreateVendorResponse{
		StripeAccountID: account.AccountID,
		OnboardingURL:   link.URL,
	}, nil
}

// SyncStatus 从处理方拉取账户状态，资料提交且可收款时标记为 completed
func (s *VendorService) SyncStatus(ctx context.Context, userID string) (*model.PayableAccount, error) {
	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendorNotFound
	}
	if err != nil {
		return nil, persistenceErr(err)
	}

	remote, err := s.gateway.GetAccount(ctx, account.AccountID)
	if err != nil {
		return nil, processorErr("get_account", err)
	}

	if remote.DetailsSubmitted && remote.ChargesEnabled && account.OnboardingStatus != model.OnboardingStatusCompleted {
		if err := s.accountRepo.UpdateStatus(ctx, userID, model.OnboardingStatusCompleted); err != nil {
			return nil, persistenceErr(err)
		}
		account.OnboardingStatus = model.OnboardingStatusCompleted
	}

	s.publish(ctx, &pubsub.Event{
		Type:      pubsub.EventVendorSynced,
		UserID:    userID,
		AccountID: account.AccountID,
		Attributes: map[string]string{
			"onboarding_status": account.OnboardingStatus,
		},
	})

	return account, nil
}

func (s *VendorService) publish(ctx context.Context, evt *pubsub.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish event", "type", evt.Type, "error", err)
	}
}
