package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/beautyconnect/pay_go_server/config"
	"github.com/beautyconnect/pay_go_server/internal/model"
	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/payment"
	"github.com/beautyconnect/pay_go_server/internal/pkg/pubsub"
	"github.com/beautyconnect/pay_go_server/internal/repository"
)

type SubscriptionService struct {
	subRepo   *repository.SubscriptionRepository
	gateway   payment.Gateway
	publisher *pubsub.Publisher
	cfg       *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	gateway payment.Gateway,
	publisher *pubsub.Publisher,
	cfg *config.Config,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   subRepo,
		gateway:   gateway,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock 替换时钟，测试用
func (s *SubscriptionService) SetClock(now func() time.Time) {
	s.now = now
}

// Purchase 为用户创建订阅支付并写入订阅记录，userID 由 handler 校验
func (s *SubscriptionService) Purchase(ctx context.Context, userID, clientKey string) (*dto.BuySubscriptionResponse, error) {
	now := s.now()
	day := now.Format("2006-01-02")

	// 没有客户端幂等键时每次请求都是新的支付
	nonce := clientKey
	if nonce == "" {
		nonce = uuid.NewString()
	}

	intent, err := s.createIntent(ctx, userID, idempotencyKey(userID, "subscription", day, nonce))
	if err != nil {
		return nil, processorErr("create_payment_intent", err)
	}
	// 客户端重试了一次落库失败的请求，原支付已被取消，换新键重新创建
	if intent.Status == payment.IntentStatusCanceled {
		s.logger.Info("idempotent replay returned canceled intent, creating a new one",
			"user_id", userID,
			"intent_id", intent.ID,
		)
		intent, err = s.createIntent(ctx, userID, idempotencyKey(userID, "subscription", day, nonce, uuid.NewString()))
		if err != nil {
			return nil, processorErr("create_payment_intent", err)
		}
	}

	sub := &model.Subscription{
		UserID:             userID,
		SubscriptionID:     intent.ID,
		SubscriptionExpiry: now.Add(s.cfg.Subscription.Period()),
		Expired:            false,
		Status:             model.SubscriptionStatusActive,
	}
	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		s.cancelIntent(intent.ID)
		return nil, persistenceErr(err)
	}

	// 冲突更新时 sub 中的 ID 和 created_at 不可靠，重新读取
	stored, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceErr(err)
	}

	s.publish(ctx, &pubsub.Event{
		Type:     pubsub.EventSubscriptionPurchased,
		UserID:   userID,
		IntentID: intent.ID,
		Amount:   s.cfg.Subscription.Amount,
		Currency: s.cfg.Subscription.Currency,
	})

	return &dto.BuySubscriptionResponse{
		ClientSecret: intent.ClientSecret,
		Subscription: stored,
	}, nil
}

func (s *SubscriptionService) createIntent(ctx context.Context, userID, key string) (*payment.Intent, error) {
	return s.gateway.CreatePaymentIntent(ctx, &payment.IntentRequest{
		Amount:             s.cfg.Subscription.Amount,
		Currency:           s.cfg.Subscription.Currency,
		PaymentMethodTypes: s.cfg.Subscription.PaymentMethodTypes,
		Metadata:           map[string]string{"user_id": userID},
		IdempotencyKey:     key,
	})
}

// cancelIntent 尽力取消，不覆盖原始错误
func (s *SubscriptionService) cancelIntent(intentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.gateway.CancelPaymentIntent(ctx, intentID); err != nil {
		s.logger.Error("failed to cancel orphaned payment intent",
			"intent_id", intentID,
			"error", err,
		)
	}
}

// ExpireSweep 将到期的有效订阅标记为 expired，可重复执行
func (s *SubscriptionService) ExpireSweep(ctx context.Context) (int64, error) {
	n, err := s.subRepo.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, persistenceErr(err)
	}

	if n > 0 {
		s.publish(ctx, &pubsub.Event{
			Type:  pubsub.EventSubscriptionExpired,
			Count: n,
		})
	}
	return n, nil
}

// CountDue 统计本次扫描会过期的订阅数
func (s *SubscriptionService) CountDue(ctx context.Context) (int64, error) {
	n, err := s.subRepo.CountDue(ctx, s.now())
	if err != nil {
		return 0, persistenceErr(err)
	}
	return n, nil
}

func (s *SubscriptionService) publish(ctx context.Context, evt *pubsub.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish event", "type", evt.Type, "error", err)
	}
}
