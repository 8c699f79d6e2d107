package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/beautyconnect/pay_go_server/config"
	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/payment"
	"github.com/beautyconnect/pay_go_server/internal/pkg/pubsub"
)

// ApplicationFee 按基点计算平台抽成，四舍五入（half-up）
func ApplicationFee(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}

// ChargeRequest 已校验的分账支付
type ChargeRequest struct {
	Amount    int64
	Currency  string
	AccountID string
}

type PaymentService struct {
	gateway   payment.Gateway
	publisher *pubsub.Publisher
	cfg       *config.Config
	logger    *slog.Logger
}

func NewPaymentService(
	gateway payment.Gateway,
	publisher *pubsub.Publisher,
	cfg *config.Config,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// ParseCharge 校验金额范围，币种和商家账户格式已由 binding 校验
func (s *PaymentService) ParseCharge(req *dto.SendPaymentRequest) (*ChargeRequest, error) {
	amount, err := req.Amount.Int64()
	if err != nil || amount < 1 || amount > s.cfg.Payment.MaxAmount {
		return nil, ErrInvalidAmount
	}

	return &ChargeRequest{Amount: amount, Currency: req.Currency, AccountID: req.AccountID}, nil
}

// Charge 创建代商家收款的支付，平台抽成作为 application fee
func (s *PaymentService) Charge(ctx context.Context, req *dto.SendPaymentRequest, clientKey string) (*dto.SendPaymentResponse, error) {
	charge, err := s.ParseCharge(req)
	if err != nil {
		return nil, err
	}

	// 没有客户端幂等键时每次请求都是新的支付
	nonce := clientKey
	if nonce == "" {
		nonce = uuid.NewString()
	}

	fee := ApplicationFee(charge.Amount, s.cfg.Payment.PlatformFeeBps)
	intent, err := s.gateway.CreatePaymentIntent(ctx, &payment.IntentRequest{
		Amount:                  charge.Amount,
		Currency:                charge.Currency,
		AutomaticPaymentMethods: true,
		OnBehalfOf:              charge.AccountID,
		Destination:             charge.AccountID,
		ApplicationFee:          fee,
		IdempotencyKey: idempotencyKey(
			charge.AccountID,
			strconv.FormatInt(charge.Amount, 10),
			charge.Currency,
			nonce,
		),
	})
	if err != nil {
		return nil, processorErr("create_payment_intent", err)
	}

	if err := s.publisher.Publish(ctx, &pubsub.Event{
		Type:      pubsub.EventSplitPaymentCreated,
		AccountID: charge.AccountID,
		IntentID:  intent.ID,
		Amount:    charge.Amount,
		Fee:       fee,
		Currency:  charge.Currency,
	}); err != nil {
		s.logger.Warn("failed to publish event", "type", pubsub.EventSplitPaymentCreated, "error", err)
	}

	return &dto.SendPaymentResponse{ClientSecret: intent.ClientSecret}, nil
}
