package service

import (
	"context"

	"github.com/stripe/stripe-go/v78"
	"golang.org/x/sync/errgroup"

	"github.com/beautyconnect/pay_go_server/internal/model/dto"
	"github.com/beautyconnect/pay_go_server/internal/pkg/payment"
)

// MerchantService 只读聚合商家账户和余额
type MerchantService struct {
	gateway payment.Gateway
}

func NewMerchantService(gateway payment.Gateway) *MerchantService {
	return &MerchantService{gateway: gateway}
}

// Fetch 并发获取账户详情和余额
func (s *MerchantService) Fetch(ctx context.Context, accountID string) (*dto.MerchantInfo, error) {
	var (
		account *stripe.Account
		balance *stripe.Balance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.gateway.GetAccount(gctx, accountID)
		if err != nil {
			return processorErr("get_account", err)
		}
		account = a
		return nil
	})
	g.Go(func() error {
		b, err := s.gateway.GetBalance(gctx, accountID)
		if err != nil {
			return processorErr("get_balance", err)
		}
		balance = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return toMerchantInfo(account, balance), nil
}

func toMerchantInfo(account *stripe.Account, balance *stripe.Balance) *dto.MerchantInfo {
	info := &dto.MerchantInfo{
		ID:             account.ID,
		Email:          account.Email,
		BusinessType:   string(account.BusinessType),
		Country:        account.Country,
		PayoutsEnabled: account.PayoutsEnabled,
		ChargesEnabled: account.ChargesEnabled,
		Capabilities:   account.Capabilities,
		Requirements:   account.Requirements,
		Company:        account.Company,
		Individual:     account.Individual,
		Balance: dto.Balance{
			Available: toAmounts(balance.Available),
			Pending:   toAmounts(balance.Pending),
			Livemode:  balance.Livemode,
		},
	}
	return info
}

// toAmounts 空余额输出 [] 而不是 null
func toAmounts(in []*stripe.Amount) []dto.Amount {
	out := make([]dto.Amount, 0, len(in))
	for _, a := range in {
		if a == nil {
			continue
		}
		out = append(out, dto.Amount{Amount: a.Amount, Currency: string(a.Currency)})
	}
	return out
}
