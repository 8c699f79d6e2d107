package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/stripe/stripe-go/v78"

	"github.com/beautyconnect/pay_go_server/internal/pkg/payment"
)

// FakeGateway 记录调用的内存支付网关
type FakeGateway struct {
	mu sync.Mutex

	Intents      []*payment.IntentRequest
	Cancelled    []string
	Accounts     []*payment.AccountRequest
	Links        []*payment.LinkRequest
	AccountReads []string
	BalanceReads []string

	// 注入错误
	IntentErr  error
	CancelErr  error
	AccountErr error
	LinkErr    error
	GetErr     error
	BalanceErr error

	// GetAccount 返回的账户，未设置时按 ID 生成
	Account *stripe.Account
	Balance *stripe.Balance

	seq     int
	byKey   map[string]*payment.Intent
	intents map[string]*payment.Intent
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		byKey:   make(map[string]*payment.Intent),
		intents: make(map[string]*payment.Intent),
	}
}

func (g *FakeGateway) next() int {
	g.seq++
	return g.seq
}

func (g *FakeGateway) CreatePaymentIntent(_ context.Context, req *payment.IntentRequest) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Intents = append(g.Intents, req)
	if g.IntentErr != nil {
		return nil, g.IntentErr
	}

	// 与处理方一致：相同幂等键返回原来的支付
	if intent, ok := g.byKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		replay := *intent
		return &replay, nil
	}

	id := fmt.Sprintf("pi_test_%d", g.next())
	intent := &payment.Intent{ID: id, ClientSecret: id + "_secret_test", Status: "requires_payment_method"}
	g.intents[id] = intent
	if req.IdempotencyKey != "" {
		g.byKey[req.IdempotencyKey] = intent
	}

	created := *intent
	return &created, nil
}

func (g *FakeGateway) CancelPaymentIntent(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Cancelled = append(g.Cancelled, id)
	if g.CancelErr != nil {
		return g.CancelErr
	}
	if intent, ok := g.intents[id]; ok {
		intent.Status = payment.IntentStatusCanceled
	}
	return nil
}

// IntentStatus 返回支付当前状态，未知 ID 返回空串
func (g *FakeGateway) IntentStatus(id string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if intent, ok := g.intents[id]; ok {
		return intent.Status
	}
	return ""
}

func (g *FakeGateway) CreateAccount(_ context.Context, req *payment.AccountRequest) (*stripe.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Accounts = append(g.Accounts, req)
	if g.AccountErr != nil {
		return nil, g.AccountErr
	}

	return &stripe.Account{
		ID:      fmt.Sprintf("acct_test_%d", g.next()),
		Country: req.Country,
		Email:   req.Email,
		Type:    stripe.AccountType(req.Type),
	}, nil
}

func (g *FakeGateway) CreateAccountLink(_ context.Context, req *payment.LinkRequest) (*stripe.AccountLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Links = append(g.Links, req)
	if g.LinkErr != nil {
		return nil, g.LinkErr
	}

	return &stripe.AccountLink{
		URL: "https://connect.stripe.com/setup/s/" + req.AccountID,
	}, nil
}

func (g *FakeGateway) GetAccount(_ context.Context, accountID string) (*stripe.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.AccountReads = append(g.AccountReads, accountID)
	if g.GetErr != nil {
		return nil, g.GetErr
	}
	if g.Account != nil {
		return g.Account, nil
	}

	return &stripe.Account{
		ID:             accountID,
		Email:          "merchant@example.com",
		Country:        "FR",
		BusinessType:   stripe.AccountBusinessTypeIndividual,
		PayoutsEnabled: true,
		ChargesEnabled: true,
	}, nil
}

func (g *FakeGateway) GetBalance(_ context.Context, accountID string) (*stripe.Balance, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.BalanceReads = append(g.BalanceReads, accountID)
	if g.BalanceErr != nil {
		return nil, g.BalanceErr
	}
	if g.Balance != nil {
		return g.Balance, nil
	}

	return &stripe.Balance{
		Available: []*stripe.Amount{{Amount: 1200, Currency: stripe.CurrencyEUR}},
		Pending:   []*stripe.Amount{{Amount: 300, Currency: stripe.CurrencyEUR}},
	}, nil
}

// Calls 返回所有调用的总次数
func (g *FakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.Intents) + len(g.Cancelled) + len(g.Accounts) + len(g.Links) +
		len(g.AccountReads) + len(g.BalanceReads)
}
