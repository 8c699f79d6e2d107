package payment

import (
	"context"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeGateway 基于 stripe client.API 的 Gateway 实现，不使用 SDK 全局 Key
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway backends 为 nil 时使用默认的 Stripe 地址
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends)}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
	}
	params.Context = ctx

	if len(req.PaymentMethodTypes) > 0 {
		params.PaymentMethodTypes = stripe.StringSlice(req.PaymentMethodTypes)
	} else if req.AutomaticPaymentMethods {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		}
	}

	if req.OnBehalfOf != "" {
		params.OnBehalfOf = stripe.String(req.OnBehalfOf)
	}
	if req.Destination != "" {
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.Destination),
		}
		params.ApplicationFeeAmount = stripe.Int64(req.ApplicationFee)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

func (g *StripeGateway) CancelPaymentIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	_, err := g.api.PaymentIntents.Cancel(id, params)
	return err
}

func (g *StripeGateway) CreateAccount(ctx context.Context, req *AccountRequest) (*stripe.Account, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(req.Type),
		Country: stripe.String(req.Country),
		Email:   stripe.String(req.Email),
	}
	params.Context = ctx

	if req.BusinessType != "" {
		params.BusinessType = stripe.String(req.BusinessType)
	}
	if len(req.Capabilities) > 0 {
		caps := &stripe.AccountCapabilitiesParams{}
		for _, c := range req.Capabilities {
			switch c {
			case CapabilityTransfers:
				caps.Transfers = &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)}
			case CapabilityCardPayments:
				caps.CardPayments = &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)}
			}
		}
		params.Capabilities = caps
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	return g.api.Accounts.New(params)
}

func (g *StripeGateway) CreateAccountLink(ctx context.Context, req *LinkRequest) (*stripe.AccountLink, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(req.AccountID),
		RefreshURL: stripe.String(req.RefreshURL),
		ReturnURL:  stripe.String(req.ReturnURL),
		Type:       stripe.String(req.Type),
	}
	params.Context = ctx

	return g.api.AccountLinks.New(params)
}

func (g *StripeGateway) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	return g.api.Accounts.GetByID(accountID, params)
}

func (g *StripeGateway) GetBalance(ctx context.Context, accountID string) (*stripe.Balance, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx
	params.SetStripeAccount(accountID)

	return g.api.Balance.Get(params)
}
