package payments

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway implements Gateway over the official Stripe SDK client.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway wraps an initialised SDK client.
func NewStripeGateway(api *client.API) *StripeGateway {
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("payment intent の作成に失敗: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

// ChargeCurrency は チャージの実際の決済通貨を返す。
// メタデータに申告された通貨ではなく、こちらを送金に使う。
func (g *StripeGateway) ChargeCurrency(ctx context.Context, chargeID string) (string, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx
	ch, err := g.api.Charges.Get(chargeID, params)
	if err != nil {
		return "", fmt.Errorf("チャージ %s の取得に失敗: %w", chargeID, err)
	}
	return string(ch.Currency), nil
}

func (g *StripeGateway) Transfer(ctx context.Context, amount int64, currency, destination, transferGroup string) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(currency),
		Destination: stripe.String(destination),
	}
	params.Context = ctx
	if transferGroup != "" {
		params.TransferGroup = stripe.String(transferGroup)
	}

	tr, err := g.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("送金の作成に失敗 (destination=%s): %w", destination, err)
	}
	return tr.ID, nil
}
