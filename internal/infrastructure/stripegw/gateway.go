// Package stripegw implements the payment gateway port using the official
// Stripe SDK.
package stripegw

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Gateway authorizes card charges by creating Stripe payment intents. It
// performs no ledger writes; it only prepares the client-side charge.
type Gateway struct {
	api *client.API
}

func NewGateway(secretKey string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{api: api}
}

// Authorize creates a payment intent for the given subunit amount and
// returns its client secret. Gateway failures are returned as-is; the
// caller decides whether to retry the whole quote.
func (g *Gateway) Authorize(ctx context.Context, amountCents int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
