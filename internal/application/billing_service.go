package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PaymentGateway is the port to the external charge-authorization service.
type PaymentGateway interface {
	// Authorize requests a client-usable authorization handle for the
	// given subunit amount.
	Authorize(ctx context.Context, amountCents int64, currency string) (string, error)
}

// CartItem is one priced entry in a checkout cart.
type CartItem struct {
	ClassID string  `json:"class_id"`
	Price   float64 `json:"price"`
}

// Quote is a prepared charge: the gateway handle plus the amount in both
// subunits and major units.
type Quote struct {
	ClientSecret string  `json:"client_secret"`
	AmountCents  int64   `json:"amount_cents"`
	Amount       float64 `json:"amount"`
}

// BillingService computes a charge from a cart and prepares it with the
// payment gateway. The sum is pure; the gateway call is the only I/O.
type BillingService struct {
	Gateway  PaymentGateway
	Currency string
	Logger   *logrus.Logger
}

func NewBillingService(gateway PaymentGateway, currency string, logger *logrus.Logger) *BillingService {
	return &BillingService{Gateway: gateway, Currency: currency, Logger: logger}
}

// ComputeAmountCents sums the cart prices and rounds to the nearest cent.
// Totals of zero or less are rejected before any external call.
func ComputeAmountCents(items []CartItem) (int64, error) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price))
	}
	cents := total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// QuoteCharge converts the cart into a gateway authorization. Gateway
// failures are surfaced, not retried; the caller may retry the whole quote.
func (s *BillingService) QuoteCharge(ctx context.Context, items []CartItem) (*Quote, error) {
	cents, err := ComputeAmountCents(items)
	if err != nil {
		return nil, err
	}

	secret, err := s.Gateway.Authorize(ctx, cents, s.Currency)
	if err != nil {
		s.Logger.WithError(err).WithField("amount_cents", cents).Error("gateway authorization failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	amount, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return &Quote{ClientSecret: secret, AmountCents: cents, Amount: amount}, nil
}
