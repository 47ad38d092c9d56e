// Package payments authorizes checkout payments through Stripe. The order
// itself never depends on the outcome; a failed authorization leaves the
// order as an unpaid draft.
package payments

import (
	"context"
	"fmt"
	"math"
	"strings"

	stripe "github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
)

type StripeProcessor struct {
	apiKey string
}

func NewStripeProcessor(apiKey string) *StripeProcessor {
	return &StripeProcessor{apiKey: strings.TrimSpace(apiKey)}
}

// Enabled reports whether a key is configured; callers skip the hook
// entirely when it is not.
func (p *StripeProcessor) Enabled() bool {
	return p != nil && p.apiKey != ""
}

// Authorize creates a PaymentIntent for the order total and returns its id
// as the payment reference.
func (p *StripeProcessor) Authorize(ctx context.Context, amount float64, currency, orderNumber, customerEmail string) (string, error) {
	if !p.Enabled() {
		return "", fmt.Errorf("stripe is not configured")
	}
	if amount <= 0 {
		return "", fmt.Errorf("invalid payment amount %.2f", amount)
	}

	stripe.Key = p.apiKey
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(int64(math.Round(amount * 100))),
		Currency:     stripe.String(currency),
		ReceiptEmail: stripe.String(customerEmail),
		Description:  stripe.String(fmt.Sprintf("Order %s", orderNumber)),
	}
	params.Context = ctx
	params.AddMetadata("order_number", orderNumber)

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ID, nil
}
