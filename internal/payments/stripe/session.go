// Package stripe integrates the Stripe hosted checkout flow.
package stripe

import (
	"context"
	"fmt"

	"staybook/pkg/logger"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// Session is the subset of a provider checkout session the payment flow
// needs: where to send the user and how to recognize the callback.
type Session struct {
	ID  string
	URL string
}

// SessionProvider creates hosted checkout sessions.
type SessionProvider interface {
	CreateSession(ctx context.Context, bookingID string, amount float64) (*Session, error)
}

type CheckoutProvider struct {
	domainURL string
	log       *logger.Logger
}

// NewCheckoutProvider configures the global Stripe client. domainURL is the
// public base URL Stripe redirects back to after checkout.
func NewCheckoutProvider(secretKey, domainURL string, log *logger.Logger) *CheckoutProvider {
	stripeapi.Key = secretKey
	return &CheckoutProvider{
		domainURL: domainURL,
		log:       log,
	}
}

func (p *CheckoutProvider) CreateSession(ctx context.Context, bookingID string, amount float64) (*Session, error) {
	params := &stripeapi.CheckoutSessionParams{
		Params: stripeapi.Params{Context: ctx},
		Mode:   stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(string(stripeapi.CurrencyUSD)),
					// Stripe amounts are integer cents.
					UnitAmount: stripeapi.Int64(int64(amount * 100)),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String("Booking " + bookingID),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		SuccessURL: stripeapi.String(p.domainURL + "/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(p.domainURL + "/api/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}"),
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	p.log.Info("Checkout session created", "booking_id", bookingID, "session_id", s.ID)
	return &Session{ID: s.ID, URL: s.URL}, nil
}
