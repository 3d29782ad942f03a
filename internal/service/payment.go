package service

import (
	"context"
	"errors"
	"fmt"

	"fixo-backend/internal/config"
	"fixo-backend/internal/logger"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrPaymentsDisabled = errors.New("online payments are not configured")

// stripePayments creates hosted Stripe Checkout sessions. Amounts are
// stored in whole currency units and converted to the smallest unit on
// the way out.
type stripePayments struct {
	api *client.API
	cfg config.StripeConfig
}

func NewStripePayments(cfg config.StripeConfig) PaymentProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripePayments{api: api, cfg: cfg}
}

func (p *stripePayments) CreateCheckoutSession(ctx context.Context, bookingID string, amount int64, serviceName string) (string, string, error) {
	if p.cfg.SecretKey == "" {
		return "", "", ErrPaymentsDisabled
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(serviceName),
					},
					UnitAmount: stripe.Int64(amount * 100),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.cfg.SuccessURL),
		CancelURL:  stripe.String(p.cfg.CancelURL),
	}
	params.AddMetadata("booking_id", bookingID)
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	logger.Info("Checkout session created", "booking_id", bookingID, "session_id", sess.ID)
	return sess.ID, sess.URL, nil
}
