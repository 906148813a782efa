package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

// Processor is the hosted-checkout port. Each call is one blocking round trip
// to the processor; nothing is retried.
type Processor interface {
	CreateProduct(ctx context.Context, name string) (string, error)
	CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error)
	CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string) (string, error)
}

type StripeConfig struct {
	SecretKey string
	// Backends overrides the API endpoint (tests).
	Backends *stripe.Backends
}

type stripeProcessor struct {
	log *logger.Logger
	sc  *client.API
}

func NewStripeProcessor(log *logger.Logger, cfg StripeConfig) (Processor, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := strings.TrimSpace(cfg.SecretKey)
	if key == "" {
		return nil, fmt.Errorf("missing stripe secret key")
	}
	return &stripeProcessor{
		log: log.With("client", "StripeProcessor"),
		sc:  client.New(key, cfg.Backends),
	}, nil
}

func (p *stripeProcessor) CreateProduct(ctx context.Context, name string) (string, error) {
	params := &stripe.ProductParams{Name: stripe.String(name)}
	params.Context = ctx
	prod, err := p.sc.Products.New(params)
	if err != nil {
		p.log.Warn("stripe create product failed", "error", err)
		return "", fmt.Errorf("create product: %w", err)
	}
	return prod.ID, nil
}

func (p *stripeProcessor) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(unitAmount),
		Currency:   stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	price, err := p.sc.Prices.New(params)
	if err != nil {
		p.log.Warn("stripe create price failed", "error", err)
		return "", fmt.Errorf("create price: %w", err)
	}
	return price.ID, nil
}

func (p *stripeProcessor) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	sess, err := p.sc.CheckoutSessions.New(params)
	if err != nil {
		p.log.Warn("stripe create checkout session failed", "error", err)
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.ID, nil
}
