package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/clients/payments"
	"github.com/OwaisIslam/living-real/internal/data/repos"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

const (
	CheckoutProductName = "Monthly Rent"
	DefaultCurrency     = "usd"
)

type CheckoutSession struct {
	Session string `json:"session"`
}

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, originURL string, propertyID uuid.UUID) (*CheckoutSession, error)
}

type checkoutService struct {
	log          *logger.Logger
	propertyRepo repos.PropertyRepo
	processor    payments.Processor
	gate         AuthorizationGate
	metrics      *observability.Metrics
	currency     string
	fallbackURL  string
}

func NewCheckoutService(
	log *logger.Logger,
	propertyRepo repos.PropertyRepo,
	processor payments.Processor,
	gate AuthorizationGate,
	metrics *observability.Metrics,
	currency string,
	fallbackURL string,
) CheckoutService {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return &checkoutService{
		log:          log.With("service", "CheckoutService"),
		propertyRepo: propertyRepo,
		processor:    processor,
		gate:         gate,
		metrics:      metrics,
		currency:     currency,
		fallbackURL:  strings.TrimSpace(fallbackURL),
	}
}

func (cs *checkoutService) CreateCheckoutSession(ctx context.Context, originURL string, propertyID uuid.UUID) (*CheckoutSession, error) {
	if _, err := cs.gate.Authorize(ctx, OpCreateCheckoutSession, propertyID); err != nil {
		return nil, err
	}

	found, err := cs.propertyRepo.GetByIDs(dbctx.Of(ctx), []uuid.UUID{propertyID})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(found) == 0 || found[0] == nil {
		cs.metrics.IncCheckout("invalid")
		return nil, apierr.NotFound("property %s does not exist", propertyID)
	}

	origin, err := NormalizeOrigin(originURL)
	if err != nil && cs.fallbackURL != "" {
		origin, err = NormalizeOrigin(cs.fallbackURL)
	}
	if err != nil {
		cs.metrics.IncCheckout("invalid")
		return nil, apierr.Validation("origin: %s", err.Error())
	}
	amount, err := RentMinorUnits(found[0].Rent)
	if err != nil {
		cs.metrics.IncCheckout("invalid")
		return nil, apierr.Validation("rent: %s", err.Error())
	}
	if cs.processor == nil {
		return nil, cs.gatewayFailure("config", errors.New("payment processor not configured"))
	}

	productID, err := cs.processor.CreateProduct(ctx, CheckoutProductName)
	if err != nil {
		return nil, cs.gatewayFailure("product", err)
	}
	priceID, err := cs.processor.CreatePrice(ctx, productID, amount, cs.currency)
	if err != nil {
		return nil, cs.gatewayFailure("price", err)
	}
	successURL := origin + "/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := origin + "/"
	sessionID, err := cs.processor.CreateCheckoutSession(ctx, priceID, successURL, cancelURL)
	if err != nil {
		return nil, cs.gatewayFailure("session", err)
	}

	cs.metrics.IncCheckout("ok")
	cs.log.Info("checkout session created", "property_id", propertyID.String(), "amount", amount, "currency", cs.currency)
	return &CheckoutSession{Session: sessionID}, nil
}

func (cs *checkoutService) gatewayFailure(step string, err error) error {
	cs.metrics.IncCheckout("gateway_error")
	cs.log.Warn("payment processor call failed", "step", step, "error", err)
	return apierr.PaymentGateway(err)
}

// NormalizeOrigin reduces a URL to scheme://host[:port].
func NormalizeOrigin(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errMissingOrigin
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errBadOriginScheme
	}
	if u.Host == "" {
		return "", errMissingOrigin
	}
	return u.Scheme + "://" + u.Host, nil
}
