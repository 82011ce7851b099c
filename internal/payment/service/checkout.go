package service

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/lodgerhq/lodger/internal/currency"
	"github.com/lodgerhq/lodger/internal/gateway/flutterwave"
	licensedomain "github.com/lodgerhq/lodger/internal/license/domain"
	"github.com/lodgerhq/lodger/internal/payment/domain"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
	"github.com/lodgerhq/lodger/internal/txref"
)

// InitiateCheckout resolves the billing currency, converts the plan's USD
// list price, creates the hosted checkout and records a PENDING license.
func (s *Service) InitiateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	if strings.TrimSpace(s.cfg.Gateway.SecretKey) == "" {
		return nil, domain.ErrGatewayNotConfigured
	}

	plan, err := s.plans.FindByID(ctx, s.db, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, plandomain.ErrNotFound
	}

	usdPrice, billingPeriod, ok := plan.USDPrice()
	if !ok {
		return nil, plandomain.ErrNoPricing
	}

	cur := s.pickCurrency(req)
	amount := usdPrice
	if cur != currency.DefaultCurrency {
		quote := s.rates.GetRate(ctx, cur)
		if quote.FallbackIdentity {
			// no real rate; charge the USD list price rather than
			// misquote a 1:1 conversion
			s.log.Warn("no exchange rate available, charging USD",
				zap.String("currency", cur), zap.String("plan_id", plan.ID))
			cur = currency.DefaultCurrency
		} else {
			amount = round2(usdPrice * quote.Rate)
		}
	}

	ref := txref.Encode(plan.ID, s.clock.Now())
	metadata := map[string]any{
		"planId":           plan.ID,
		"planName":         plan.Name,
		"originalUsdPrice": usdPrice,
		"billingPeriod":    billingPeriod,
	}

	link, err := s.gateway.CreatePaymentLink(ctx, flutterwave.CheckoutRequest{
		TxRef:       ref,
		Amount:      amount,
		Currency:    cur,
		RedirectURL: s.cfg.Gateway.RedirectURL,
		Customer:    flutterwave.Customer{Email: strings.TrimSpace(req.Email)},
		Meta:        metadata,
	})
	if err != nil {
		return nil, err
	}

	// record the PENDING row only once the gateway accepted the checkout,
	// so a failed attempt leaves nothing for verification to find
	license := &licensedomain.License{
		PlanID:        plan.ID,
		BillingPeriod: &billingPeriod,
		Metadata:      datatypes.JSONMap(metadata),
	}
	if err := s.licenses.Create(ctx, license); err != nil {
		return nil, err
	}

	s.metrics.RecordCheckoutCreated(ctx, cur)
	s.log.Info("checkout created",
		zap.String("plan_id", plan.ID),
		zap.String("currency", cur),
		zap.Float64("amount", amount),
		zap.Int64("license_id", int64(license.ID)),
	)
	return &domain.CheckoutResponse{PaymentLink: link}, nil
}

// pickCurrency honors an explicitly requested, gateway-supported currency
// and otherwise resolves from the geo signals.
func (s *Service) pickCurrency(req domain.CheckoutRequest) string {
	requested := strings.ToUpper(strings.TrimSpace(req.Currency))
	if requested != "" && s.resolver.Supported(requested) {
		return requested
	}
	return s.resolver.Resolve(currency.Signal{
		CountryCode: req.CountryCode,
		Timezone:    req.Timezone,
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
