package exchange

import (
	"context"
	"errors"
	"math"

	"github.com/lodgerhq/lodger/internal/gateway/flutterwave"
)

var (
	errNoUsableRate = errors.New("exchange: no usable rate in gateway response")
	errUnityRate    = errors.New("exchange: gateway returned unity rate for non-USD target")
)

// rateStrategy extracts a candidate rate from a gateway quote. Strategies
// are tried in order; the first positive finite value wins.
type rateStrategy func(data *flutterwave.RateData) (float64, bool)

// destinationAmount reads the destination leg directly. The quote is always
// requested for one source unit, so the destination amount is the rate.
func destinationAmount(data *flutterwave.RateData) (float64, bool) {
	if !data.Destination.Amount.Positive() {
		return 0, false
	}
	return data.Destination.Amount.Value, true
}

func explicitRate(data *flutterwave.RateData) (float64, bool) {
	if !data.Rate.Positive() {
		return 0, false
	}
	return data.Rate.Value, true
}

func legRatio(data *flutterwave.RateData) (float64, bool) {
	if !data.Source.Amount.Positive() || !data.Destination.Amount.Positive() {
		return 0, false
	}
	return data.Destination.Amount.Value / data.Source.Amount.Value, true
}

// gatewayProvider quotes through the payment gateway's own FX endpoint.
// Gateway responses vary in shape, so extraction runs through an ordered
// strategy list instead of guessing field names inline.
type gatewayProvider struct {
	client     *flutterwave.Client
	strategies []rateStrategy
}

func newGatewayProvider(client *flutterwave.Client) *gatewayProvider {
	return &gatewayProvider{
		client:     client,
		strategies: []rateStrategy{destinationAmount, explicitRate, legRatio},
	}
}

func (p *gatewayProvider) Name() string { return "gateway" }

func (p *gatewayProvider) Rate(ctx context.Context, to string) (float64, error) {
	data, err := p.client.TransferRate(ctx, 1, to)
	if err != nil {
		return 0, err
	}

	for _, strategy := range p.strategies {
		rate, ok := strategy(data)
		if !ok || !isUsable(rate) {
			continue
		}
		// a 1:1 quote for a non-USD pair means the gateway has no real
		// rate, not that the currencies trade at parity
		if rate == 1 && to != "USD" {
			return 0, errUnityRate
		}
		return rate, nil
	}
	return 0, errNoUsableRate
}

func isUsable(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}
