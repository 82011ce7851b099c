// Package currency resolves a purchaser's billing currency from weak
// geolocation signals (country code or IANA timezone) against the set of
// currencies the payment gateway can settle.
package currency

import "strings"

// DefaultCurrency is returned whenever a signal cannot be resolved to a
// gateway-supported currency.
const DefaultCurrency = "USD"

// Signal carries the geolocation hints available at checkout time. Both
// fields are optional; either may be garbage.
type Signal struct {
	CountryCode string
	Timezone    string
}

// Resolver maps geolocation signals to a supported currency code.
type Resolver struct {
	allowlist map[string]struct{}
}

// Option customizes resolver construction.
type Option func(*Resolver)

// WithAllowlist overrides the gateway-supported currency set.
func WithAllowlist(codes []string) Option {
	return func(r *Resolver) {
		allow := make(map[string]struct{}, len(codes))
		for _, code := range codes {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			allow[code] = struct{}{}
		}
		r.allowlist = allow
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{allowlist: gatewayCurrencies}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps the signal to a currency code. It never fails: any unknown or
// malformed input yields DefaultCurrency.
func (r *Resolver) Resolve(sig Signal) string {
	country := strings.ToUpper(strings.TrimSpace(sig.CountryCode))
	if country == "" {
		country = countryByTimezone[strings.TrimSpace(sig.Timezone)]
	}
	if country == "" {
		return DefaultCurrency
	}

	code, ok := currencyByCountry[country]
	if !ok {
		return DefaultCurrency
	}
	if !r.Supported(code) {
		return DefaultCurrency
	}
	return code
}

// Supported reports whether the gateway can settle the given currency.
func (r *Resolver) Supported(code string) bool {
	_, ok := r.allowlist[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
