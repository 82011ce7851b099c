// Package exchange resolves USD→target exchange rates through an ordered
// chain of upstream providers, degrading to an identity quote when every
// provider fails.
package exchange

import "context"

// Quote is the result of a rate lookup. When FallbackIdentity is set the
// rate is not real: no provider could quote the pair and callers should
// prefer showing USD amounts over converting with it.
type Quote struct {
	Rate             float64 `json:"rate"`
	Source           string  `json:"source"`
	FallbackIdentity bool    `json:"isFallbackIdentity"`
}

// Provider quotes the conversion of one USD into the target currency. A
// provider makes exactly one attempt; retries and ordering are the chain's
// concern.
type Provider interface {
	Name() string
	Rate(ctx context.Context, to string) (float64, error)
}
