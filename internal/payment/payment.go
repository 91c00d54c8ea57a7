// Package payment wraps the three payment provider integrations behind one
// interface. Each provider is an opaque pair of backend endpoints — create a
// provider session for an order, then verify the provider's callback result.
// The provider's own client-side step (a redirect or a rendered button) is
// completed by the caller between the two.
package payment

import (
	"context"
	"fmt"
)

// Session is what the backend returns when a provider session is created for
// an order. Which fields are populated depends on the provider flow.
type Session struct {
	Provider  string  `json:"provider"`
	OrderID   string  `json:"orderId"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	// RedirectURL is set for wallet-redirect flows.
	RedirectURL string `json:"redirectUrl,omitempty"`
	// ClientParams carries parameters for SDK-rendered button flows.
	ClientParams map[string]string `json:"clientParams,omitempty"`
}

// Result is the provider callback outcome handed back for verification.
type Result struct {
	Reference string `json:"reference"`
	// PaymentID and Signature are set by the card/UPI gateway flow.
	PaymentID string `json:"paymentId,omitempty"`
	Signature string `json:"signature,omitempty"`
	// CaptureID is set by the international card processor flow.
	CaptureID string `json:"captureId,omitempty"`
	// Status is set by the wallet-redirect flow.
	Status string `json:"status,omitempty"`
}

// Provider is one payment integration.
type Provider interface {
	// Name is the storefront's method identifier for the provider.
	Name() string
	// CreateSession asks the backend to open a provider session for the
	// order. The receipt string lets the backend correlate the session with
	// the later verification call.
	CreateSession(ctx context.Context, orderID string, amount float64, receipt string) (Session, error)
	// Verify asks the backend to confirm the provider callback result.
	// A nil return means the payment is confirmed paid.
	Verify(ctx context.Context, orderID string, result Result) error
}

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	reg := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		reg.providers[p.Name()] = p
	}
	return reg
}

// Get returns the provider for a payment method name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("payment: unsupported payment method %q", name)
	}
	return p, nil
}

// Names lists the configured provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
