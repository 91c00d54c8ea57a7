package payment

import (
	"context"
	"fmt"

	"github.com/vjzest/architect-storefront/internal/api"
)

// sessionRequest is the shared create-session payload.
type sessionRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
	Receipt string  `json:"receipt"`
}

// httpProvider implements the session/verify endpoint pair shared by all
// three integrations; only the path prefix and verify payload shape differ.
type httpProvider struct {
	name   string
	path   string
	client *api.Client
}

func newHTTPProvider(name, path string, client *api.Client) (*httpProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("payment: %s: client is required", name)
	}
	return &httpProvider{name: name, path: path, client: client}, nil
}

func (p *httpProvider) Name() string { return p.name }

func (p *httpProvider) CreateSession(ctx context.Context, orderID string, amount float64, receipt string) (Session, error) {
	if orderID == "" {
		return Session{}, fmt.Errorf("payment: %s: orderID is required", p.name)
	}
	if amount <= 0 {
		return Session{}, fmt.Errorf("payment: %s: amount must be positive", p.name)
	}

	body, err := p.client.Post(ctx, p.path+"/session", sessionRequest{
		OrderID: orderID,
		Amount:  amount,
		Receipt: receipt,
	}, true)
	if err != nil {
		return Session{}, err
	}

	sess, err := api.DecodeOne[Session](api.EnvelopeBare, body)
	if err != nil {
		return Session{}, err
	}
	if sess.Reference == "" {
		return Session{}, fmt.Errorf("payment: %s: backend returned no session reference", p.name)
	}
	sess.Provider = p.name
	sess.OrderID = orderID
	return sess, nil
}

func (p *httpProvider) Verify(ctx context.Context, orderID string, result Result) error {
	if result.Reference == "" {
		return fmt.Errorf("payment: %s: result has no session reference", p.name)
	}
	payload := struct {
		OrderID string `json:"orderId"`
		Result
	}{OrderID: orderID, Result: result}

	_, err := p.client.Post(ctx, p.path+"/verify", payload, true)
	return err
}

// NewGateway creates the card/UPI gateway integration. Its callback carries
// a payment ID and a signature which the backend checks against the session.
func NewGateway(client *api.Client) (Provider, error) {
	return newHTTPProvider("gateway", "/api/payments/gateway", client)
}

// NewWalletPay creates the wallet-redirect integration. CreateSession
// returns a RedirectURL the caller must send the user to; the callback
// carries a transaction status.
func NewWalletPay(client *api.Client) (Provider, error) {
	return newHTTPProvider("wallet", "/api/payments/wallet", client)
}

// NewIntlCard creates the international card processor integration. Its
// SDK-button flow produces a capture ID which the backend verifies.
func NewIntlCard(client *api.Client) (Provider, error) {
	return newHTTPProvider("card", "/api/payments/card", client)
}
