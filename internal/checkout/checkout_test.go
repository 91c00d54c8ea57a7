package checkout

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/internal/app/domain/commerce"
	"github.com/vjzest/architect-storefront/internal/cart"
	"github.com/vjzest/architect-storefront/internal/payment"
	"github.com/vjzest/architect-storefront/internal/store"
	"github.com/vjzest/architect-storefront/pkg/logger"
	"github.com/vjzest/architect-storefront/pkg/testutil"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() string { return s.token }

type authFunc func() bool

func (f authFunc) Authenticated() bool { return f() }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log := logger.NewDefault("test")
	log.SetOutput(io.Discard)
	return log
}

// harness wires an orchestrator against the fake backend with one item in
// the server cart.
type harness struct {
	backend *testutil.Backend
	orch    *Orchestrator
	cart    *cart.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := testutil.NewBackend()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	token := backend.IssueToken("buyer@example.com")
	client, err := api.New(api.Config{
		BaseURL: srv.URL,
		Tokens:  staticTokens{token: token},
		Log:     testLogger(t),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	cartSvc, err := cart.New(client, authFunc(func() bool { return true }), testLogger(t))
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}

	orders, err := store.New(client, store.Config[commerce.Order]{
		Name:         "orders",
		Path:         "/api/orders",
		ID:           func(o commerce.Order) string { return o.ID },
		ListEnvelope: api.EnvelopeData,
		ItemEnvelope: api.EnvelopeBare,
		ListAuth:     true,
		ReadAuth:     true,
		WriteAuth:    true,
	}, testLogger(t))
	if err != nil {
		t.Fatalf("new orders resource: %v", err)
	}

	gateway, err := payment.NewGateway(client)
	if err != nil {
		t.Fatalf("new gateway provider: %v", err)
	}
	wallet, err := payment.NewWalletPay(client)
	if err != nil {
		t.Fatalf("new wallet provider: %v", err)
	}

	orch, err := New(orders, cartSvc, payment.NewRegistry(gateway, wallet), testLogger(t))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return &harness{backend: backend, orch: orch, cart: cartSvc}
}

func (h *harness) addToCart(t *testing.T, item cart.Item) {
	t.Helper()
	if err := h.cart.AddItem(context.Background(), item); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
}

var shipping = commerce.ShippingAddress{
	FullName: "A Buyer",
	Line1:    "12 Lake View Road",
	City:     "Pune",
	PostCode: "411001",
	Country:  "India",
}

func TestPlaceOrderFullFlow(t *testing.T) {
	h := newHarness(t)
	h.addToCart(t, cart.Item{ProductID: "p1", Name: "Modern Villa Plan", Price: 2500, Quantity: 2})

	conf, err := h.orch.PlaceOrder(context.Background(), "gateway", shipping, func(sess payment.Session) (payment.Result, error) {
		if sess.Provider != "gateway" {
			t.Errorf("session provider = %q, want gateway", sess.Provider)
		}
		if sess.Reference == "" {
			t.Error("session has no reference")
		}
		return payment.Result{Reference: sess.Reference, PaymentID: "pay_1", Signature: "sig_1"}, nil
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if conf.Provider != "gateway" {
		t.Errorf("confirmation provider = %q, want gateway", conf.Provider)
	}
	if !conf.Order.IsPaid {
		t.Error("confirmed order is not marked paid")
	}
	// 2 x 2500 plus 18% tax, computed server-side.
	if conf.Order.Total != 5900 {
		t.Errorf("order total = %v, want 5900", conf.Order.Total)
	}

	if got := h.cart.Items(); len(got) != 0 {
		t.Errorf("cart has %d items after checkout, want 0", len(got))
	}
	if got := h.backend.CartItems(); len(got) != 0 {
		t.Errorf("server cart has %d items after checkout, want 0", len(got))
	}

	orders := h.backend.Orders()
	if len(orders) != 1 {
		t.Fatalf("backend has %d orders, want 1", len(orders))
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	h := newHarness(t)

	_, err := h.orch.PlaceOrder(context.Background(), "gateway", shipping, func(payment.Session) (payment.Result, error) {
		t.Fatal("handoff reached with empty cart")
		return payment.Result{}, nil
	})
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
	if len(h.backend.Orders()) != 0 {
		t.Error("order was created despite empty cart")
	}
}

func TestPlaceOrderUnsupportedMethod(t *testing.T) {
	h := newHarness(t)
	h.addToCart(t, cart.Item{ProductID: "p1", Name: "Cottage Plan", Price: 1200, Quantity: 1})

	_, err := h.orch.PlaceOrder(context.Background(), "cheque", shipping, func(payment.Session) (payment.Result, error) {
		return payment.Result{}, nil
	})
	if err == nil {
		t.Fatal("expected error for unsupported payment method")
	}
	if len(h.backend.Orders()) != 0 {
		t.Error("order was created despite unknown provider")
	}
}

func TestPlaceOrderHandoffFailureKeepsCart(t *testing.T) {
	h := newHarness(t)
	h.addToCart(t, cart.Item{ProductID: "p1", Name: "Duplex Plan", Price: 1800, Quantity: 1})

	_, err := h.orch.PlaceOrder(context.Background(), "wallet", shipping, func(payment.Session) (payment.Result, error) {
		return payment.Result{}, fmt.Errorf("user closed the payment window")
	})
	if err == nil {
		t.Fatal("expected error from failed handoff")
	}

	// The order exists (created before the handoff) but the cart is intact
	// and the order stays unpaid, so the user can retry.
	if got := h.cart.Items(); len(got) != 1 {
		t.Fatalf("cart has %d items after failed handoff, want 1", len(got))
	}
	orders := h.backend.Orders()
	if len(orders) != 1 {
		t.Fatalf("backend has %d orders, want 1", len(orders))
	}
	if paid, _ := orders[0]["isPaid"].(bool); paid {
		t.Error("order marked paid despite failed handoff")
	}
}

func TestPlaceOrderVerifyFailure(t *testing.T) {
	h := newHarness(t)
	h.addToCart(t, cart.Item{ProductID: "p1", Name: "Farmhouse Plan", Price: 3200, Quantity: 1})

	_, err := h.orch.PlaceOrder(context.Background(), "wallet", shipping, func(sess payment.Session) (payment.Result, error) {
		// A reference the backend never issued fails verification.
		return payment.Result{Reference: "forged-reference"}, nil
	})
	if err == nil {
		t.Fatal("expected verification error")
	}
	if got := h.cart.Items(); len(got) != 1 {
		t.Errorf("cart has %d items after failed verification, want 1", len(got))
	}
}

func TestPlaceOrderRetryCreatesNewOrder(t *testing.T) {
	h := newHarness(t)
	h.addToCart(t, cart.Item{ProductID: "p1", Name: "Bungalow Plan", Price: 2000, Quantity: 1})

	fail := func(payment.Session) (payment.Result, error) {
		return payment.Result{}, fmt.Errorf("payment cancelled")
	}
	if _, err := h.orch.PlaceOrder(context.Background(), "gateway", shipping, fail); err == nil {
		t.Fatal("expected first attempt to fail")
	}

	ok := func(sess payment.Session) (payment.Result, error) {
		return payment.Result{Reference: sess.Reference}, nil
	}
	conf, err := h.orch.PlaceOrder(context.Background(), "gateway", shipping, ok)
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}

	orders := h.backend.Orders()
	if len(orders) != 2 {
		t.Fatalf("backend has %d orders, want 2 (one per attempt)", len(orders))
	}
	if conf.Order.ID == "" {
		t.Fatal("confirmation carries no order ID")
	}
}
