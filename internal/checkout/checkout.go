// Package checkout sequences order creation with a payment provider flow.
// The steps are strictly sequential glue: create the order, open a provider
// session, let the caller complete the provider's client-side step, verify
// the result, then clear the cart. A failure at any step surfaces one
// normalized error and stops; there is no retry, and repeating checkout
// after a failure creates a new order each attempt.
package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vjzest/architect-storefront/internal/app/domain/commerce"
	"github.com/vjzest/architect-storefront/internal/cart"
	"github.com/vjzest/architect-storefront/internal/payment"
	"github.com/vjzest/architect-storefront/internal/store"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

// Handoff completes the provider's client-side step (following a redirect,
// rendering an SDK button) and returns the provider callback result. In the
// CLI this is an interactive prompt; tests script it.
type Handoff func(payment.Session) (payment.Result, error)

// Confirmation is the outcome of a successful checkout.
type Confirmation struct {
	Order     commerce.Order
	Provider  string
	Reference string
	Receipt   string
}

// Orchestrator drives the checkout flow.
type Orchestrator struct {
	orders    *store.Resource[commerce.Order]
	cart      *cart.Service
	providers *payment.Registry
	log       *logger.Logger
}

// New creates a checkout orchestrator.
func New(orders *store.Resource[commerce.Order], cartSvc *cart.Service, providers *payment.Registry, log *logger.Logger) (*Orchestrator, error) {
	if orders == nil {
		return nil, fmt.Errorf("checkout: order resource is required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("checkout: cart is required")
	}
	if providers == nil {
		return nil, fmt.Errorf("checkout: provider registry is required")
	}
	if log == nil {
		log = logger.NewDefault("checkout")
	}
	return &Orchestrator{orders: orders, cart: cartSvc, providers: providers, log: log}, nil
}

type createOrderPayload struct {
	Items    []commerce.OrderItem     `json:"orderItems"`
	Shipping commerce.ShippingAddress `json:"shippingAddress"`
	Method   string                   `json:"paymentMethod"`
	// ItemsTotal is the client's display total. The backend recomputes and
	// owns the authoritative amount.
	ItemsTotal float64 `json:"itemsPrice"`
}

// PlaceOrder runs the full checkout sequence for the current cart contents.
func (o *Orchestrator) PlaceOrder(ctx context.Context, method string, shipping commerce.ShippingAddress, handoff Handoff) (Confirmation, error) {
	if handoff == nil {
		return Confirmation{}, fmt.Errorf("checkout: handoff is required")
	}

	provider, err := o.providers.Get(method)
	if err != nil {
		return Confirmation{}, err
	}

	lines := o.cart.Items()
	if len(lines) == 0 {
		return Confirmation{}, fmt.Errorf("checkout: cart is empty")
	}

	items := make([]commerce.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, commerce.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	total := o.cart.Total()

	order, err := o.orders.Create(ctx, createOrderPayload{
		Items:      items,
		Shipping:   shipping,
		Method:     method,
		ItemsTotal: total,
	})
	if err != nil {
		return Confirmation{}, fmt.Errorf("checkout: create order: %w", err)
	}

	// Receipt reference lets the backend correlate the session with the
	// verification call for this attempt.
	receipt := uuid.New().String()

	sess, err := provider.CreateSession(ctx, order.ID, order.Total, receipt)
	if err != nil {
		return Confirmation{}, fmt.Errorf("checkout: open payment session: %w", err)
	}

	result, err := handoff(sess)
	if err != nil {
		return Confirmation{}, fmt.Errorf("checkout: payment handoff: %w", err)
	}
	if result.Reference == "" {
		result.Reference = sess.Reference
	}

	if err := provider.Verify(ctx, order.ID, result); err != nil {
		return Confirmation{}, fmt.Errorf("checkout: verify payment: %w", err)
	}

	// Payment confirmed: the cart is done. A failure here is logged but not
	// fatal, the order is already paid.
	if err := o.cart.Clear(ctx); err != nil {
		o.log.WithError(err).WithField("order_id", order.ID).Warn("clear cart after checkout")
	}

	confirmed, err := o.orders.FetchOne(ctx, order.ID)
	if err != nil {
		// The order exists and is paid; fall back to the created record.
		confirmed = order
	}

	o.log.WithField("order_id", order.ID).
		WithField("provider", provider.Name()).
		Info("checkout complete")

	return Confirmation{
		Order:     confirmed,
		Provider:  provider.Name(),
		Reference: sess.Reference,
		Receipt:   receipt,
	}, nil
}
