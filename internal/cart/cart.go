// Package cart maintains the user's in-progress cart, readable whether or
// not the user is authenticated. Authenticated mutations go through the
// backend and take the server's view of the cart; guest mutations are local
// and flushed to the server at login. The total is always recomputed
// client-side for display and is never authoritative — the backend recomputes
// it at order creation.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/internal/store"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

const basePath = "/api/cart"

// Item is one cart line.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type cartEnvelope struct {
	Items []Item `json:"items"`
}

// Authenticator reports whether a session token is available.
type Authenticator interface {
	Authenticated() bool
}

// Service synchronizes the cart with the backend. Unlike the resource
// container, cart mutations carry no staleness guard: two overlapping
// quantity updates resolve last-write-wins, matching the backend's own view
// of concurrent cart edits.
type Service struct {
	client *api.Client
	auth   Authenticator
	log    *logger.Logger

	mu     sync.Mutex
	items  []Item
	status store.Status
	err    string
}

// New creates a cart service.
func New(client *api.Client, auth Authenticator, log *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("cart: client is required")
	}
	if auth == nil {
		return nil, fmt.Errorf("cart: authenticator is required")
	}
	if log == nil {
		log = logger.NewDefault("cart")
	}
	return &Service{client: client, auth: auth, log: log}, nil
}

// Hydrate loads the server cart when a session is present. Guest items held
// locally are pushed to the server first so nothing is lost at login.
// Without a session the cart simply starts (or stays) local.
func (s *Service) Hydrate(ctx context.Context) error {
	if !s.auth.Authenticated() {
		return nil
	}

	s.mu.Lock()
	guest := make([]Item, len(s.items))
	copy(guest, s.items)
	s.begin()
	s.mu.Unlock()

	for _, item := range guest {
		if _, err := s.client.Post(ctx, basePath+"/items", item, true); err != nil {
			s.resolve(nil, err)
			return err
		}
	}

	body, err := s.client.Get(ctx, basePath, nil, true)
	var items []Item
	if err == nil {
		items, err = decodeCart(body)
	}
	s.resolve(items, err)
	return err
}

// AddItem adds a product to the cart (or the server merges quantities when
// it is already present).
func (s *Service) AddItem(ctx context.Context, item Item) error {
	if item.ProductID == "" {
		return fmt.Errorf("cart: productId is required")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	if !s.auth.Authenticated() {
		s.addLocal(item)
		return nil
	}

	s.beginLocked()
	body, err := s.client.Post(ctx, basePath+"/items", item, true)
	var items []Item
	if err == nil {
		items, err = decodeCart(body)
	}
	s.resolve(items, err)
	return err
}

// UpdateQuantity sets the quantity for a cart line.
func (s *Service) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	if !s.auth.Authenticated() {
		s.mu.Lock()
		for i := range s.items {
			if s.items[i].ProductID == productID {
				s.items[i].Quantity = quantity
			}
		}
		s.mu.Unlock()
		return nil
	}

	s.beginLocked()
	body, err := s.client.Put(ctx, basePath+"/items/"+productID, map[string]int{"quantity": quantity}, true)
	var items []Item
	if err == nil {
		items, err = decodeCart(body)
	}
	s.resolve(items, err)
	return err
}

// RemoveItem removes a cart line.
func (s *Service) RemoveItem(ctx context.Context, productID string) error {
	if !s.auth.Authenticated() {
		s.mu.Lock()
		kept := s.items[:0]
		for _, item := range s.items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		s.items = kept
		s.mu.Unlock()
		return nil
	}

	s.beginLocked()
	body, err := s.client.Delete(ctx, basePath+"/items/"+productID, true)
	var items []Item
	if err == nil {
		items, err = decodeCart(body)
	}
	s.resolve(items, err)
	return err
}

// Clear empties the cart. On the server path the backend cart is cleared
// too; checkout calls this after a verified payment.
func (s *Service) Clear(ctx context.Context) error {
	if !s.auth.Authenticated() {
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return nil
	}

	s.beginLocked()
	_, err := s.client.Delete(ctx, basePath, true)
	s.resolve([]Item{}, err)
	return err
}

// Items returns a copy of the cart lines.
func (s *Service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Total returns the display total: sum of price × quantity over all lines.
// Non-authoritative; the backend recomputes at order creation.
func (s *Service) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Status returns the status of the last server operation.
func (s *Service) Status() store.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the last error message, or "".
func (s *Service) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Service) addLocal(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

// begin marks a server operation pending. Caller holds the lock.
func (s *Service) begin() {
	s.status = store.Loading
	s.err = ""
}

func (s *Service) beginLocked() {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()
}

// resolve applies the operation outcome. On success the server's item list
// replaces local state; on failure prior state is untouched.
func (s *Service) resolve(items []Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = store.Failed
		s.err = api.Message(err)
		return
	}
	s.status = store.Succeeded
	s.items = items
}

func decodeCart(body []byte) ([]Item, error) {
	env, err := api.DecodeOne[cartEnvelope](api.EnvelopeBare, body)
	if err != nil {
		return nil, err
	}
	return env.Items, nil
}
