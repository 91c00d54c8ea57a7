// Package wishlist mirrors the cart's synchronization pattern for saved
// products, without quantities or totals.
package wishlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/internal/cart"
	"github.com/vjzest/architect-storefront/internal/store"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

const basePath = "/api/wishlist"

// Item is one saved product.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
}

type listEnvelope struct {
	Items []Item `json:"items"`
}

// Service synchronizes the wishlist with the backend.
type Service struct {
	client *api.Client
	auth   cart.Authenticator
	log    *logger.Logger

	mu     sync.Mutex
	items  []Item
	status store.Status
	err    string
}

// New creates a wishlist service.
func New(client *api.Client, auth cart.Authenticator, log *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("wishlist: client is required")
	}
	if auth == nil {
		return nil, fmt.Errorf("wishlist: authenticator is required")
	}
	if log == nil {
		log = logger.NewDefault("wishlist")
	}
	return &Service{client: client, auth: auth, log: log}, nil
}

// Hydrate loads the server wishlist when a session is present.
func (s *Service) Hydrate(ctx context.Context) error {
	if !s.auth.Authenticated() {
		return nil
	}

	s.begin()
	body, err := s.client.Get(ctx, basePath, nil, true)
	var items []Item
	if err == nil {
		items, err = decode(body)
	}
	s.resolve(items, err)
	return err
}

// Add saves a product. Guests keep the item locally.
func (s *Service) Add(ctx context.Context, item Item) error {
	if item.ProductID == "" {
		return fmt.Errorf("wishlist: productId is required")
	}

	if !s.auth.Authenticated() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, existing := range s.items {
			if existing.ProductID == item.ProductID {
				return nil
			}
		}
		s.items = append(s.items, item)
		return nil
	}

	s.begin()
	body, err := s.client.Post(ctx, basePath+"/items", item, true)
	var items []Item
	if err == nil {
		items, err = decode(body)
	}
	s.resolve(items, err)
	return err
}

// Remove drops a saved product.
func (s *Service) Remove(ctx context.Context, productID string) error {
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

	s.begin()
	body, err := s.client.Delete(ctx, basePath+"/items/"+productID, true)
	var items []Item
	if err == nil {
		items, err = decode(body)
	}
	s.resolve(items, err)
	return err
}

// Items returns a copy of the saved products.
func (s *Service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
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

func (s *Service) begin() {
	s.mu.Lock()
	s.status = store.Loading
	s.err = ""
	s.mu.Unlock()
}

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

func decode(body []byte) ([]Item, error) {
	env, err := api.DecodeOne[listEnvelope](api.EnvelopeBare, body)
	if err != nil {
		return nil, err
	}
	return env.Items, nil
}
