package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/internal/store"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

type authState bool

func (a authState) Authenticated() bool { return bool(a) }

type tokenSource struct{}

func (tokenSource) Token() string { return "tok" }

func testLogger() *logger.Logger {
	log := logger.NewDefault("cart-test")
	log.SetOutput(io.Discard)
	return log
}

// fakeCart is a minimal server-side cart used by these tests.
type fakeCart struct {
	mu    sync.Mutex
	items []Item
}

func (f *fakeCart) handler(t testing.TB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/cart":
			// keep items

		case r.Method == http.MethodPost && r.URL.Path == "/api/cart/items":
			var item Item
			if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
				t.Errorf("decode add item: %v", err)
			}
			merged := false
			for i := range f.items {
				if f.items[i].ProductID == item.ProductID {
					f.items[i].Quantity += item.Quantity
					merged = true
				}
			}
			if !merged {
				f.items = append(f.items, item)
			}

		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
			var payload struct {
				Quantity int `json:"quantity"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode update: %v", err)
			}
			for i := range f.items {
				if f.items[i].ProductID == id {
					f.items[i].Quantity = payload.Quantity
				}
			}

		case r.Method == http.MethodDelete && r.URL.Path == "/api/cart":
			f.items = nil

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
			kept := f.items[:0]
			for _, item := range f.items {
				if item.ProductID != id {
					kept = append(kept, item)
				}
			}
			f.items = kept

		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cartEnvelope{Items: f.items})
	})
}

func newTestService(t *testing.T, handler http.Handler, authed bool) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(api.Config{BaseURL: server.URL, Tokens: tokenSource{}, Log: testLogger()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	svc, err := New(client, authState(authed), testLogger())
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}
	return svc
}

func TestAddThenHydrate(t *testing.T) {
	backend := &fakeCart{}
	svc := newTestService(t, backend.handler(t), true)

	if err := svc.AddItem(context.Background(), Item{ProductID: "p1", Price: 1000, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := svc.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	items := svc.Items()
	if len(items) != 1 || items[0].ProductID != "p1" {
		t.Fatalf("unexpected items: %#v", items)
	}
	if total := svc.Total(); total != 1000 {
		t.Fatalf("expected total 1000, got %v", total)
	}
	if svc.Status() != store.Succeeded {
		t.Fatalf("expected succeeded, got %s", svc.Status())
	}
}

func TestTotalInvariant(t *testing.T) {
	backend := &fakeCart{}
	svc := newTestService(t, backend.handler(t), true)
	ctx := context.Background()

	if err := svc.AddItem(ctx, Item{ProductID: "p1", Price: 1000, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.AddItem(ctx, Item{ProductID: "p2", Price: 250.5, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	assertTotalMatchesItems(t, svc)

	if err := svc.UpdateQuantity(ctx, "p1", 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	assertTotalMatchesItems(t, svc)

	if err := svc.RemoveItem(ctx, "p2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertTotalMatchesItems(t, svc)
	if total := svc.Total(); total != 5000 {
		t.Fatalf("expected total 5000, got %v", total)
	}
}

func assertTotalMatchesItems(t *testing.T, svc *Service) {
	t.Helper()
	var want float64
	for _, item := range svc.Items() {
		want += item.Price * float64(item.Quantity)
	}
	if got := svc.Total(); got != want {
		t.Fatalf("total %v does not match sum of lines %v", got, want)
	}
}

func TestGuestCartStaysLocal(t *testing.T) {
	called := false
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), false)
	ctx := context.Background()

	if err := svc.AddItem(ctx, Item{ProductID: "p1", Price: 100, Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	if err := svc.AddItem(ctx, Item{ProductID: "p1", Price: 100, Quantity: 2}); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, "p1", 4); err != nil {
		t.Fatalf("guest update: %v", err)
	}

	if called {
		t.Fatalf("guest operations must not reach the server")
	}
	items := svc.Items()
	if len(items) != 1 || items[0].Quantity != 4 {
		t.Fatalf("unexpected guest items: %#v", items)
	}
}

func TestGuestItemsFlushedAtLogin(t *testing.T) {
	backend := &fakeCart{}
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)

	client, err := api.New(api.Config{BaseURL: server.URL, Tokens: tokenSource{}, Log: testLogger()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	authed := false
	svc, err := New(client, authFunc(func() bool { return authed }), testLogger())
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}
	ctx := context.Background()

	if err := svc.AddItem(ctx, Item{ProductID: "p1", Price: 900, Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	authed = true // login
	if err := svc.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate after login: %v", err)
	}

	items := svc.Items()
	if len(items) != 1 || items[0].ProductID != "p1" {
		t.Fatalf("guest items not flushed to server: %#v", items)
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.items) != 1 {
		t.Fatalf("server cart missing flushed items: %#v", backend.items)
	}
}

type authFunc func() bool

func (f authFunc) Authenticated() bool { return f() }

func TestFailedMutationKeepsPriorState(t *testing.T) {
	fail := false
	backend := &fakeCart{}
	inner := backend.handler(t)
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"out of stock"}`))
			return
		}
		inner.ServeHTTP(w, r)
	}), true)
	ctx := context.Background()

	if err := svc.AddItem(ctx, Item{ProductID: "p1", Price: 100, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	fail = true
	if err := svc.AddItem(ctx, Item{ProductID: "p2", Price: 50, Quantity: 1}); err == nil {
		t.Fatalf("expected failure")
	}

	if svc.Status() != store.Failed || svc.Err() != "out of stock" {
		t.Fatalf("failure not recorded: %s %q", svc.Status(), svc.Err())
	}
	items := svc.Items()
	if len(items) != 1 || items[0].ProductID != "p1" {
		t.Fatalf("failed mutation must leave prior items untouched: %#v", items)
	}
}

// TestQuantityRaceLastWriteWins documents the unguarded cart race: when two
// quantity updates overlap and the earlier-issued one resolves last, its
// response is the one that sticks.
func TestQuantityRaceLastWriteWins(t *testing.T) {
	firstReceived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	var mu sync.Mutex
	items := []Item{{ProductID: "p1", Price: 100, Quantity: 1}}

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Quantity int `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&payload)

		if payload.Quantity == 2 {
			once.Do(func() { close(firstReceived) })
			<-releaseFirst
		}

		mu.Lock()
		items[0].Quantity = payload.Quantity
		snapshot := cartEnvelope{Items: []Item{items[0]}}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	}), true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.UpdateQuantity(context.Background(), "p1", 2)
	}()
	<-firstReceived

	if err := svc.UpdateQuantity(context.Background(), "p1", 3); err != nil {
		t.Fatalf("second update: %v", err)
	}

	close(releaseFirst)
	wg.Wait()

	got := svc.Items()
	if len(got) != 1 || got[0].Quantity != 2 {
		t.Fatalf("expected the last-resolved quantity (2) to win, got %#v", got)
	}
}
