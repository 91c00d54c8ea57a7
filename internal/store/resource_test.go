package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

type plan struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Price float64 `json:"price"`
}

func planConfig() Config[plan] {
	return Config[plan]{
		Name:         "plans",
		Path:         "/api/plans",
		ID:           func(p plan) string { return p.ID },
		ListEnvelope: api.EnvelopeBare,
		ItemEnvelope: api.EnvelopeBare,
		HasSlug:      true,
		WriteAuth:    true,
	}
}

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func testLogger() *logger.Logger {
	log := logger.NewDefault("store-test")
	log.SetOutput(io.Discard)
	return log
}

func newTestResource(t *testing.T, handler http.Handler) *Resource[plan] {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(api.Config{BaseURL: server.URL, Tokens: staticTokens("tok"), Log: testLogger()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	res, err := New(client, planConfig(), testLogger())
	if err != nil {
		t.Fatalf("new resource: %v", err)
	}
	return res
}

func writeJSON(t testing.TB, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestFetchListReplacesCollection(t *testing.T) {
	serverPlans := []plan{{ID: "p1", Name: "Villa"}, {ID: "p2", Name: "Duplex"}}
	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, serverPlans)
	}))

	// Pre-existing state must be replaced wholesale.
	res.items = []plan{{ID: "old"}}

	items, err := res.FetchList(context.Background(), nil)
	if err != nil {
		t.Fatalf("fetch list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	state := res.State()
	if state.ListStatus != Succeeded {
		t.Fatalf("expected succeeded, got %s", state.ListStatus)
	}
	if len(state.Items) != 2 || state.Items[0].ID != "p1" || state.Items[1].ID != "p2" {
		t.Fatalf("collection not replaced: %#v", state.Items)
	}
}

func TestFetchListFailureKeepsPriorItems(t *testing.T) {
	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database is down"}`))
	}))
	res.items = []plan{{ID: "cached"}}

	if _, err := res.FetchList(context.Background(), nil); err == nil {
		t.Fatalf("expected error")
	}

	state := res.State()
	if state.ListStatus != Failed {
		t.Fatalf("expected failed, got %s", state.ListStatus)
	}
	if state.Err != "database is down" {
		t.Fatalf("unexpected error message: %q", state.Err)
	}
	if len(state.Items) != 1 || state.Items[0].ID != "cached" {
		t.Fatalf("prior items must survive a failed list fetch: %#v", state.Items)
	}
}

func TestCreateUnshifts(t *testing.T) {
	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, plan{ID: "p9", Name: "Farmhouse"})
	}))
	res.items = []plan{{ID: "p1"}, {ID: "p2"}}

	created, err := res.Create(context.Background(), map[string]string{"name": "Farmhouse"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "p9" {
		t.Fatalf("unexpected created record: %#v", created)
	}

	state := res.State()
	if state.ActionStatus != Succeeded {
		t.Fatalf("expected succeeded, got %s", state.ActionStatus)
	}
	if len(state.Items) != 3 || state.Items[0].ID != "p9" {
		t.Fatalf("created record must be at index 0: %#v", state.Items)
	}

	count := 0
	for _, item := range state.Items {
		if item.ID == "p9" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("created record must appear exactly once, got %d", count)
	}
}

func TestUpdateReplacesEntryAndFocused(t *testing.T) {
	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, plan{ID: "p2", Name: "Duplex v2", Price: 2500})
	}))
	res.items = []plan{{ID: "p1"}, {ID: "p2", Name: "Duplex"}}
	focused := plan{ID: "p2", Name: "Duplex"}
	res.focused = &focused

	updated, err := res.Update(context.Background(), "p2", map[string]string{"name": "Duplex v2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Duplex v2" {
		t.Fatalf("unexpected record: %#v", updated)
	}

	state := res.State()
	if state.Items[1].Name != "Duplex v2" {
		t.Fatalf("collection entry not replaced: %#v", state.Items)
	}
	if state.Focused == nil || state.Focused.Name != "Duplex v2" {
		t.Fatalf("focused record not replaced: %#v", state.Focused)
	}
}

func TestDeleteRemovesByID(t *testing.T) {
	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"message": "removed"})
	}))
	res.items = []plan{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}

	if err := res.Delete(context.Background(), "p2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	state := res.State()
	if state.ActionStatus != Succeeded {
		t.Fatalf("expected succeeded, got %s", state.ActionStatus)
	}
	for _, item := range state.Items {
		if item.ID == "p2" {
			t.Fatalf("deleted record still present: %#v", state.Items)
		}
	}
	if len(state.Items) != 2 {
		t.Fatalf("expected 2 remaining items: %#v", state.Items)
	}
}

func TestFetchOneSetsFocusedAndUpserts(t *testing.T) {
	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, plan{ID: "p5", Name: "Cottage"})
	}))

	item, err := res.FetchOne(context.Background(), "p5")
	if err != nil {
		t.Fatalf("fetch one: %v", err)
	}
	if item.ID != "p5" {
		t.Fatalf("unexpected record: %#v", item)
	}

	state := res.State()
	if state.Focused == nil || state.Focused.ID != "p5" {
		t.Fatalf("focused not set: %#v", state.Focused)
	}
	if len(state.Items) != 1 || state.Items[0].ID != "p5" {
		t.Fatalf("record not upserted into collection: %#v", state.Items)
	}

	// Fetching again must not duplicate the collection entry.
	if _, err := res.FetchOne(context.Background(), "p5"); err != nil {
		t.Fatalf("fetch one again: %v", err)
	}
	if items := res.Items(); len(items) != 1 {
		t.Fatalf("read-through upsert duplicated the record: %#v", items)
	}
}

func TestFetchBySlugUnsupported(t *testing.T) {
	res := newTestResource(t, http.NotFoundHandler())
	res.cfg.HasSlug = false

	if _, err := res.FetchBySlug(context.Background(), "villa"); err == nil {
		t.Fatalf("expected error for slug lookup on a slug-less resource")
	}
}

func TestResetActionIdempotentAtIdle(t *testing.T) {
	res := newTestResource(t, http.NotFoundHandler())

	before := res.State()
	res.ResetAction()
	after := res.State()

	if before.ActionStatus != Idle || after.ActionStatus != Idle {
		t.Fatalf("expected idle before and after: %s %s", before.ActionStatus, after.ActionStatus)
	}
	if before.Err != after.Err || len(before.Items) != len(after.Items) {
		t.Fatalf("reset at idle must be a no-op")
	}
}

func TestErrorClearedOnNewPending(t *testing.T) {
	fail := true
	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"bad filter"}`))
			return
		}
		writeJSON(t, w, []plan{})
	}))

	if _, err := res.FetchList(context.Background(), nil); err == nil {
		t.Fatalf("expected failure")
	}
	if res.Err() != "bad filter" {
		t.Fatalf("error not recorded: %q", res.Err())
	}

	fail = false
	if _, err := res.FetchList(context.Background(), nil); err != nil {
		t.Fatalf("fetch list: %v", err)
	}
	if res.Err() != "" {
		t.Fatalf("error slot must clear when a new operation starts: %q", res.Err())
	}
}

func TestPaginatedList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"plans":[{"_id":"p1"}],"page":3,"pages":7,"count":61}`))
	}))
	t.Cleanup(server.Close)

	client, err := api.New(api.Config{BaseURL: server.URL, Log: testLogger()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	cfg := planConfig()
	cfg.ListEnvelope = api.EnvelopePaginated
	cfg.ListKey = "plans"
	res, err := New(client, cfg, testLogger())
	if err != nil {
		t.Fatalf("new resource: %v", err)
	}

	if _, err := res.FetchList(context.Background(), url.Values{"page": []string{"3"}}); err != nil {
		t.Fatalf("fetch list: %v", err)
	}
	page := res.Pagination()
	if page.Page != 3 || page.Pages != 7 || page.Count != 61 {
		t.Fatalf("pagination not stored: %#v", page)
	}
}

// TestStaleListResponseDiscarded issues two overlapping list fetches and lets
// the first-issued one resolve last. The container must keep the result of
// the most recently issued request.
func TestStaleListResponseDiscarded(t *testing.T) {
	firstReceived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	res := newTestResource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") == "1" {
			once.Do(func() { close(firstReceived) })
			<-releaseFirst
			writeJSON(t, w, []plan{{ID: "stale"}})
			return
		}
		writeJSON(t, w, []plan{{ID: "fresh"}})
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res.FetchList(context.Background(), url.Values{"v": []string{"1"}})
	}()
	<-firstReceived

	// Second fetch is issued after the first and resolves immediately.
	if _, err := res.FetchList(context.Background(), url.Values{"v": []string{"2"}}); err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	close(releaseFirst)
	wg.Wait()

	items := res.Items()
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Fatalf("stale response overwrote fresher state: %#v", items)
	}
	if res.ListStatus() != Succeeded {
		t.Fatalf("expected succeeded, got %s", res.ListStatus())
	}
}

func ExampleResource_FetchList() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"p1","name":"Villa"}]`))
	}))
	defer server.Close()

	log := logger.NewDefault("example")
	log.SetOutput(io.Discard)
	client, _ := api.New(api.Config{BaseURL: server.URL, Log: log})
	res, _ := New(client, Config[plan]{
		Name: "plans",
		Path: "/api/plans",
		ID:   func(p plan) string { return p.ID },
	}, log)

	items, _ := res.FetchList(context.Background(), nil)
	fmt.Println(len(items), res.ListStatus())
	// Output:
	// 1 succeeded
}
