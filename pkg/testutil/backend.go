// Package testutil provides an in-memory fake of the storefront backend for
// package tests. It emulates the real API's envelope quirks per resource,
// enforces bearer auth on protected routes, and implements the cart, order
// and payment session/verify endpoints end to end.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// EnvelopeKind selects how a fake resource wraps its list responses.
type EnvelopeKind int

const (
	// EnvelopeBare returns the collection as a bare JSON array.
	EnvelopeBare EnvelopeKind = iota
	// EnvelopeData wraps the collection as {"data": [...]}.
	EnvelopeData
	// EnvelopeItems wraps the collection as {"items": [...]}.
	EnvelopeItems
	// EnvelopePaginated wraps it as {"<key>": [...], "page", "pages", "count"}.
	EnvelopePaginated
)

// Record is a loosely-typed resource record, keyed by "_id".
type Record map[string]interface{}

// recordID returns the record's identifier.
func recordID(r Record) string {
	id, _ := r["_id"].(string)
	return id
}

type resourceTable struct {
	path      string
	envelope  EnvelopeKind
	listKey   string
	writeAuth bool
	pageSize  int
	records   []Record
}

type userEntry struct {
	password string
	session  Record
}

type paymentSession struct {
	provider string
	orderID  string
	receipt  string
}

// Backend is the fake storefront API.
type Backend struct {
	mu        sync.Mutex
	router    *mux.Router
	users     map[string]*userEntry // email -> entry
	tokens    map[string]string     // token -> email
	resources map[string]*resourceTable
	cart      []Record
	wishlist  []Record
	orders    []Record
	sessions  map[string]paymentSession // reference -> session
}

// NewBackend creates an empty fake backend with cart, wishlist, order, user
// and payment endpoints mounted. Additional resources are added with
// AddResource.
func NewBackend() *Backend {
	b := &Backend{
		router:    mux.NewRouter(),
		users:     make(map[string]*userEntry),
		tokens:    make(map[string]string),
		resources: make(map[string]*resourceTable),
		sessions:  make(map[string]paymentSession),
	}
	b.mountAuth()
	b.mountCart()
	b.mountWishlist()
	b.mountOrders()
	b.mountPayments()
	return b
}

// Handler returns the backend's HTTP handler.
func (b *Backend) Handler() http.Handler { return b.router }

// AddUser registers a login. Extra session fields (name, role, ...) are
// returned in the login response blob alongside the issued token.
func (b *Backend) AddUser(email, password string, session Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blob := Record{"email": email}
	for k, v := range session {
		blob[k] = v
	}
	if recordID(blob) == "" {
		blob["_id"] = uuid.New().String()
	}
	b.users[email] = &userEntry{password: password, session: blob}
}

// IssueToken mints a bearer token for email without going through the login
// endpoint. The user does not have to exist.
func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.New().String()
	b.tokens[token] = email
	return token
}

// AddResource mounts a generic CRUD resource at path with the given list
// envelope. writeAuth protects create/update/delete with bearer auth.
func (b *Backend) AddResource(name, path string, envelope EnvelopeKind, listKey string, writeAuth bool) {
	table := &resourceTable{path: path, envelope: envelope, listKey: listKey, writeAuth: writeAuth, pageSize: 10}
	b.mu.Lock()
	b.resources[name] = table
	b.mu.Unlock()

	b.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			b.listResource(w, r, table)
		case http.MethodPost:
			if table.writeAuth && !b.authorized(r) {
				writeError(w, http.StatusUnauthorized, "not authorised, no token")
				return
			}
			b.createResource(w, r, table)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	b.router.HandleFunc(path+"/slug/{slug}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		slug := mux.Vars(r)["slug"]
		for _, rec := range table.records {
			if s, _ := rec["slug"].(string); s == slug {
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		writeError(w, http.StatusNotFound, name+" not found")
	}).Methods(http.MethodGet)

	b.router.HandleFunc(path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		switch r.Method {
		case http.MethodGet:
			b.getResource(w, table, name, id)
		case http.MethodPut, http.MethodDelete:
			if table.writeAuth && !b.authorized(r) {
				writeError(w, http.StatusUnauthorized, "not authorised, no token")
				return
			}
			if r.Method == http.MethodPut {
				b.updateResource(w, r, table, name, id)
			} else {
				b.deleteResource(w, table, name, id)
			}
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// Seed inserts records into a resource table.
func (b *Backend) Seed(name string, records ...Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	table, ok := b.resources[name]
	if !ok {
		panic(fmt.Sprintf("testutil: unknown resource %q", name))
	}
	for _, rec := range records {
		if recordID(rec) == "" {
			rec["_id"] = uuid.New().String()
		}
		table.records = append(table.records, rec)
	}
}

// Records returns a copy of a resource's current records.
func (b *Backend) Records(name string) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	table := b.resources[name]
	out := make([]Record, len(table.records))
	copy(out, table.records)
	return out
}

// Orders returns the placed orders.
func (b *Backend) Orders() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.orders))
	copy(out, b.orders)
	return out
}

// CartItems returns the server-side cart.
func (b *Backend) CartItems() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.cart))
	copy(out, b.cart)
	return out
}

func (b *Backend) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tokens[parts[1]]
	return ok
}

func (b *Backend) listResource(w http.ResponseWriter, r *http.Request, table *resourceTable) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records := table.records
	if keyword := r.URL.Query().Get("keyword"); keyword != "" {
		filtered := make([]Record, 0, len(records))
		for _, rec := range records {
			name, _ := rec["name"].(string)
			title, _ := rec["title"].(string)
			if containsFold(name, keyword) || containsFold(title, keyword) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	switch table.envelope {
	case EnvelopeBare:
		writeJSON(w, http.StatusOK, records)
	case EnvelopeData:
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": records})
	case EnvelopeItems:
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": records})
	case EnvelopePaginated:
		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page < 1 {
			page = 1
		}
		total := len(records)
		pages := (total + table.pageSize - 1) / table.pageSize
		if pages == 0 {
			pages = 1
		}
		start := (page - 1) * table.pageSize
		if start > total {
			start = total
		}
		end := start + table.pageSize
		if end > total {
			end = total
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			table.listKey: records[start:end],
			"page":        page,
			"pages":       pages,
			"count":       total,
		})
	}
}

func (b *Backend) createResource(w http.ResponseWriter, r *http.Request, table *resourceTable) {
	rec, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec["_id"] = uuid.New().String()

	b.mu.Lock()
	table.records = append(table.records, rec)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (b *Backend) getResource(w http.ResponseWriter, table *resourceTable, name, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rec := range table.records {
		if recordID(rec) == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, http.StatusNotFound, name+" not found")
}

func (b *Backend) updateResource(w http.ResponseWriter, r *http.Request, table *resourceTable, name, id string) {
	patch, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, rec := range table.records {
		if recordID(rec) == id {
			for k, v := range patch {
				if k != "_id" {
					rec[k] = v
				}
			}
			table.records[i] = rec
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, http.StatusNotFound, name+" not found")
}

func (b *Backend) deleteResource(w http.ResponseWriter, table *resourceTable, name, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, rec := range table.records {
		if recordID(rec) == id {
			table.records = append(table.records[:i], table.records[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": name + " removed"})
			return
		}
	}
	writeError(w, http.StatusNotFound, name+" not found")
}

func decodeRecord(r *http.Request) (Record, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
