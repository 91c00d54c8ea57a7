package store

import (
	"fmt"
	"sync"

	"github.com/vjzest/architect-storefront/internal/api"
	"github.com/vjzest/architect-storefront/pkg/logger"
)

// Config describes how one backend resource is exposed. Path, envelope shape
// and auth requirements are the only things that vary between resources;
// everything else is shared machinery.
type Config[T any] struct {
	// Name identifies the resource in logs.
	Name string
	// Path is the REST base path, e.g. "/api/products".
	Path string
	// ID extracts the identifier from a record. Required.
	ID func(T) string

	// ListEnvelope is the wrapper shape of list responses.
	ListEnvelope api.Envelope
	// ListKey names the collection field for paginated list responses.
	ListKey string
	// ItemEnvelope is the wrapper shape of single-record responses.
	ItemEnvelope api.Envelope

	// HasSlug enables FetchBySlug via <path>/slug/<slug>.
	HasSlug bool

	// ListAuth, ReadAuth and WriteAuth mark which operation categories send
	// the bearer token. Storefront reads are public, mutations are not.
	ListAuth  bool
	ReadAuth  bool
	WriteAuth bool
}

// Resource is the state container for one backend resource: an ordered
// collection unique by ID, an optional focused record, independent list and
// action statuses, and the last error message. All mutation is serialized
// through one mutex; reads return snapshots.
type Resource[T any] struct {
	cfg    Config[T]
	client *api.Client
	log    *logger.Logger

	mu           sync.Mutex
	items        []T
	focused      *T
	page         api.Page
	listStatus   Status
	actionStatus Status
	err          string

	// listSeq and actionSeq tag each issued operation. A response resolving
	// after a newer operation of the same category was issued is discarded,
	// so state reflects the most recently issued request rather than
	// whichever response happened to arrive last.
	listSeq   uint64
	actionSeq uint64
}

// New creates a resource container.
func New[T any](client *api.Client, cfg Config[T], log *logger.Logger) (*Resource[T], error) {
	if client == nil {
		return nil, fmt.Errorf("store: client is required")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: %s: Path is required", cfg.Name)
	}
	if cfg.ID == nil {
		return nil, fmt.Errorf("store: %s: ID accessor is required", cfg.Name)
	}
	if cfg.ListEnvelope == api.EnvelopePaginated && cfg.ListKey == "" {
		return nil, fmt.Errorf("store: %s: paginated resources need a ListKey", cfg.Name)
	}
	if log == nil {
		log = logger.NewDefault("store")
	}
	return &Resource[T]{
		cfg:    cfg,
		client: client,
		log:    log.WithField("resource", cfg.Name),
	}, nil
}

// Snapshot is a point-in-time copy of the container state.
type Snapshot[T any] struct {
	Items        []T
	Focused      *T
	Page         api.Page
	ListStatus   Status
	ActionStatus Status
	Err          string
}

// State returns a snapshot of the container.
func (r *Resource[T]) State() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]T, len(r.items))
	copy(items, r.items)

	var focused *T
	if r.focused != nil {
		f := *r.focused
		focused = &f
	}

	return Snapshot[T]{
		Items:        items,
		Focused:      focused,
		Page:         r.page,
		ListStatus:   r.listStatus,
		ActionStatus: r.actionStatus,
		Err:          r.err,
	}
}

// Items returns a copy of the collection.
func (r *Resource[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]T, len(r.items))
	copy(items, r.items)
	return items
}

// Focused returns the focused record, if any.
func (r *Resource[T]) Focused() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.focused == nil {
		var zero T
		return zero, false
	}
	return *r.focused, true
}

// ListStatus returns the status of the last list operation.
func (r *Resource[T]) ListStatus() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listStatus
}

// ActionStatus returns the status of the last mutating operation.
func (r *Resource[T]) ActionStatus() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actionStatus
}

// Err returns the last error message, or "".
func (r *Resource[T]) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Pagination returns the pagination fields from the last paginated list.
func (r *Resource[T]) Pagination() api.Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page
}

// ResetList forces the list status back to idle and clears the error.
// Resetting an idle container is a no-op.
func (r *Resource[T]) ResetList() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listStatus = Idle
	r.err = ""
}

// ResetAction forces the action status back to idle and clears the error.
func (r *Resource[T]) ResetAction() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actionStatus = Idle
	r.err = ""
}

// ClearFocused drops the focused record.
func (r *Resource[T]) ClearFocused() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = nil
}

// beginList marks a new list operation pending and returns its sequence
// number. Starting any operation clears the error slot.
func (r *Resource[T]) beginList() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listSeq++
	r.listStatus = Loading
	r.err = ""
	return r.listSeq
}

// beginAction marks a new mutating operation pending.
func (r *Resource[T]) beginAction() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actionSeq++
	r.actionStatus = Loading
	r.err = ""
	return r.actionSeq
}

// resolveList applies a list outcome unless a newer list operation was issued
// meanwhile. apply runs under the lock.
func (r *Resource[T]) resolveList(seq uint64, opErr error, apply func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.listSeq {
		r.log.WithField("seq", seq).Debug("stale list response discarded")
		return
	}
	if opErr != nil {
		r.listStatus = Failed
		r.err = api.Message(opErr)
		return
	}
	r.listStatus = Succeeded
	apply()
}

// resolveAction applies a mutation outcome unless superseded.
func (r *Resource[T]) resolveAction(seq uint64, opErr error, apply func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.actionSeq {
		r.log.WithField("seq", seq).Debug("stale action response discarded")
		return
	}
	if opErr != nil {
		r.actionStatus = Failed
		r.err = api.Message(opErr)
		return
	}
	r.actionStatus = Succeeded
	apply()
}

// indexOfLocked returns the collection index of the record with the given ID.
func (r *Resource[T]) indexOfLocked(id string) int {
	for i, item := range r.items {
		if r.cfg.ID(item) == id {
			return i
		}
	}
	return -1
}
