package store

import (
	"context"
	"net/url"

	"github.com/vjzest/architect-storefront/internal/api"
)

// FetchList retrieves the collection, optionally filtered/paginated via
// params. On success the collection is replaced wholesale with the server's
// ordering; pagination fields are stored when the resource is paginated.
func (r *Resource[T]) FetchList(ctx context.Context, params url.Values) ([]T, error) {
	seq := r.beginList()

	body, err := r.client.Get(ctx, r.cfg.Path, params, r.cfg.ListAuth)
	var items []T
	var page api.Page
	if err == nil {
		items, page, err = api.DecodeList[T](r.cfg.ListEnvelope, r.cfg.ListKey, body)
	}

	r.resolveList(seq, err, func() {
		r.items = items
		r.page = page
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FetchOne retrieves a single record by ID. On success it becomes the focused
// record and is upserted into the collection (read-through), keeping the
// collection unique by ID.
func (r *Resource[T]) FetchOne(ctx context.Context, id string) (T, error) {
	return r.fetchItem(ctx, r.cfg.Path+"/"+url.PathEscape(id))
}

// FetchBySlug retrieves a single record by slug for resources that support
// slug lookup.
func (r *Resource[T]) FetchBySlug(ctx context.Context, slug string) (T, error) {
	var zero T
	if !r.cfg.HasSlug {
		return zero, &api.Error{Status: 0, Message: r.cfg.Name + " does not support slug lookup"}
	}
	return r.fetchItem(ctx, r.cfg.Path+"/slug/"+url.PathEscape(slug))
}

func (r *Resource[T]) fetchItem(ctx context.Context, path string) (T, error) {
	var zero T
	seq := r.beginList()

	body, err := r.client.Get(ctx, path, nil, r.cfg.ReadAuth)
	var item T
	if err == nil {
		item, err = api.DecodeOne[T](r.cfg.ItemEnvelope, body)
	}

	r.resolveList(seq, err, func() {
		focused := item
		r.focused = &focused
		if i := r.indexOfLocked(r.cfg.ID(item)); i >= 0 {
			r.items[i] = item
		} else {
			r.items = append(r.items, item)
		}
	})
	if err != nil {
		return zero, err
	}
	return item, nil
}

// Create posts a new record. The server's version of the record is prepended
// to the collection so newly created entries appear first.
func (r *Resource[T]) Create(ctx context.Context, payload interface{}) (T, error) {
	seq := r.beginAction()
	body, err := r.client.Post(ctx, r.cfg.Path, payload, r.cfg.WriteAuth)
	return r.finishCreate(seq, body, err)
}

// CreateMultipart posts a new file-bearing record as multipart/form-data.
func (r *Resource[T]) CreateMultipart(ctx context.Context, fields map[string]string, files []api.File) (T, error) {
	seq := r.beginAction()
	body, err := r.client.PostMultipart(ctx, r.cfg.Path, fields, files, r.cfg.WriteAuth)
	return r.finishCreate(seq, body, err)
}

func (r *Resource[T]) finishCreate(seq uint64, body []byte, err error) (T, error) {
	var zero T
	var item T
	if err == nil {
		item, err = api.DecodeOne[T](r.cfg.ItemEnvelope, body)
	}

	r.resolveAction(seq, err, func() {
		// Unshift, displacing any stale copy with the same ID.
		if i := r.indexOfLocked(r.cfg.ID(item)); i >= 0 {
			r.items = append(r.items[:i], r.items[i+1:]...)
		}
		r.items = append([]T{item}, r.items...)
	})
	if err != nil {
		return zero, err
	}
	return item, nil
}

// Update puts a modified record. The server response replaces the matching
// collection entry and the focused record when their IDs match.
func (r *Resource[T]) Update(ctx context.Context, id string, payload interface{}) (T, error) {
	var zero T
	seq := r.beginAction()

	body, err := r.client.Put(ctx, r.cfg.Path+"/"+url.PathEscape(id), payload, r.cfg.WriteAuth)
	var item T
	if err == nil {
		item, err = api.DecodeOne[T](r.cfg.ItemEnvelope, body)
	}

	r.resolveAction(seq, err, func() {
		if i := r.indexOfLocked(id); i >= 0 {
			r.items[i] = item
		}
		if r.focused != nil && r.cfg.ID(*r.focused) == id {
			focused := item
			r.focused = &focused
		}
	})
	if err != nil {
		return zero, err
	}
	return item, nil
}

// Delete removes a record. The matching collection entry is filtered out; a
// matching focused record is cleared.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	seq := r.beginAction()

	_, err := r.client.Delete(ctx, r.cfg.Path+"/"+url.PathEscape(id), r.cfg.WriteAuth)

	r.resolveAction(seq, err, func() {
		if i := r.indexOfLocked(id); i >= 0 {
			r.items = append(r.items[:i], r.items[i+1:]...)
		}
		if r.focused != nil && r.cfg.ID(*r.focused) == id {
			r.focused = nil
		}
	})
	return err
}
