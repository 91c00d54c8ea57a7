package api

import (
	"encoding/json"
	"fmt"
)

// Envelope identifies the wrapper shape of a JSON response. The backend is
// not consistent across resources: some endpoints return the value directly,
// some wrap it in {data}, some wrap collections in {items} or a paginated
// {<key>, page, pages, count} object. Each resource declares its shape once
// instead of unwrapping inline at every call site.
type Envelope int

const (
	// EnvelopeBare decodes the response body directly into the target.
	EnvelopeBare Envelope = iota
	// EnvelopeData unwraps {"data": ...}.
	EnvelopeData
	// EnvelopeItems unwraps {"items": [...]}.
	EnvelopeItems
	// EnvelopePaginated unwraps {"<key>": [...], "page": n, "pages": n, "count": n}.
	EnvelopePaginated
)

// Page carries pagination fields from a paginated list response.
type Page struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Count int `json:"count"`
}

// DecodeList decodes a list response according to the envelope shape. The key
// parameter names the collection field for EnvelopePaginated responses and is
// ignored otherwise. A decode failure is reported as a client error, not a
// server message.
func DecodeList[T any](env Envelope, key string, data []byte) ([]T, Page, error) {
	switch env {
	case EnvelopeBare:
		var out []T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, Page{}, decodeError(err)
		}
		return out, Page{}, nil

	case EnvelopeData:
		var wrapper struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, Page{}, decodeError(err)
		}
		return wrapper.Data, Page{}, nil

	case EnvelopeItems:
		var wrapper struct {
			Items []T `json:"items"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, Page{}, decodeError(err)
		}
		return wrapper.Items, Page{}, nil

	case EnvelopePaginated:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, Page{}, decodeError(err)
		}
		var page Page
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, Page{}, decodeError(err)
		}
		collection, ok := raw[key]
		if !ok {
			return nil, Page{}, decodeError(fmt.Errorf("missing %q field", key))
		}
		var out []T
		if err := json.Unmarshal(collection, &out); err != nil {
			return nil, Page{}, decodeError(err)
		}
		return out, page, nil

	default:
		return nil, Page{}, decodeError(fmt.Errorf("unknown envelope %d", env))
	}
}

// DecodeOne decodes a single-record response. Paginated and item envelopes do
// not apply to single records; those resources return either the bare record
// or {data}.
func DecodeOne[T any](env Envelope, data []byte) (T, error) {
	var zero T
	switch env {
	case EnvelopeData:
		var wrapper struct {
			Data T `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return zero, decodeError(err)
		}
		return wrapper.Data, nil
	default:
		var out T
		if err := json.Unmarshal(data, &out); err != nil {
			return zero, decodeError(err)
		}
		return out, nil
	}
}

func decodeError(err error) *Error {
	return &Error{Status: 0, Message: fallbackMessage, cause: fmt.Errorf("decode response: %w", err)}
}
