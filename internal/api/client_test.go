package api

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/vjzest/architect-storefront/pkg/logger"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewDefault("api-test")
	log.SetOutput(io.Discard)

	client, err := New(Config{BaseURL: server.URL, Tokens: tokens, Log: log})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestNewValidatesBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for empty BaseURL")
	}
	if _, err := New(Config{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
	if _, err := New(Config{BaseURL: "https://example.com/"}); err != nil {
		t.Fatalf("valid https BaseURL rejected: %v", err)
	}
}

func TestGetSendsBearerAndQuery(t *testing.T) {
	var gotAuth, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}), staticTokens("tok-123"))

	query := url.Values{"keyword": []string{"villa"}, "page": []string{"2"}}
	if _, err := client.Get(context.Background(), "/api/products", query, true); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotQuery != "keyword=villa&page=2" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestAuthRequiredWithoutToken(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), staticTokens(""))

	_, err := client.Get(context.Background(), "/api/orders", nil, true)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if called {
		t.Fatalf("request must not reach the server without a token")
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"product name is required"}`))
	}), nil)

	_, err := client.Post(context.Background(), "/api/products", map[string]string{}, false)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Message(err); got != "product name is required" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestErrorFallbackMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"unexpected":"shape"}`))
	}), nil)

	_, err := client.Get(context.Background(), "/api/products", nil, false)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Message(err); got != fallbackMessage {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestNotFoundHelper(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such plan"}`))
	}), nil)

	_, err := client.Get(context.Background(), "/api/plans/missing", nil, false)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestPostMultipart(t *testing.T) {
	var contentType string
	var fields map[string][]string
	var fileName string
	var fileBytes []byte

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		fields = r.MultipartForm.Value
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		fileName = header.Filename
		fileBytes, _ = io.ReadAll(file)
		w.Write([]byte(`{}`))
	}), staticTokens("tok"))

	_, err := client.PostMultipart(context.Background(), "/api/gallery",
		map[string]string{"title": "Front elevation"},
		[]File{{Field: "image", Name: "front.jpg", Contents: []byte("jpeg-bytes")}},
		true,
	)
	if err != nil {
		t.Fatalf("post multipart: %v", err)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type: %q", contentType)
	}
	if got := fields["title"]; len(got) != 1 || got[0] != "Front elevation" {
		t.Fatalf("unexpected form fields: %v", fields)
	}
	if fileName != "front.jpg" || string(fileBytes) != "jpeg-bytes" {
		t.Fatalf("unexpected file: %q %q", fileName, fileBytes)
	}
}

func TestTransportErrorIsNormalized(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // force a connection error

	log := logger.NewDefault("api-test")
	log.SetOutput(io.Discard)
	client, err := New(Config{BaseURL: server.URL, Log: log})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Get(context.Background(), "/api/products", nil, false)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Message(err); got != fallbackMessage {
		t.Fatalf("transport errors must use the fallback message, got %q", got)
	}
}
