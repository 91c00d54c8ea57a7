// Package api implements the HTTP client for the storefront backend. Every
// resource module issues its calls through one Client, which owns bearer
// injection, body limits, rate limiting and error normalization.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vjzest/architect-storefront/pkg/logger"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxBodySize = 8 << 20 // 8 MiB
)

// TokenSource supplies the current bearer token. An empty string means no
// authenticated session. The token is read synchronously at call time, it is
// never refreshed or queued (the backend owns token lifetime).
type TokenSource interface {
	Token() string
}

// Config configures the backend client.
type Config struct {
	// BaseURL is the root of the storefront API (e.g. https://api.example.com).
	BaseURL string
	// HTTPClient is used to execute requests. When nil, a default client with
	// a conservative timeout is used.
	HTTPClient *http.Client
	// Tokens supplies the bearer token for authenticated calls. When nil,
	// auth-required calls fail immediately.
	Tokens TokenSource
	// MaxBodyBytes caps response bodies to prevent memory exhaustion.
	MaxBodyBytes int64
	// RequestsPerSecond enables a client-side rate limiter when positive.
	RequestsPerSecond float64
	// Burst is the limiter burst size; defaults to 1 when the limiter is on.
	Burst int
	// Instrument wires the prometheus transport around HTTPClient.
	Instrument bool

	Log *logger.Logger
}

// Client executes REST calls against the storefront backend.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokens       TokenSource
	maxBodyBytes int64
	limiter      *rate.Limiter
	log          *logger.Logger
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: BaseURL scheme must be http or https")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if client.Timeout == 0 {
		client.Timeout = defaultTimeout
	}
	if cfg.Instrument {
		client.Transport = InstrumentTransport(client.Transport)
	}

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodySize
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	log := cfg.Log
	if log == nil {
		log = logger.NewDefault("api")
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   client,
		tokens:       cfg.Tokens,
		maxBodyBytes: maxBodyBytes,
		limiter:      limiter,
		log:          log,
	}, nil
}

// Get issues GET <path>?<query>.
func (c *Client) Get(ctx context.Context, path string, query url.Values, auth bool) ([]byte, error) {
	endpoint := path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, "", auth)
}

// Post issues POST <path> with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, auth bool) ([]byte, error) {
	reader, err := encodeJSON(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, reader, "application/json", auth)
}

// Put issues PUT <path> with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, auth bool) ([]byte, error) {
	reader, err := encodeJSON(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, reader, "application/json", auth)
}

// Delete issues DELETE <path>.
func (c *Client) Delete(ctx context.Context, path string, auth bool) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "", auth)
}

// File is one file part of a multipart upload.
type File struct {
	Field    string
	Name     string
	Contents []byte
}

// PostMultipart issues POST <path> as multipart/form-data. Used by
// file-bearing payloads (plan documents, gallery images); everything else
// goes through Post.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []File, auth bool) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("api: write form field %s: %w", key, err)
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, fmt.Errorf("api: create form file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Contents); err != nil {
			return nil, fmt.Errorf("api: write form file %s: %w", f.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("api: close multipart writer: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), auth)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, auth bool) ([]byte, error) {
	token := ""
	if auth {
		if c.tokens != nil {
			token = strings.TrimSpace(c.tokens.Token())
		}
		if token == "" {
			return nil, &Error{Status: http.StatusUnauthorized, Message: "not authorised, please log in"}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newTransportError(err)
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("method", method).WithField("path", path).Debug("request failed")
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newStatusError(resp.StatusCode, respBody)
		c.log.WithField("method", method).
			WithField("path", path).
			WithField("status", resp.StatusCode).
			Debug(apiErr.Message)
		return nil, apiErr
	}
	return respBody, nil
}

func encodeJSON(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("api: marshal body: %w", err)
	}
	return bytes.NewReader(data), nil
}
