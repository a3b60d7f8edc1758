// Package archive talks to the archive API over HTTP+JSON. Every endpoint has
// one decode boundary that maps wire shapes into domain types.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/domain"
)

const (
	maxJSONBytes  = 16 << 20
	maxMediaBytes = 256 << 20
)

// APIError is a non-2xx response. A 401 unwraps to domain.ErrUnauthorized.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API %s %s returned %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("API %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	return nil
}

// Client is a thin HTTP wrapper for the archive API.
// It handles base URL construction and bearer token injection.
type Client struct {
	baseURL string
	http    *http.Client
	media   *http.Client // Media files bypass the response cache
	cache   *sessionCache
	log     *zap.Logger
}

// NewClient creates an archive API client. JSON GETs go through an in-memory
// httpcache transport so unchanged listings revalidate cheaply. Media files
// use a plain client: their bytes are owned by blob handles only.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	cache := newSessionCache()
	transport := httpcache.NewTransport(cache)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
		media:   &http.Client{Timeout: timeout},
		cache:   cache,
		log:     log,
	}
}

// ResetCache drops every cached response. Called whenever the credential
// changes so one account can never revalidate against another's cache entry.
func (c *Client) ResetCache() {
	c.cache.reset()
}

func (c *Client) get(ctx context.Context, path, token string, limit int64) ([]byte, http.Header, error) {
	return c.do(ctx, http.MethodGet, path, token, "", nil, limit)
}

// getMedia is get without the response cache.
func (c *Client) getMedia(ctx context.Context, path, token string) ([]byte, http.Header, error) {
	return c.send(ctx, c.media, http.MethodGet, path, token, "", nil, maxMediaBytes)
}

func (c *Client) postJSON(ctx context.Context, path, token string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	data, _, err := c.do(ctx, http.MethodPost, path, token, "application/json", bytes.NewReader(body), maxJSONBytes)
	return data, err
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader, limit int64) ([]byte, http.Header, error) {
	return c.send(ctx, c.http, method, path, token, contentType, body, limit)
}

func (c *Client) send(ctx context.Context, hc *http.Client, method, path, token, contentType string, body io.Reader, limit int64) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, nil, fmt.Errorf("response from %s exceeds %d bytes", path, limit)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: errorMessage(data)}
		c.log.Debug("api error", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, nil, apiErr
	}

	return data, resp.Header, nil
}

// errorMessage prefers the {message} field and falls back to the plain body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return sanitizeText(body.Message)
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return sanitizeText(msg)
}

func schemaError(endpoint, detail string) error {
	return fmt.Errorf("%s: %s: %w", endpoint, detail, domain.ErrSchemaMismatch)
}

func decodeJSON(endpoint string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %v: %w", endpoint, err, domain.ErrSchemaMismatch)
	}
	return nil
}

// IsUnauthorized reports whether err came from a rejected credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// sessionCache is an httpcache.Cache whose contents can be swapped out as a
// whole while requests are in flight.
type sessionCache struct {
	mu    sync.RWMutex
	inner *httpcache.MemoryCache
}

var _ httpcache.Cache = (*sessionCache)(nil)

func newSessionCache() *sessionCache {
	return &sessionCache{inner: httpcache.NewMemoryCache()}
}

func (s *sessionCache) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Get(key)
}

func (s *sessionCache) Set(key string, resp []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.inner.Set(key, resp)
}

func (s *sessionCache) Delete(key string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.inner.Delete(key)
}

func (s *sessionCache) reset() {
	s.mu.Lock()
	s.inner = httpcache.NewMemoryCache()
	s.mu.Unlock()
}
