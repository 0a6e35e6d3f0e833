package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pypeek/pypeek/pkg/cache"
	"github.com/pypeek/pypeek/pkg/deps"
)

const httpTimeout = 10 * time.Second

// Endpoint defaults. Override the corresponding Client fields in tests.
const (
	DefaultBaseURL    = "https://pypi.org/pypi"
	DefaultSimpleURL  = "https://pypi.org/simple"
	DefaultProjectURL = "https://pypi.org/project"
	DefaultUserURL    = "https://pypi.org/user"
)

var (
	// ErrNotFound is returned when a package, project page, or user doesn't
	// exist on PyPI.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches package data from the PyPI JSON API and the HTML pages
// that have no API equivalent (the simple index and user project listings).
// Responses are cached through a [cache.Cache] backend and transient
// failures are retried with backoff.
//
// All methods are safe for concurrent use.
type Client struct {
	// BaseURL is the JSON API root (default https://pypi.org/pypi).
	BaseURL string
	// SimpleURL is the simple index root (default https://pypi.org/simple).
	SimpleURL string
	// ProjectURL is the human project page root (default https://pypi.org/project).
	ProjectURL string
	// UserURL is the user page root (default https://pypi.org/user).
	UserURL string

	http  *http.Client
	cache cache.Cache
	ttl   time.Duration
}

// NewClient creates a PyPI client with the given cache backend and TTL for
// cached responses. Use [cache.NullCache] to disable caching.
func NewClient(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		SimpleURL:  DefaultSimpleURL,
		ProjectURL: DefaultProjectURL,
		UserURL:    DefaultUserURL,
		http:       &http.Client{Timeout: httpTimeout},
		cache:      backend,
		ttl:        ttl,
	}
}

// FetchInfo retrieves the typed package info for pkg from the JSON API.
// The package name is normalized (PEP 503) before the request. If refresh
// is true the cache is bypassed.
//
// Returns [ErrNotFound] if the package doesn't exist and [ErrNetwork] for
// HTTP failures.
func (c *Client) FetchInfo(ctx context.Context, pkg string, refresh bool) (*Info, error) {
	pkg = deps.NormalizeKey(pkg)
	var info Info
	err := c.cached(ctx, "pypi:info:"+pkg, refresh, &info, func() error {
		return c.getJSON(ctx, fmt.Sprintf("%s/%s/json", c.BaseURL, pkg), &info)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: pypi package %s", ErrNotFound, pkg)
		}
		return nil, err
	}
	return &info, nil
}

// FetchRawInfo retrieves the untyped JSON document for pkg: the full nested
// structure with info, last_serial, releases, urls, and vulnerabilities.
// Use [Client.FetchInfo] for the typed view.
func (c *Client) FetchRawInfo(ctx context.Context, pkg string, refresh bool) (map[string]any, error) {
	pkg = deps.NormalizeKey(pkg)
	var doc map[string]any
	err := c.cached(ctx, "pypi:raw:"+pkg, refresh, &doc, func() error {
		return c.getJSON(ctx, fmt.Sprintf("%s/%s/json", c.BaseURL, pkg), &doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// HasProjectPage reports whether pkg has a human project page on PyPI.
// This is an uncached HEAD-equivalent check.
func (c *Client) HasProjectPage(ctx context.Context, pkg string) (bool, error) {
	url := fmt.Sprintf("%s/%s", c.ProjectURL, deps.NormalizeKey(pkg))
	body, err := c.get(ctx, url)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	body.Close()
	return true, nil
}

// cached retrieves a JSON value from the cache or executes fetch and caches
// the result. If refresh is true the cache is bypassed; fetch runs under
// retry with backoff either way.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if err := json.Unmarshal(data, v); err == nil {
				return nil
			}
		}
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// getJSON performs a GET and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// getText performs a GET and returns the body as a string. Used for the
// HTML endpoints.
func (c *Client) getText(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
