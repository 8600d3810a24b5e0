package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client issues requests through its interceptor chains using merged
// default configuration. A Client is safe for concurrent use; its defaults
// are never mutated by a call.
type Client struct {
	// Interceptors are run for every call made through this Client.
	Interceptors *Interceptors

	defaults  Config
	transport *transport
	observer  Observer
}

// New creates a Client whose calls start from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport != nil {
		cfg.Transport = o.transport
	}

	cfg = cfg.Clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("httpclient: invalid config: %w", err)
	}

	t, err := newTransport(cfg, o.httpClient)
	if err != nil {
		return nil, err
	}
	// The instance transport lives in t; a Transport on the merged call
	// config is then always a per-call override.
	cfg.Transport = nil

	var observer Observer = NopObserver{}
	switch len(o.observers) {
	case 0:
	case 1:
		observer = o.observers[0]
	default:
		observer = Observers(o.observers)
	}

	return &Client{
		Interceptors: &Interceptors{},
		defaults:     cfg,
		transport:    t,
		observer:     observer,
	}, nil
}

// Create returns a new, independent Client configured by cfg. It shares
// nothing with the package default instance.
func Create(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg, opts...)
}

// Create returns a new, independent Client configured by cfg. The new
// Client does not inherit c's defaults, interceptors or observers.
func (c *Client) Create(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg, opts...)
}

// Defaults returns a copy of the default configuration.
func (c *Client) Defaults() Config {
	return c.defaults.Clone()
}

// Request runs one call: merge, request interceptors, transport,
// normalization, response interceptors.
func (c *Client) Request(ctx context.Context, cfg Config) (*Response, error) {
	eff := Merge(c.defaults, cfg)
	eff.Method = strings.ToUpper(eff.Method)
	if eff.Method == "" {
		eff.Method = http.MethodGet
	}
	eff.URL = ResolveURL(eff.BaseURL, eff.URL)
	return c.do(ctx, &eff)
}

func (c *Client) do(ctx context.Context, cfg *Config) (*Response, error) {
	reqChain := c.Interceptors.Request.snapshot()
	respChain := c.Interceptors.Response.snapshot()

	out, err := run(ctx, reqChain, cfg)
	if err != nil {
		return nil, err
	}
	if out.Headers == nil {
		out.Headers = make(map[string]string)
	}

	start := time.Now()
	c.observer.RequestStarted(out)
	resp, err := c.transport.dispatch(ctx, out)
	c.observer.RequestFinished(out, resp, err, time.Since(start))

	if err != nil {
		if e, ok := AsError(err); ok && e.Kind == KindAborted {
			c.observer.RequestAborted(out, e.Cause)
			return nil, err
		}
		return nil, reject(ctx, respChain, err)
	}
	return run(ctx, respChain, resp)
}

func (c *Client) call(ctx context.Context, method, url string, data any, opts []RequestOption) (*Response, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Method = method
	cfg.URL = url
	if data != nil {
		cfg.Data = data
	}
	return c.Request(ctx, cfg)
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.call(ctx, http.MethodGet, url, nil, opts)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.call(ctx, http.MethodDelete, url, nil, opts)
}

// Options sends an OPTIONS request.
func (c *Client) Options(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.call(ctx, http.MethodOptions, url, nil, opts)
}

// Head sends a HEAD request.
func (c *Client) Head(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.call(ctx, http.MethodHead, url, nil, opts)
}

// Post sends a POST request with data as the payload.
func (c *Client) Post(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return c.call(ctx, http.MethodPost, url, data, opts)
}

// Put sends a PUT request with data as the payload.
func (c *Client) Put(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return c.call(ctx, http.MethodPut, url, data, opts)
}

// Patch sends a PATCH request with data as the payload.
func (c *Client) Patch(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return c.call(ctx, http.MethodPatch, url, data, opts)
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns the package-wide Client used by the package-level helpers.
func Default() *Client {
	defaultOnce.Do(func() {
		// An empty Config always validates and needs no TLS setup.
		defaultClient, _ = New(Config{})
	})
	return defaultClient
}

// Get sends a GET request through the default Client.
func Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return Default().Get(ctx, url, opts...)
}

// Delete sends a DELETE request through the default Client.
func Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return Default().Delete(ctx, url, opts...)
}

// Options sends an OPTIONS request through the default Client.
func Options(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return Default().Options(ctx, url, opts...)
}

// Head sends a HEAD request through the default Client.
func Head(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return Default().Head(ctx, url, opts...)
}

// Post sends a POST request through the default Client.
func Post(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return Default().Post(ctx, url, data, opts...)
}

// Put sends a PUT request through the default Client.
func Put(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return Default().Put(ctx, url, data, opts...)
}

// Patch sends a PATCH request through the default Client.
func Patch(ctx context.Context, url string, data any, opts ...RequestOption) (*Response, error) {
	return Default().Patch(ctx, url, data, opts...)
}

// Request runs a call through the default Client.
func Request(ctx context.Context, cfg Config) (*Response, error) {
	return Default().Request(ctx, cfg)
}
