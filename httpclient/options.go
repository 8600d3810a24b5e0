package httpclient

import (
	"net/http"
	"time"

	"github.com/kbukum/fex/logger"
)

// Option configures a Client at construction.
type Option func(*clientOptions)

type clientOptions struct {
	observers  []Observer
	httpClient *http.Client
	transport  http.RoundTripper
}

// WithObserver adds observers notified of every transport call.
func WithObserver(o ...Observer) Option {
	return func(opts *clientOptions) {
		opts.observers = append(opts.observers, o...)
	}
}

// WithLogger logs every call through a LogObserver.
func WithLogger(l *logger.Logger) Option {
	return WithObserver(NewLogObserver(l))
}

// WithTransport sets the instance transport, same as Config.Transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(opts *clientOptions) {
		opts.transport = rt
	}
}

// WithHTTPClient builds the instance on top of an existing http.Client,
// keeping its transport, redirect policy and cookie jar.
func WithHTTPClient(c *http.Client) Option {
	return func(opts *clientOptions) {
		opts.httpClient = c
	}
}

// RequestOption adjusts the per-call Config of a verb helper.
type RequestOption func(*Config)

// WithHeader sets a single request header.
func WithHeader(key, value string) RequestOption {
	return func(c *Config) { c.SetHeader(key, value) }
}

// WithHeaders sets several request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(c *Config) {
		for k, v := range headers {
			WithHeader(k, v)(c)
		}
	}
}

// WithParam sets a query parameter.
func WithParam(key, value string) RequestOption {
	return func(c *Config) {
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params[key] = value
	}
}

// WithTimeout sets the call timeout. A negative value disables the default one.
func WithTimeout(d time.Duration) RequestOption {
	return func(c *Config) { c.Timeout = d }
}

// WithCancelToken attaches a CancelToken to the call.
func WithCancelToken(t *CancelToken) RequestOption {
	return func(c *Config) { c.CancelToken = t }
}

// WithBaseURL overrides the base URL for the call.
func WithBaseURL(u string) RequestOption {
	return func(c *Config) { c.BaseURL = u }
}

// WithAuth overrides the authentication for the call.
func WithAuth(a *AuthConfig) RequestOption {
	return func(c *Config) { c.Auth = a }
}

// WithMode sets the cross-origin mode for the call.
func WithMode(mode string) RequestOption {
	return func(c *Config) { c.Mode = mode }
}

// WithCredentials turns the cookie jar on or off for the call.
func WithCredentials(enabled bool) RequestOption {
	return func(c *Config) { c.WithCredentials = Bool(enabled) }
}

// WithValidateStatus sets the status predicate for the call.
func WithValidateStatus(fn func(status int) bool) RequestOption {
	return func(c *Config) { c.ValidateStatus = fn }
}

// WithConfig merges a whole Config into the call configuration.
func WithConfig(cfg Config) RequestOption {
	return func(c *Config) { *c = Merge(*c, cfg) }
}

// ValidateStatus2xx accepts 2xx statuses only.
func ValidateStatus2xx(status int) bool {
	return status >= 200 && status < 300
}
