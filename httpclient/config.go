package httpclient

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kbukum/fex/validation"
)

// Config is both the default configuration of a Client and the per-call
// override. The pipeline merges the two into a fresh effective Config for
// every call; the effective Config is what interceptors receive.
type Config struct {
	// Method is the HTTP method. Verb helpers set it; Request defaults it to GET.
	Method string `yaml:"method" mapstructure:"method"`

	// URL is the request URL. Relative URLs are joined onto BaseURL.
	URL string `yaml:"url" mapstructure:"url"`

	// BaseURL is prepended to relative request URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,httpurl"`

	// Headers are merged key-wise with the defaults; keys are canonicalized.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Params are URL query parameters, merged key-wise like Headers.
	Params map[string]string `yaml:"params" mapstructure:"params"`

	// Data is the request payload. Verb helpers set it from their data argument.
	// It is never sent with GET or HEAD.
	Data any `yaml:"-" mapstructure:"-" validate:"-"`

	// Timeout aborts the transport call once it elapses. Zero inherits the
	// default; a negative value disables the timeout for the call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// CancelToken aborts the transport call when canceled.
	CancelToken *CancelToken `yaml:"-" mapstructure:"-" validate:"-"`

	// Mode is the cross-origin mode, forwarded as Sec-Fetch-Mode.
	Mode string `yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=cors no-cors same-origin navigate"`

	// WithCredentials enables the client's cookie jar for the call.
	WithCredentials *bool `yaml:"with_credentials" mapstructure:"with_credentials"`

	// MaxContentLength bounds the response body size in bytes. Zero means unbounded.
	MaxContentLength int64 `yaml:"max_content_length" mapstructure:"max_content_length" validate:"min=0"`

	// ValidateStatus decides which statuses resolve the call. Nil accepts every status.
	ValidateStatus func(status int) bool `yaml:"-" mapstructure:"-" validate:"-"`

	// Auth applies authentication to the outgoing request.
	Auth *AuthConfig `yaml:"-" mapstructure:"-" validate:"-"`

	// Transport replaces the client's transport for the call.
	Transport http.RoundTripper `yaml:"-" mapstructure:"-" validate:"-"`

	// TLS configures the transport built by New. It has no effect per call.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	if c.Params == nil {
		c.Params = make(map[string]string)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge(validation.Validate(c))
	if c.TLS.IsEnabled() {
		v.Check(c.Transport == nil, "tls", "cannot be combined with a custom transport")
		v.Check((c.TLS.CertFile != "") == (c.TLS.KeyFile != ""), "tls", "cert_file and key_file must be provided together")
	}
	return v.Err()
}

// Clone returns a copy of c that shares no maps, Auth or TLS values with it.
func (c Config) Clone() Config {
	c.Headers = mergeHeaders(c.Headers, nil)
	c.Params = mergeParams(c.Params, nil)
	c.Auth = c.Auth.clone()
	c.TLS = c.TLS.clone()
	return c
}

// SetHeader sets a header, canonicalizing its key.
func (c *Config) SetHeader(key, value string) {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[http.CanonicalHeaderKey(key)] = value
}

// Header returns the value of a header, matching the key case-insensitively.
func (c *Config) Header(key string) string {
	return c.Headers[http.CanonicalHeaderKey(key)]
}

// Bool returns a pointer to b, for Config.WithCredentials.
func Bool(b bool) *bool {
	return &b
}

// Merge combines defaults and overrides into a new Config. Non-zero override
// fields win; Headers and Params are merged key by key with the override
// winning per key. The result never shares maps, Auth or TLS values with its
// inputs and its Headers are never nil.
func Merge(defaults, overrides Config) Config {
	out := defaults

	if overrides.Method != "" {
		out.Method = overrides.Method
	}
	if overrides.URL != "" {
		out.URL = overrides.URL
	}
	if overrides.BaseURL != "" {
		out.BaseURL = overrides.BaseURL
	}
	if overrides.Data != nil {
		out.Data = overrides.Data
	}
	if overrides.Timeout != 0 {
		out.Timeout = overrides.Timeout
	}
	if overrides.CancelToken != nil {
		out.CancelToken = overrides.CancelToken
	}
	if overrides.Mode != "" {
		out.Mode = overrides.Mode
	}
	if overrides.WithCredentials != nil {
		out.WithCredentials = overrides.WithCredentials
	}
	if overrides.MaxContentLength != 0 {
		out.MaxContentLength = overrides.MaxContentLength
	}
	if overrides.ValidateStatus != nil {
		out.ValidateStatus = overrides.ValidateStatus
	}
	if overrides.Auth != nil {
		out.Auth = overrides.Auth
	}
	if overrides.Transport != nil {
		out.Transport = overrides.Transport
	}
	if overrides.TLS != nil {
		out.TLS = overrides.TLS
	}

	out.Headers = mergeHeaders(defaults.Headers, overrides.Headers)
	out.Params = mergeParams(defaults.Params, overrides.Params)
	out.Auth = out.Auth.clone()
	out.TLS = out.TLS.clone()
	return out
}

func mergeHeaders(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range override {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}

func mergeParams(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// IsAbsoluteURL reports whether u starts with a scheme ("https://", "ws://").
func IsAbsoluteURL(u string) bool {
	return schemePrefix.MatchString(u)
}

// ResolveURL joins a relative u onto baseURL with exactly one slash between
// them. Absolute URLs and an empty baseURL leave u unchanged.
func ResolveURL(baseURL, u string) string {
	if baseURL == "" || IsAbsoluteURL(u) {
		return u
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(u, "/")
}
