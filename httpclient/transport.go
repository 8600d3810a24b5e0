package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/fex/version"
)

// transport turns an effective Config into a transport call. It owns two
// http.Clients sharing one RoundTripper: one without cookies and one with
// a cookie jar for calls made WithCredentials.
type transport struct {
	rt         http.RoundTripper
	client     *http.Client
	credClient *http.Client
}

func newTransport(cfg Config, base *http.Client) (*transport, error) {
	client := &http.Client{}
	if base != nil {
		c := *base
		client = &c
	}

	rt, err := buildRoundTripper(cfg, client.Transport)
	if err != nil {
		return nil, err
	}
	client.Transport = rt

	jar := client.Jar
	if jar == nil {
		jar, err = cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
		}
	}
	credClient := *client
	credClient.Jar = jar
	client.Jar = nil

	return &transport{rt: rt, client: client, credClient: &credClient}, nil
}

// buildRoundTripper picks the instance RoundTripper: the configured one, the
// one of a supplied http.Client, or a clone of http.DefaultTransport. TLS
// settings are applied to *http.Transport values only.
func buildRoundTripper(cfg Config, current http.RoundTripper) (http.RoundTripper, error) {
	if cfg.Transport != nil {
		return cfg.Transport, nil
	}
	if current == nil {
		current = http.DefaultTransport
	}
	if !cfg.TLS.IsEnabled() {
		return current, nil
	}

	ht, ok := current.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("httpclient: tls settings need an *http.Transport, got %T", current)
	}
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	ht = ht.Clone()
	ht.TLSClientConfig = tlsCfg
	return ht, nil
}

func (t *transport) clientFor(cfg *Config) *http.Client {
	creds := cfg.WithCredentials != nil && *cfg.WithCredentials
	if cfg.Transport == nil {
		if creds {
			return t.credClient
		}
		return t.client
	}

	c := *t.client
	c.Transport = cfg.Transport
	if creds {
		c.Jar = t.credClient.Jar
	}
	return &c
}

// dispatch performs the transport call for cfg and normalizes the outcome.
// The call runs under its own abort context: the timeout and the
// CancelToken both cancel it, recording which of them fired first.
func (t *transport) dispatch(ctx context.Context, cfg *Config) (*Response, error) {
	ctx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	if cfg.Timeout > 0 {
		timer := time.AfterFunc(cfg.Timeout, func() { abort(ErrTimeout) })
		defer timer.Stop()
	}
	if tok := cfg.CancelToken; tok != nil {
		if tok.IsCanceled() {
			return nil, newAbortError(cfg, ErrCanceled)
		}
		stop := context.AfterFunc(tok.Context(), func() { abort(ErrCanceled) })
		defer stop()
	}

	req, err := buildRequest(ctx, cfg)
	if err != nil {
		return nil, err
	}

	raw, err := t.clientFor(cfg).Do(req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, newAbortError(cfg, cause)
		}
		return nil, newNetworkError(cfg, err)
	}

	resp, err := normalize(cfg, raw)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, newAbortError(cfg, cause)
		}
		return nil, newDecodeError(cfg, resp, err)
	}

	if cfg.ValidateStatus != nil && !cfg.ValidateStatus(resp.Status) {
		return nil, newStatusError(resp)
	}
	return resp, nil
}

func buildRequest(ctx context.Context, cfg *Config) (*http.Request, error) {
	header := make(http.Header, len(cfg.Headers)+2)
	for k, v := range cfg.Headers {
		header.Set(k, v)
	}

	var body io.Reader
	if cfg.Data != nil && hasBody(cfg.Method) {
		b, err := encodeBody(cfg.Data, header)
		if err != nil {
			return nil, newRequestError(cfg, "encode body", err)
		}
		body = b
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, newRequestError(cfg, "invalid url", err)
	}
	if len(cfg.Params) > 0 {
		q := u.Query()
		for k, v := range cfg.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, u.String(), body)
	if err != nil {
		return nil, newRequestError(cfg, "build request", err)
	}
	req.Header = header

	if cfg.Mode != "" {
		req.Header.Set("Sec-Fetch-Mode", cfg.Mode)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", version.UserAgent())
	}
	if err := cfg.Auth.apply(req); err != nil {
		return nil, newRequestError(cfg, "auth", err)
	}
	return req, nil
}
