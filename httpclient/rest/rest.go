package rest

import (
	"context"
	"net/http"

	"github.com/kbukum/fex/httpclient"
)

// Result is a response whose JSON body was decoded into T.
type Result[T any] struct {
	Status  int
	Headers http.Header
	Data    T
	// Response is the underlying normalized response.
	Response *httpclient.Response
}

// Get performs a GET request and decodes the JSON response into T.
func Get[T any](ctx context.Context, c *httpclient.Client, url string, opts ...httpclient.RequestOption) (*Result[T], error) {
	return do[T](ctx, c, http.MethodGet, url, nil, opts)
}

// Post performs a POST request with a JSON body and decodes the response into T.
func Post[T any](ctx context.Context, c *httpclient.Client, url string, body any, opts ...httpclient.RequestOption) (*Result[T], error) {
	return do[T](ctx, c, http.MethodPost, url, body, opts)
}

// Put performs a PUT request with a JSON body and decodes the response into T.
func Put[T any](ctx context.Context, c *httpclient.Client, url string, body any, opts ...httpclient.RequestOption) (*Result[T], error) {
	return do[T](ctx, c, http.MethodPut, url, body, opts)
}

// Patch performs a PATCH request with a JSON body and decodes the response into T.
func Patch[T any](ctx context.Context, c *httpclient.Client, url string, body any, opts ...httpclient.RequestOption) (*Result[T], error) {
	return do[T](ctx, c, http.MethodPatch, url, body, opts)
}

// Delete performs a DELETE request and decodes the response into T.
func Delete[T any](ctx context.Context, c *httpclient.Client, url string, opts ...httpclient.RequestOption) (*Result[T], error) {
	return do[T](ctx, c, http.MethodDelete, url, nil, opts)
}

func do[T any](ctx context.Context, c *httpclient.Client, method, url string, body any, opts []httpclient.RequestOption) (*Result[T], error) {
	cfg := httpclient.Config{Method: method, URL: url, Data: body}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Header("Accept") == "" {
		cfg.SetHeader("Accept", "application/json")
	}

	resp, err := c.Request(ctx, cfg)
	if err != nil {
		// Rejected statuses usually carry a JSON error document.
		if e, ok := httpclient.AsError(err); ok && e.Response != nil {
			var data T
			if e.Response.Bind(&data) == nil {
				return newResult(e.Response, data), err
			}
		}
		return nil, err
	}

	var data T
	if len(resp.Body()) > 0 {
		if err := resp.Bind(&data); err != nil {
			return nil, err
		}
	}
	return newResult(resp, data), nil
}

func newResult[T any](resp *httpclient.Response, data T) *Result[T] {
	return &Result[T]{
		Status:   resp.Status,
		Headers:  resp.Headers,
		Data:     data,
		Response: resp,
	}
}
