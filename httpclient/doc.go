// Package httpclient is a small request pipeline over net/http with
// reusable client instances, merged default configuration, interceptor
// chains, body encoding and decoding by content type, and timeout and
// cancellation support.
//
// A call goes through these steps:
//
//	Merge(defaults, per-call Config) → URL resolution
//	  → request interceptors → transport (timeout / CancelToken abort)
//	  → normalization (decode by Content-Type, ValidateStatus)
//	  → response interceptors (or rejection handlers on failure)
//
// Basic usage:
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 10 * time.Second,
//	    Headers: map[string]string{"Accept": "application/json"},
//	})
//
//	client.Interceptors.Request.Use(httpclient.RequestID(), nil)
//
//	resp, err := client.Get(ctx, "/users/1")
//	user := resp.Data.(map[string]any)
//
// Failures are *Error values carrying a Kind (aborted, network, request,
// status, decode). Aborted failures also carry the AbortCause:
//
//	token := httpclient.NewCancelToken()
//	go token.Cancel("user navigated away")
//	_, err = client.Get(ctx, "/slow", httpclient.WithCancelToken(token))
//	if httpclient.IsCanceled(err) { ... }
//
// Unlike fetch-style clients that never reject on status, a Client can be
// made to reject with ValidateStatus:
//
//	client.Get(ctx, "/x", httpclient.WithValidateStatus(httpclient.ValidateStatus2xx))
package httpclient
