package httpclient_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/kbukum/fex/httpclient"
	"github.com/kbukum/fex/testutil"
)

func newEchoClient(t *testing.T) (*httpclient.Client, *testutil.EchoServer) {
	t.Helper()
	srv := testutil.NewEchoServer()
	testutil.T(t).Setup(srv)
	client, err := httpclient.New(httpclient.Config{BaseURL: srv.URL()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, srv
}

func TestEcho_PostJSONRoundTrip(t *testing.T) {
	client, srv := newEchoClient(t)

	resp, err := client.Post(context.Background(), "/echo/items", map[string]any{"name": "widget"},
		httpclient.WithParam("v", "2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var echo testutil.Echo
	if err := resp.Bind(&echo); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if echo.Body != `{"name":"widget"}` {
		t.Errorf("expected JSON body, got %q", echo.Body)
	}
	if echo.Query["v"][0] != "2" {
		t.Errorf("expected v=2, got %v", echo.Query["v"])
	}

	last := srv.LastRequest()
	if ct := last.Headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if ua := last.Headers.Get("User-Agent"); ua == "" {
		t.Error("expected default User-Agent")
	}
}

func TestEcho_StatusRejected(t *testing.T) {
	client, _ := newEchoClient(t)

	resp, err := client.Get(context.Background(), "/status/503")
	if err != nil {
		t.Fatalf("expected every status to resolve by default, got %v", err)
	}
	if resp.Status != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.Status)
	}

	_, err = client.Get(context.Background(), "/status/503", httpclient.WithValidateStatus(httpclient.ValidateStatus2xx))
	if !httpclient.IsStatus(err) {
		t.Fatalf("expected status error, got %v", err)
	}
	if e, _ := httpclient.AsError(err); e.Status() != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", e.Status())
	}
}

func TestEcho_TimeoutAgainstSlowServer(t *testing.T) {
	client, _ := newEchoClient(t)

	start := time.Now()
	_, err := client.Get(context.Background(), "/delay/2000", httpclient.WithTimeout(50*time.Millisecond))
	if !httpclient.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected abort well before the server replied, took %v", elapsed)
	}
}

func TestEcho_TextAndBinaryDecoding(t *testing.T) {
	client, _ := newEchoClient(t)
	ctx := context.Background()

	resp, err := client.Get(ctx, "/text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := resp.Data.(string); !ok || s != "hello from echo" {
		t.Errorf("expected string data, got %#v", resp.Data)
	}

	resp, err = client.Get(ctx, "/bytes/8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := resp.Data.([]byte); !ok || len(b) != 8 {
		t.Errorf("expected 8 raw bytes, got %#v", resp.Data)
	}
}

func TestEcho_Events(t *testing.T) {
	client, _ := newEchoClient(t)

	resp, err := client.Get(context.Background(), "/events", httpclient.WithParam("n", "3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events, err := httpclient.Events(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[2].Event != "tick" || events[2].Data != "3" {
		t.Errorf("unexpected last event %+v", events[2])
	}
}

func TestEcho_CredentialsKeepCookies(t *testing.T) {
	client, _ := newEchoClient(t)
	ctx := context.Background()

	if _, err := client.Get(ctx, "/cookies/set", httpclient.WithCredentials(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := client.Get(ctx, "/cookies", httpclient.WithCredentials(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, _ := resp.Data.(map[string]any); m["session"] != "abc" {
		t.Errorf("expected session cookie sent with credentials, got %#v", resp.Data)
	}

	resp, err = client.Get(ctx, "/cookies")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, _ := resp.Data.(map[string]any); len(m) != 0 {
		t.Errorf("expected no cookies without credentials, got %#v", resp.Data)
	}
}
