package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/fex/httpclient"
	"github.com/kbukum/fex/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func startEcho(t *testing.T) *testutil.EchoServer {
	t.Helper()
	srv := testutil.NewEchoServer()
	testutil.T(t).Setup(srv)
	return srv
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "fex ") {
		t.Errorf("expected output to start with 'fex ', got %q", out)
	}
}

func TestGetCommand(t *testing.T) {
	srv := startEcho(t)

	out, _, err := execute(t, "get", "/echo/users",
		"--base-url", srv.URL(),
		"-H", "X-Team: core",
		"-q", "page=2",
		"-i",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "HTTP 200 OK\n") {
		t.Errorf("expected status line, got %q", out)
	}
	if !strings.Contains(out, `"path": "/echo/users"`) {
		t.Errorf("expected echoed path in output, got %q", out)
	}

	last := srv.LastRequest()
	if last.Headers.Get("X-Team") != "core" {
		t.Errorf("expected X-Team header, got %q", last.Headers.Get("X-Team"))
	}
	if last.Query["page"][0] != "2" {
		t.Errorf("expected page=2, got %v", last.Query["page"])
	}
	if last.Headers.Get(httpclient.HeaderRequestID) == "" {
		t.Error("expected request id header")
	}
}

func TestPostCommand_JSONAndRawData(t *testing.T) {
	srv := startEcho(t)

	if _, _, err := execute(t, "post", srv.URL()+"/echo/items", "-d", `{"name":"ada"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := srv.LastRequest()
	if string(last.Body) != `{"name":"ada"}` {
		t.Errorf("expected JSON body, got %q", last.Body)
	}
	if ct := last.Headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	if _, _, err := execute(t, "put", srv.URL()+"/echo/items", "-d", "plain words"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := string(srv.LastRequest().Body); body != "plain words" {
		t.Errorf("expected raw body, got %q", body)
	}
}

func TestPostCommand_DataFile(t *testing.T) {
	srv := startEcho(t)
	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(`[1,2,3]`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "patch", srv.URL()+"/echo/list", "-d", "@"+path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := string(srv.LastRequest().Body); body != `[1,2,3]` {
		t.Errorf("expected file body, got %q", body)
	}
}

func TestStatusErrorIsReturned(t *testing.T) {
	srv := startEcho(t)

	_, _, err := execute(t, "delete", srv.URL()+"/status/404")
	if !httpclient.IsStatus(err) {
		t.Fatalf("expected status error, got %v", err)
	}

	out, _, err := execute(t, "get", srv.URL()+"/status/500", "-i")
	if !httpclient.IsStatus(err) {
		t.Fatalf("expected status error, got %v", err)
	}
	if !strings.HasPrefix(out, "HTTP 500 Internal Server Error\n") {
		t.Errorf("expected failed response to be printed, got %q", out)
	}
}

func TestTimeoutFlag(t *testing.T) {
	srv := startEcho(t)

	_, _, err := execute(t, "get", srv.URL()+"/delay/2000", "--timeout", "50ms")
	if !httpclient.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestRepeatWithRateAndStats(t *testing.T) {
	srv := startEcho(t)

	_, errOut, err := execute(t, "get", srv.URL()+"/text", "-n", "3", "--rate", "20", "--stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(srv.Requests()); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
	if !strings.Contains(errOut, "fex_requests_total{") || !strings.Contains(errOut, "status_code=200") {
		t.Errorf("expected request totals in stats, got %q", errOut)
	}
	if !strings.Contains(errOut, "fex_rate_limited_total{limiter=cli}") {
		t.Errorf("expected rate limited counter in stats, got %q", errOut)
	}
}

func TestCredentialsFlag(t *testing.T) {
	srv := startEcho(t)

	if _, _, err := execute(t, "get", srv.URL()+"/cookies/set", "--credentials"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The cookie jar lives for a single invocation.
	out, _, err := execute(t, "get", srv.URL()+"/cookies", "--credentials")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "session") {
		t.Errorf("expected no cookie across invocations, got %q", out)
	}
}

func TestInvalidFlags(t *testing.T) {
	if _, _, err := execute(t, "get", "http://example.com", "-H", "broken"); err == nil {
		t.Error("expected error for malformed header")
	}
	if _, _, err := execute(t, "get", "http://example.com", "-q", "novalue"); err == nil {
		t.Error("expected error for malformed param")
	}
	if _, _, err := execute(t, "get"); err == nil {
		t.Error("expected error for missing url")
	}
}

func TestParseData(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "<nil>"},
		{`{"a":1}`, "map[a:1]"},
		{"null", "[110 117 108 108]"},
		{"hello", "[104 101 108 108 111]"},
	}
	for _, tt := range tests {
		got, err := parseData(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if s := fmt.Sprint(got); s != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, s)
		}
	}
}
