package httpclient

import (
	"net/http"
	"testing"
	"time"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, url, want string
	}{
		{"https://api.example.com", "/users", "https://api.example.com/users"},
		{"https://api.example.com/", "/users", "https://api.example.com/users"},
		{"https://api.example.com//", "users", "https://api.example.com/users"},
		{"https://api.example.com", "users", "https://api.example.com/users"},
		{"https://api.example.com/v1/", "//users/1", "https://api.example.com/v1/users/1"},
		{"https://api.example.com", "https://other.example.com/x", "https://other.example.com/x"},
		{"https://api.example.com", "ws://other.example.com/x", "ws://other.example.com/x"},
		{"https://api.example.com", "svn+ssh://host/repo", "svn+ssh://host/repo"},
		{"", "/users", "/users"},
		{"https://api.example.com", "", "https://api.example.com/"},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.url); got != tt.want {
			t.Errorf("ResolveURL(%q, %q): expected %q, got %q", tt.base, tt.url, tt.want, got)
		}
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	if !IsAbsoluteURL("HTTP://x") {
		t.Error("expected HTTP://x to be absolute")
	}
	for _, u := range []string{"/a", "a/b", "1http://x", "//host/path", "mailto:x"} {
		if IsAbsoluteURL(u) {
			t.Errorf("expected %q to be relative", u)
		}
	}
}

func TestMerge_HeadersKeyWise(t *testing.T) {
	defaults := Config{Headers: map[string]string{"A": "1", "B": "2"}}
	overrides := Config{Headers: map[string]string{"B": "3", "C": "4"}}

	got := Merge(defaults, overrides)

	want := map[string]string{"A": "1", "B": "3", "C": "4"}
	if len(got.Headers) != len(want) {
		t.Fatalf("expected %v, got %v", want, got.Headers)
	}
	for k, v := range want {
		if got.Headers[k] != v {
			t.Errorf("header %s: expected %q, got %q", k, v, got.Headers[k])
		}
	}
}

func TestMerge_HeaderKeysCaseInsensitive(t *testing.T) {
	defaults := Config{Headers: map[string]string{"content-type": "text/plain"}}
	overrides := Config{Headers: map[string]string{"CONTENT-TYPE": "application/xml"}}

	got := Merge(defaults, overrides)
	if len(got.Headers) != 1 {
		t.Fatalf("expected one header, got %v", got.Headers)
	}
	if got.Headers["Content-Type"] != "application/xml" {
		t.Errorf("expected override to win, got %v", got.Headers)
	}
}

func TestMerge_NeverNilAndNoAliasing(t *testing.T) {
	got := Merge(Config{}, Config{})
	if got.Headers == nil || got.Params == nil {
		t.Fatal("expected non-nil Headers and Params")
	}

	defaults := Config{Headers: map[string]string{"A": "1"}}
	merged := Merge(defaults, Config{})
	merged.Headers["A"] = "changed"
	if defaults.Headers["A"] != "1" {
		t.Error("merge result must not share maps with the defaults")
	}
}

func TestMerge_CopiesAuthAndTLS(t *testing.T) {
	defaults := Config{
		Auth: JWTAuth(JWTConfig{Key: []byte("k"), Audience: []string{"api"}, Claims: map[string]any{"role": "svc"}}),
		TLS:  &TLSConfig{ServerName: "api.internal"},
	}

	merged := Merge(defaults, Config{})
	merged.Auth.Token = "changed"
	merged.Auth.JWT.Audience[0] = "other"
	merged.Auth.JWT.Claims["role"] = "admin"
	merged.TLS.ServerName = "evil"

	if defaults.Auth.Token != "" {
		t.Errorf("expected default auth token untouched, got %q", defaults.Auth.Token)
	}
	if defaults.Auth.JWT.Audience[0] != "api" {
		t.Errorf("expected default audience api, got %q", defaults.Auth.JWT.Audience[0])
	}
	if defaults.Auth.JWT.Claims["role"] != "svc" {
		t.Errorf("expected default claim svc, got %v", defaults.Auth.JWT.Claims["role"])
	}
	if defaults.TLS.ServerName != "api.internal" {
		t.Errorf("expected default server name api.internal, got %q", defaults.TLS.ServerName)
	}

	cloned := defaults.Clone()
	if cloned.Auth == defaults.Auth || cloned.TLS == defaults.TLS {
		t.Error("expected Clone to copy Auth and TLS")
	}
}

func TestMerge_ScalarOverrides(t *testing.T) {
	token := NewCancelToken()
	defaults := Config{
		Method:  http.MethodGet,
		BaseURL: "https://a.example.com",
		Timeout: time.Second,
		Mode:    "cors",
		Params:  map[string]string{"page": "1"},
	}
	overrides := Config{
		Method:          http.MethodPost,
		Timeout:         -1,
		CancelToken:     token,
		WithCredentials: Bool(false),
		Params:          map[string]string{"size": "10"},
	}

	got := Merge(defaults, overrides)
	if got.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", got.Method)
	}
	if got.BaseURL != "https://a.example.com" {
		t.Errorf("expected inherited base URL, got %s", got.BaseURL)
	}
	if got.Timeout != -1 {
		t.Errorf("expected disabled timeout, got %v", got.Timeout)
	}
	if got.Mode != "cors" {
		t.Errorf("expected inherited mode, got %s", got.Mode)
	}
	if got.CancelToken != token {
		t.Error("expected override cancel token")
	}
	if got.WithCredentials == nil || *got.WithCredentials {
		t.Error("expected explicit false credentials to win")
	}
	if got.Params["page"] != "1" || got.Params["size"] != "10" {
		t.Errorf("expected merged params, got %v", got.Params)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"valid base URL", Config{BaseURL: "https://api.example.com"}, false},
		{"relative base URL", Config{BaseURL: "/api"}, true},
		{"bad mode", Config{Mode: "everywhere"}, true},
		{"negative max content length", Config{MaxContentLength: -1}, true},
		{"tls with transport", Config{TLS: &TLSConfig{SkipVerify: true}, Transport: http.DefaultTransport}, true},
		{"cert without key", Config{TLS: &TLSConfig{CertFile: "cert.pem"}}, true},
		{"key without cert", Config{TLS: &TLSConfig{KeyFile: "key.pem"}}, true},
		{"bad tls version", Config{TLS: &TLSConfig{MinVersion: "1.0"}}, true},
		{"tls ok", Config{TLS: &TLSConfig{SkipVerify: true, MinVersion: "1.3"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTLSConfig_Build(t *testing.T) {
	var nilCfg *TLSConfig
	if nilCfg.IsEnabled() {
		t.Error("nil config should not be enabled")
	}
	tc, err := (&TLSConfig{}).Build()
	if err != nil || tc != nil {
		t.Errorf("expected nil config for empty TLS settings, got %v, %v", tc, err)
	}

	tc, err = (&TLSConfig{SkipVerify: true, ServerName: "api.internal", MinVersion: "1.3"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tc.InsecureSkipVerify || tc.ServerName != "api.internal" {
		t.Errorf("unexpected tls config: %+v", tc)
	}

	if _, err := (&TLSConfig{CAFile: "/does/not/exist.pem"}).Build(); err == nil {
		t.Error("expected error for missing CA file")
	}
}
