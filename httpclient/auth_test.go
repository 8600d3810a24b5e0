package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func applyAuth(t *testing.T, a *AuthConfig) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "http://example.test/path?x=1", nil)
	if err := a.apply(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return req
}

func TestAuth_Variants(t *testing.T) {
	if got := applyAuth(t, BearerAuth("tok")).Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("unexpected bearer header %q", got)
	}

	req := applyAuth(t, BasicAuth("user", "pass"))
	if u, p, ok := req.BasicAuth(); !ok || u != "user" || p != "pass" {
		t.Errorf("unexpected basic auth %q %q %v", u, p, ok)
	}

	if got := applyAuth(t, APIKeyAuth("k")).Header.Get("X-API-Key"); got != "k" {
		t.Errorf("unexpected api key header %q", got)
	}
	if got := applyAuth(t, APIKeyAuthHeader("k", "X-Token")).Header.Get("X-Token"); got != "k" {
		t.Errorf("unexpected custom api key header %q", got)
	}

	req = applyAuth(t, APIKeyAuthQuery("k", "api_key"))
	if req.URL.Query().Get("api_key") != "k" || req.URL.Query().Get("x") != "1" {
		t.Errorf("unexpected query %s", req.URL.RawQuery)
	}

	req = applyAuth(t, CustomAuth(func(r *http.Request) { r.Header.Set("X-Custom", "yes") }))
	if req.Header.Get("X-Custom") != "yes" {
		t.Error("expected custom auth to run")
	}

	var none *AuthConfig
	if req := applyAuth(t, none); req.Header.Get("Authorization") != "" {
		t.Error("nil auth must not set headers")
	}
}

func TestAuth_JWT(t *testing.T) {
	key := []byte("test-secret")
	req := applyAuth(t, JWTAuth(JWTConfig{
		Key:      key,
		Issuer:   "fex",
		Subject:  "svc-a",
		Audience: []string{"api"},
		TTL:      time.Minute,
		Claims:   map[string]any{"scope": "read"},
	}))

	raw, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
	if !ok {
		t.Fatalf("expected bearer token, got %q", req.Header.Get("Authorization"))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("fex"),
		jwt.WithAudience("api"),
	)
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims["sub"] != "svc-a" || claims["scope"] != "read" {
		t.Errorf("unexpected claims %v", claims)
	}
}

func TestAuth_JWTWithoutKeyFailsRequest(t *testing.T) {
	c := newTestClient(t, Config{Auth: JWTAuth(JWTConfig{})}, WithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Error("transport must not be called")
		return nil, nil
	})))

	_, err := c.Get(context.Background(), "http://example.test/")
	e, ok := AsError(err)
	if !ok || e.Kind != KindRequest {
		t.Errorf("expected request error, got %v", err)
	}
}

func TestAuth_OverridesInterceptorHeader(t *testing.T) {
	srv := echoServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})
	c.Interceptors.Request.Use(SetHeader("Authorization", "Bearer from-interceptor"), nil)

	resp, err := c.Get(context.Background(), "/", WithAuth(BearerAuth("from-auth")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := decodeEcho(t, resp).Headers["Authorization"]; got != "Bearer from-auth" {
		t.Errorf("expected auth to win, got %q", got)
	}
}
