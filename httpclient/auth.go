package httpclient

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends a static bearer token.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey sends an API key in a header or query parameter.
	AuthAPIKey
	// AuthJWT signs a short-lived bearer token for every request.
	AuthJWT
	// AuthCustom runs a caller-supplied request modifier.
	AuthCustom
)

const defaultAPIKeyName = "X-API-Key"

// AuthConfig configures request authentication. Auth is applied after the
// request interceptors, so it overrides an Authorization header they set.
type AuthConfig struct {
	Type AuthType

	// Token is the bearer token (AuthBearer).
	Token string

	// Username and Password are the basic auth credentials (AuthBasic).
	Username string
	Password string

	// Key is the API key value (AuthAPIKey).
	Key string
	// In is "header" (default) or "query" (AuthAPIKey).
	In string
	// Name is the header or query parameter name. Defaults to "X-API-Key".
	Name string

	// JWT configures token signing (AuthJWT).
	JWT *JWTConfig

	// Apply modifies the outgoing request (AuthCustom).
	Apply func(*http.Request)
}

// JWTConfig describes the tokens signed by JWTAuth.
type JWTConfig struct {
	// Key is the signing key: []byte for HMAC, a private key for RSA/ECDSA/EdDSA.
	Key any
	// Method defaults to HS256.
	Method   jwt.SigningMethod
	Issuer   string
	Subject  string
	Audience []string
	// TTL defaults to five minutes.
	TTL time.Duration
	// Claims are added to the registered claims.
	Claims map[string]any
}

func (a *AuthConfig) clone() *AuthConfig {
	if a == nil {
		return nil
	}
	cp := *a
	if a.JWT != nil {
		jc := *a.JWT
		jc.Audience = slices.Clone(a.JWT.Audience)
		jc.Claims = maps.Clone(a.JWT.Claims)
		cp.JWT = &jc
	}
	return &cp
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: defaultAPIKeyName}
}

// APIKeyAuthHeader creates an API key auth config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// JWTAuth creates an auth config that signs a fresh token per request.
func JWTAuth(cfg JWTConfig) *AuthConfig {
	return &AuthConfig{Type: AuthJWT, JWT: &cfg}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

func (a *AuthConfig) apply(req *http.Request) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = defaultAPIKeyName
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthJWT:
		token, err := a.JWT.sign(time.Now())
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
	return nil
}

func (c *JWTConfig) sign(now time.Time) (string, error) {
	if c == nil || c.Key == nil {
		return "", fmt.Errorf("jwt: signing key is required")
	}
	method := c.Method
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	claims := jwt.MapClaims{}
	for k, v := range c.Claims {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(ttl))
	if c.Issuer != "" {
		claims["iss"] = c.Issuer
	}
	if c.Subject != "" {
		claims["sub"] = c.Subject
	}
	if len(c.Audience) > 0 {
		claims["aud"] = jwt.ClaimStrings(c.Audience)
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(c.Key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}
