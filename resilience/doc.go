// Package resilience provides client-side rate limiting for httpclient.
//
// A RateLimiter is a token bucket (golang.org/x/time/rate) that plugs into
// a Client's request chain:
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Name: "api", Rate: 5, Burst: 10})
//	client.Interceptors.Request.Use(rl.Interceptor(), nil)
//
// In the default wait mode a call blocks until a token is available or its
// context ends. With FailFast set, calls over the limit fail immediately
// with ErrRateLimited.
package resilience
