package httpclient

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/fex/logger"
)

// HeaderRequestID is the header set by RequestID.
const HeaderRequestID = "X-Request-Id"

// RequestID returns a request handler that tags calls with a fresh UUID
// unless an X-Request-Id header is already present.
func RequestID() Handler[Config] {
	return func(_ context.Context, cfg *Config) (*Config, error) {
		if cfg.Header(HeaderRequestID) == "" {
			cfg.SetHeader(HeaderRequestID, uuid.NewString())
		}
		return cfg, nil
	}
}

// SetHeader returns a request handler that sets a header on every call.
func SetHeader(key, value string) Handler[Config] {
	return func(_ context.Context, cfg *Config) (*Config, error) {
		cfg.SetHeader(key, value)
		return cfg, nil
	}
}

// LogRequests returns a request handler that logs each outgoing call.
func LogRequests(l *logger.Logger) Handler[Config] {
	return func(_ context.Context, cfg *Config) (*Config, error) {
		fields := logger.Fields(logger.FieldMethod, cfg.Method, logger.FieldURL, cfg.URL)
		if id := cfg.Header(HeaderRequestID); id != "" {
			fields[logger.FieldRequestID] = id
		}
		l.Info("request", fields)
		return cfg, nil
	}
}

// LogResponses returns a response handler and a rejection handler that log
// the outcome of each call. The rejection handler passes errors on unchanged.
func LogResponses(l *logger.Logger) (Handler[Response], RejectHandler) {
	onFulfilled := func(_ context.Context, resp *Response) (*Response, error) {
		l.Info("response", logger.Fields(
			logger.FieldMethod, resp.Config.Method,
			logger.FieldURL, resp.Config.URL,
			logger.FieldStatus, resp.Status,
		))
		return resp, nil
	}
	onRejected := func(_ context.Context, err error) error {
		fields := logger.Fields()
		if e, ok := AsError(err); ok {
			fields[logger.FieldMethod] = e.Config.Method
			fields[logger.FieldURL] = e.Config.URL
			if status := e.Status(); status != 0 {
				fields[logger.FieldStatus] = status
			}
		}
		l.Error("response error", logger.MergeWithError(fields, err))
		return err
	}
	return onFulfilled, onRejected
}

// OnStatus returns a rejection handler that calls fn for status failures
// with the given status code, such as a 401 triggering a re-login. A nil
// return from fn keeps the original error.
func OnStatus(status int, fn func(ctx context.Context, err *Error) error) RejectHandler {
	return func(ctx context.Context, err error) error {
		e, ok := AsError(err)
		if !ok || e.Kind != KindStatus || e.Status() != status {
			return err
		}
		if rerr := fn(ctx, e); rerr != nil {
			return rerr
		}
		return err
	}
}
