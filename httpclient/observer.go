package httpclient

import (
	"time"

	"github.com/kbukum/fex/logger"
)

// Observer receives lifecycle notifications for every transport call.
// Implementations must be safe for concurrent use.
type Observer interface {
	// RequestStarted is called right before the transport call.
	RequestStarted(cfg *Config)
	// RequestFinished is called once the call settled, with the normalized
	// response (which may be nil) and the failure if any.
	RequestFinished(cfg *Config, resp *Response, err error, elapsed time.Duration)
	// RequestAborted is called when the call was aborted by timeout or cancellation.
	RequestAborted(cfg *Config, cause AbortCause)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) RequestStarted(*Config) {}
func (NopObserver) RequestFinished(*Config, *Response, error, time.Duration) {}
func (NopObserver) RequestAborted(*Config, AbortCause) {}

// Observers fans notifications out to each observer in order.
type Observers []Observer

func (o Observers) RequestStarted(cfg *Config) {
	for _, obs := range o {
		obs.RequestStarted(cfg)
	}
}

func (o Observers) RequestFinished(cfg *Config, resp *Response, err error, elapsed time.Duration) {
	for _, obs := range o {
		obs.RequestFinished(cfg, resp, err, elapsed)
	}
}

func (o Observers) RequestAborted(cfg *Config, cause AbortCause) {
	for _, obs := range o {
		obs.RequestAborted(cfg, cause)
	}
}

// LogObserver writes one structured log line per call.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates an observer logging to log under the "httpclient" component.
func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log.WithComponent("httpclient")}
}

func (o *LogObserver) RequestStarted(cfg *Config) {
	o.log.Debug("request started", logger.Fields(
		logger.FieldMethod, cfg.Method,
		logger.FieldURL, cfg.URL,
	))
}

func (o *LogObserver) RequestFinished(cfg *Config, resp *Response, err error, elapsed time.Duration) {
	fields := logger.DurationFields(logger.Fields(
		logger.FieldMethod, cfg.Method,
		logger.FieldURL, cfg.URL,
	), elapsed)
	if resp != nil {
		fields[logger.FieldStatus] = resp.Status
	}
	if err != nil {
		if IsAborted(err) {
			return
		}
		o.log.Warn("request failed", logger.MergeWithError(fields, err))
		return
	}
	o.log.Info("request finished", fields)
}

// RequestAborted logs aborts at error level.
func (o *LogObserver) RequestAborted(cfg *Config, cause AbortCause) {
	o.log.Error("request aborted", logger.Fields(
		logger.FieldMethod, cfg.Method,
		logger.FieldURL, cfg.URL,
		logger.FieldAbortCause, cause.String(),
	))
}
