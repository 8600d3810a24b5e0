package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/fex/httpclient"
	"github.com/kbukum/fex/logger"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ClientMetrics is an httpclient.Observer recording OpenTelemetry
// instruments for client calls.
type ClientMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
	abortTotal      metric.Int64Counter
}

var _ httpclient.Observer = (*ClientMetrics)(nil)

// NewClientMetrics creates the client instruments on meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requestTotal, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Total number of client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of client requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.request.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("http.client.active_requests",
		metric.WithDescription("Number of in-flight client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.active_requests counter: %w", err)
	}

	abortTotal, err := meter.Int64Counter("http.client.abort.total",
		metric.WithDescription("Client requests aborted by timeout or cancellation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.abort.total counter: %w", err)
	}

	return &ClientMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
		abortTotal:      abortTotal,
	}, nil
}

func (m *ClientMetrics) RequestStarted(cfg *httpclient.Config) {
	m.requestActive.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("http.request.method", cfg.Method)))
}

func (m *ClientMetrics) RequestFinished(cfg *httpclient.Config, resp *httpclient.Response, err error, elapsed time.Duration) {
	ctx := context.Background()
	method := attribute.String("http.request.method", cfg.Method)
	m.requestActive.Add(ctx, -1, metric.WithAttributes(method))

	outcome := "ok"
	status := 0
	if resp != nil {
		status = resp.Status
	}
	if e, ok := httpclient.AsError(err); ok {
		outcome = e.Kind.String()
		if status == 0 {
			status = e.Status()
		}
	} else if err != nil {
		outcome = "error"
	}

	attrs := metric.WithAttributes(method,
		attribute.Int("http.response.status_code", status),
		attribute.String("outcome", outcome),
	)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *ClientMetrics) RequestAborted(cfg *httpclient.Config, cause httpclient.AbortCause) {
	m.abortTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("http.request.method", cfg.Method),
		attribute.String("cause", cause.String()),
	))
}
