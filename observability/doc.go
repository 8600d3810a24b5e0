// Package observability wires OpenTelemetry into httpclient.
//
// Providers:
//
//	cfg := observability.DefaultConfig("billing-worker")
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//	mp, err := observability.InitMeter(ctx, cfg)
//	defer mp.Shutdown(ctx)
//
// Client instrumentation:
//
//	om, err := observability.NewClientMetrics(observability.Meter("fex"))
//	client, err := httpclient.New(cfg,
//	    httpclient.WithTransport(observability.NewTransport(nil)),
//	    httpclient.WithObserver(om),
//	)
//
// The transport starts a client span per round trip and injects the trace
// context into the outgoing headers.
package observability
