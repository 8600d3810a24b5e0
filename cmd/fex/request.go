package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kbukum/fex/config"
	"github.com/kbukum/fex/httpclient"
	"github.com/kbukum/fex/logger"
	"github.com/kbukum/fex/metrics"
	"github.com/kbukum/fex/observability"
	"github.com/kbukum/fex/resilience"
)

func newRequestCmd(method string, withBody bool, opts *options) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <url>",
		Short: "Send a " + method + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runRequest(ctx, cmd, opts, method, args[0], data)
		},
	}
	if withBody {
		cmd.Flags().StringVarP(&data, "data", "d", "", "Request body; JSON is sent as JSON, @file reads a file")
	}
	return cmd
}

func runRequest(ctx context.Context, cmd *cobra.Command, opts *options, method, url, data string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	cc, err := config.LoadClientConfig(loadOpts...)
	if err != nil {
		return err
	}
	if opts.verbose {
		cc.Logging.Level = "debug"
	}
	log := logger.NewWithWriter(cc.Logging, "fex", errOut)

	defaults := cc.HTTPConfig()
	defaults.ValidateStatus = httpclient.ValidateStatus2xx
	if opts.baseURL != "" {
		defaults.BaseURL = opts.baseURL
	}
	if opts.timeout != 0 {
		defaults.Timeout = opts.timeout
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollectorWithRegistry(reg)
	clientOpts := []httpclient.Option{httpclient.WithObserver(collector)}
	if opts.verbose {
		clientOpts = append(clientOpts, httpclient.WithLogger(log))
	}

	if opts.traceEndpoint != "" {
		oc := observability.DefaultConfig("fex")
		oc.Endpoint = opts.traceEndpoint
		tp, err := observability.InitTracer(ctx, oc)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", logger.MergeWithError(nil, err))
			}
		}()

		// The tracing transport replaces the default one, so TLS settings
		// move onto its base transport.
		base := http.DefaultTransport.(*http.Transport).Clone()
		tlsCfg, err := defaults.TLS.Build()
		if err != nil {
			return err
		}
		base.TLSClientConfig = tlsCfg
		defaults.TLS = nil
		clientOpts = append(clientOpts, httpclient.WithTransport(
			observability.NewTransport(base, observability.WithTracerProvider(tp))))
	}

	client, err := httpclient.New(defaults, clientOpts...)
	if err != nil {
		return err
	}
	client.Interceptors.Request.Use(httpclient.RequestID(), nil)

	if opts.rate > 0 {
		limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:    "cli",
			Rate:    opts.rate,
			Burst:   1,
			OnLimit: collector.RecordRateLimited,
		})
		client.Interceptors.Request.Use(limiter.Interceptor(), nil)
	}

	body, err := parseData(data)
	if err != nil {
		return err
	}
	reqCfg := httpclient.Config{Method: method, URL: url, Data: body}
	reqOpts, err := requestOptions(opts)
	if err != nil {
		return err
	}
	for _, o := range reqOpts {
		o(&reqCfg)
	}

	repeat := max(opts.repeat, 1)
	var failed error
	for range repeat {
		resp, err := client.Request(ctx, reqCfg)
		if err != nil {
			if e, ok := httpclient.AsError(err); ok && e.Response != nil {
				writeResponse(out, e.Response, opts.include)
			}
			if httpclient.IsAborted(err) {
				return err
			}
			failed = err
			continue
		}
		writeResponse(out, resp, opts.include)
	}

	if opts.stats {
		if err := writeStats(errOut, reg); err != nil {
			return err
		}
	}
	return failed
}

func requestOptions(opts *options) ([]httpclient.RequestOption, error) {
	var out []httpclient.RequestOption
	for _, h := range opts.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Key: Value'", h)
		}
		out = append(out, httpclient.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}
	for _, p := range opts.params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, expected key=value", p)
		}
		out = append(out, httpclient.WithParam(key, value))
	}
	if opts.credentials {
		out = append(out, httpclient.WithCredentials(true))
	}
	return out, nil
}

// parseData turns the --data flag into a request payload. Valid JSON is
// decoded so the client re-encodes it as JSON; anything else is sent as-is.
func parseData(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		raw = b
	}
	if json.Valid(raw) {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	return raw, nil
}

func writeResponse(w io.Writer, resp *httpclient.Response, include bool) {
	if include {
		fmt.Fprintf(w, "HTTP %d %s\n", resp.Status, resp.StatusText)
		keys := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %s\n", k, strings.Join(resp.Headers[k], ", "))
		}
		fmt.Fprintln(w)
	}

	switch v := resp.Data.(type) {
	case nil:
	case string:
		fmt.Fprintln(w, v)
	case []byte:
		w.Write(v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(w, "%v\n", v)
			return
		}
		fmt.Fprintln(w, string(b))
	}
}

func writeStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s{%s} count=%d sum=%gs\n", mf.GetName(), strings.Join(labels, ","), h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}
