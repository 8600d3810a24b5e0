package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/fex/version"
)

type options struct {
	configFile    string
	baseURL       string
	headers       []string
	params        []string
	data          string
	timeout       time.Duration
	include       bool
	verbose       bool
	credentials   bool
	repeat        int
	rate          float64
	stats         bool
	traceEndpoint string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "fex",
		Short: "Promise-style HTTP client for the command line",
		Long: `fex sends HTTP requests through the fex client pipeline.

Defaults are read from fex.yml, .env and FEX_* environment variables.
Relative URLs are resolved against --base-url or the configured base URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (default: ./fex.yml)")
	pf.StringVar(&opts.baseURL, "base-url", "", "Base URL for relative request URLs")
	pf.StringArrayVarP(&opts.headers, "header", "H", nil, "Request header (repeatable, e.g. -H 'Accept: text/plain')")
	pf.StringArrayVarP(&opts.params, "param", "q", nil, "Query parameter (repeatable, e.g. -q page=2)")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (0 uses the configured default)")
	pf.BoolVarP(&opts.include, "include", "i", false, "Print the status line and response headers")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log request lifecycle to stderr")
	pf.BoolVar(&opts.credentials, "credentials", false, "Keep cookies across repeated requests")
	pf.IntVarP(&opts.repeat, "repeat", "n", 1, "Number of times to send the request")
	pf.Float64Var(&opts.rate, "rate", 0, "Maximum requests per second when repeating (0 is unlimited)")
	pf.BoolVar(&opts.stats, "stats", false, "Print request statistics after the run")
	pf.StringVar(&opts.traceEndpoint, "trace-endpoint", "", "OTLP/HTTP endpoint to export request spans to")

	for _, method := range []string{"GET", "DELETE", "HEAD", "OPTIONS"} {
		root.AddCommand(newRequestCmd(method, false, opts))
	}
	for _, method := range []string{"POST", "PUT", "PATCH"} {
		root.AddCommand(newRequestCmd(method, true, opts))
	}
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			built := "unknown"
			if !info.BuildDate.IsZero() {
				built = info.BuildDate.Format(time.RFC3339)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built: %s, %s)\n",
				version.Product, info.String(), built, info.GoVersion)
		},
	}
}
