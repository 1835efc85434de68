package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/quic-go/quic-go/http3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/showme/internal/core/httpclient"
	"github.com/zeusync/showme/internal/core/monitor"
	"github.com/zeusync/showme/internal/core/observability/log"
	"github.com/zeusync/showme/internal/injector"
)

type options struct {
	configPath   string
	scope        monitor.Scope
	threshold    int
	logLevel     string
	useHTTP3     bool
	wsURLs       []string
	clientErrors int
	concurrency  int
	timeout      time.Duration
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "showme [url...]",
		Short: "Fire network and client errors at an error-rate monitor",
		Long: `showme requests every URL through an intercepted HTTP client, dials the
given websocket endpoints, and raises client errors on the global error
channel. The monitor logs each recorded error and warns once the count
exceeds the threshold.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML file with error_scope and error_threshold")
	flags.Var(&opts.scope, "scope", `errors to count: "client", "network" or "both"`)
	flags.IntVarP(&opts.threshold, "threshold", "t", monitor.DefaultThreshold, "warn once the count exceeds this value")
	flags.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flags.BoolVar(&opts.useHTTP3, "http3", false, "send requests over HTTP/3")
	flags.StringSliceVar(&opts.wsURLs, "ws", nil, "websocket endpoints to dial")
	flags.IntVar(&opts.clientErrors, "client-errors", 0, "number of client errors to raise")
	flags.IntVar(&opts.concurrency, "concurrency", 4, "parallel requests")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")

	return cmd
}

func loadMonitorConfig(cmd *cobra.Command, opts *options) (monitor.Config, error) {
	config := monitor.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := monitor.LoadConfigFile(opts.configPath)
		if err != nil {
			return monitor.Config{}, err
		}
		config = loaded
	}
	if cmd.Flags().Changed("scope") {
		config.Scope = opts.scope
	}
	if cmd.Flags().Changed("threshold") {
		config.Threshold = opts.threshold
	}
	if config.Threshold < 0 {
		return monitor.Config{}, fmt.Errorf("threshold must not be negative, got %d", config.Threshold)
	}
	return config, nil
}

func run(cmd *cobra.Command, opts *options, urls []string) (err error) {
	config, err := loadMonitorConfig(cmd, opts)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}

	clientConfig := httpclient.DefaultConfig()
	clientConfig.Timeout = opts.timeout
	if opts.useHTTP3 {
		transport := &http3.Transport{}
		defer transport.Close()
		clientConfig.Transport = transport
	}

	app := injector.InitializeApp(config, clientConfig, level)
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err = app.Monitor.Start(); err != nil {
		return err
	}

	out := &syncWriter{w: cmd.OutOrStdout()}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	g := &errgroup.Group{}
	g.SetLimit(max(opts.concurrency, 1))
	for _, u := range urls {
		g.Go(func() error {
			resp, err := app.Client.Get(ctx, u)
			if err != nil {
				out.printf("GET %s: %v\n", u, err)
				return nil
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			out.printf("GET %s: %s\n", u, resp.Status)
			return nil
		})
	}
	for _, u := range opts.wsURLs {
		g.Go(func() error {
			conn, resp, err := app.Client.DialWebSocket(ctx, u, http.Header{})
			if err != nil {
				out.printf("WS %s: %v\n", u, err)
				return nil
			}
			_ = conn.Close()
			out.printf("WS %s: %s\n", u, resp.Status)
			return nil
		})
	}
	_ = g.Wait()

	for i := 1; i <= opts.clientErrors; i++ {
		app.Channel.Run(func() {
			panic(fmt.Errorf("client error %d", i))
		})
	}

	stats := app.Monitor.Stats()
	out.printf("recorded=%d client=%d network=%d warnings=%d pending=%d\n",
		stats.Total, stats.Client, stats.Network, stats.Warnings, app.Monitor.CurrentCount())
	return nil
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, format, args...)
}
