// Command platypusd runs the platypus cache origin server: it binds a
// memcached-compatible listener, loads its routing and source
// configuration, and serves GETs against the configured sources while
// writing refreshed values back to a warm-tier memcached.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pior/platypus"
	"github.com/pior/platypus/config"
	"github.com/pior/platypus/engine"
	"github.com/pior/platypus/metrics"
	"github.com/pior/platypus/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "platypusd",
		Usage:   "read-through, refresh-ahead memcached origin server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "TCP listen address"},
			&cli.StringFlag{Name: "unix-socket", Usage: "Unix domain socket path"},
			&cli.StringFlag{Name: "target", Usage: "warm-tier memcached address"},
			&cli.Uint64Flag{Name: "cache-max-bytes", Usage: "byte budget for the refresh engine's task table"},
			&cli.StringFlag{Name: "config", Usage: "path to a YAML configuration file"},
			&cli.StringFlag{Name: "log-format", Value: "console", Usage: "log output format: console or json"},
			&cli.StringFlag{Name: "metrics-bind", Usage: "address to serve Prometheus /metrics on, empty to disable"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	cfg = cfg.ApplyEnv()

	if v := c.String("bind"); v != "" {
		cfg.Bind = v
	}
	if v := c.String("unix-socket"); v != "" {
		cfg.UnixSocket = v
		cfg.Bind = ""
	}
	if v := c.String("target"); v != "" {
		cfg.Target = v
	}
	if v := c.Uint64("cache-max-bytes"); v != 0 {
		cfg.CacheMaxBytes = int(v)
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}

	log := buildLogger(cfg)

	sources, err := config.BuildSources(cfg, log)
	if err != nil {
		return fmt.Errorf("building sources: %w", err)
	}
	router, err := config.BuildRouter(cfg, sources)
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	metricsSet := metrics.New(nil)

	var writer *platypus.Writer
	if cfg.Target != "" {
		client, err := platypus.NewWarmTierClient(platypus.WarmTierConfig{
			Target:   cfg.Target,
			MaxConns: cfg.PoolMaxConns,
		})
		if err != nil {
			return fmt.Errorf("building warm tier client: %w", err)
		}
		writer = platypus.NewWriter(client, 1024, log)
	}

	eng := engine.New(engine.Config{
		Shards:   cfg.Shards,
		MaxBytes: cfg.CacheMaxBytes,
		Writer:   writer,
		Metrics:  metricsSet,
	}, log)

	handler := platypus.NewHandler(router, eng, sources, version, log).WithMetrics(metricsSet)

	srv := server.New(server.Config{
		Bind:       cfg.Bind,
		UnixSocket: cfg.UnixSocket,
	}, handler, eng, writer, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := c.String("metrics-bind"); addr != "" {
		go serveMetrics(ctx, addr, log)
	}

	log.Info().Str("bind", cfg.Bind).Str("unix_socket", cfg.UnixSocket).Str("target", cfg.Target).Msg("starting platypusd")
	return srv.Serve(ctx)
}

func serveMetrics(ctx context.Context, addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("serving prometheus metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("metrics server failed")
	}
}

func buildLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer = os.Stderr
	if cfg.LogFormat == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
