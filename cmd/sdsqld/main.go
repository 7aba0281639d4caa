// Command sdsqld is the SDSQL server: it binds a TCP listener, loads
// or initializes its storage root, and serves client connections until
// killed, per spec.md §6.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sdsql/sdsql/internal/auth"
	"github.com/sdsql/sdsql/internal/engine"
	"github.com/sdsql/sdsql/internal/storage"
	"github.com/sdsql/sdsql/internal/transport"
	"github.com/sdsql/sdsql/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

func init() {
	flag.StringVar(&addr, fnAddr, getStringEnv(envAddr, "127.0.0.1:4399"), flagUsage(fnAddr, envAddr))
	flag.StringVar(&dataDir, fnDataDir, getStringEnv(envDataDir, "./sdsql-data"), flagUsage(fnDataDir, envDataDir))
	flag.StringVar(&adminPassword, fnAdminPassword, getStringEnv(envAdminPassword, auth.DefaultAdminPassword), flagUsage(fnAdminPassword, envAdminPassword))
	flag.StringVar(&logLevel, fnLogLevel, getStringEnv(envLogLevel, "info"), flagUsage(fnLogLevel, envLogLevel))
}

func main() {
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(logLevel)}))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("sdsqld exiting", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	backend, err := storage.NewFileBackend(dataDir)
	if err != nil {
		return fmt.Errorf("open storage root %s: %w", dataDir, err)
	}
	eng, err := engine.New(backend)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	users, err := auth.NewStore(adminPassword)
	if err != nil {
		return fmt.Errorf("init user store: %w", err)
	}

	ctx := server.NewContext(eng, users, log)
	met := server.NewMetrics(ctx)
	reg := prometheus.NewRegistry()
	if err := met.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	go serveMetrics(reg, log)

	ln, err := transport.Listen(addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	log.Info("sdsqld listening", "addr", ln.Addr().String(), "dataDir", dataDir)

	srv := server.New(ln, ctx, met)
	return srv.Serve()
}

// serveMetrics exposes the Prometheus registry on
// 127.0.0.1:9399/metrics. A
// failure here is logged but never brings down the SDSQL listener:
// metrics are an operational convenience, not part of the wire
// contract.
func serveMetrics(reg *prometheus.Registry, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe("127.0.0.1:9399", mux); err != nil {
		log.Warn("metrics endpoint stopped", "err", err)
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
