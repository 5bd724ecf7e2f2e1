package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelsall/accolade/internal/adapters/clubdb"
	"github.com/kelsall/accolade/internal/adapters/grantdb"
	"github.com/kelsall/accolade/internal/adapters/http/api"
	"github.com/kelsall/accolade/internal/adapters/http/site"
	"github.com/kelsall/accolade/internal/adapters/http/swagger"
	"github.com/kelsall/accolade/internal/app"
	"github.com/kelsall/accolade/internal/config"
	"github.com/kelsall/accolade/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	// Sweeps run synchronously behind POST /sweep, so the write timeout
	// has to cover a full pass over the active membership.
	writeTimeout = 5 * time.Minute
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithSweepWorkerCount(cfg.SweepWorkerCount),
		app.WithSweepQueueSize(cfg.SweepQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithActiveWindowDays(cfg.ActiveWindowDays),
	}

	// Durable adapters are optional; without paths the service falls back
	// to in-memory fixtures, which is what dev mode wants.
	if cfg.ClubDBPath != "" {
		reader, err := clubdb.Open(cfg.ClubDBPath)
		if err != nil {
			os.Stderr.WriteString("failed to open club database: " + err.Error() + "\n")
			return
		}
		defer reader.Close()
		opts = append(opts, app.WithReader(reader))
	}
	if cfg.GrantDBPath != "" {
		store, err := grantdb.Open(cfg.GrantDBPath)
		if err != nil {
			os.Stderr.WriteString("failed to open grant database: " + err.Error() + "\n")
			return
		}
		defer store.Close()
		opts = append(opts, app.WithLedger(store))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Embedded dashboard at / and API docs under /api-docs.
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, cfg.SweepToken)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
