package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/compoundjoy/server/internal/app"
	"github.com/compoundjoy/server/internal/config"
	"github.com/compoundjoy/server/internal/logger"
	"github.com/compoundjoy/server/internal/routes"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	flush := logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppEnv)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		flush()
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("failed to listen", "error", err, "addr", server.Addr)
		return
	}

	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "version", version, "url", "http://localhost:"+cfg.Port)

	if err := serve(ctx, server, ln, shutdownTimeout); err != nil {
		slog.Error("server failed", "error", err)
		return
	}

	slog.Info("server stopped")
}

// serve runs srv until ctx is cancelled and returns only after in-flight
// requests have drained or timeout has passed, so the deferred app.Close
// never runs under an active transaction.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	err := srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
