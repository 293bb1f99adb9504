package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiimpl "github.com/halcyonlab/notetracker/external/api"
	configloader "github.com/halcyonlab/notetracker/external/config"
	dispatchimpl "github.com/halcyonlab/notetracker/external/dispatch"
	recordingimpl "github.com/halcyonlab/notetracker/external/recording"
	storeimpl "github.com/halcyonlab/notetracker/external/store"
	summaryimpl "github.com/halcyonlab/notetracker/external/summary"
	"github.com/halcyonlab/notetracker/internal/config"
	"github.com/halcyonlab/notetracker/internal/session"
	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "store_driver", cfg.StoreDriver)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http server")
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	storeimpl.RegisterDI(injector)
	dispatchimpl.RegisterDI(injector)
	summaryimpl.RegisterDI(injector)
	recordingimpl.RegisterDI(injector)
	session.RegisterDI(injector)
	apiimpl.RegisterDI(injector)

	return injector
}

func runServer(cfg *config.Config, injector do.Injector) {
	handler, err := do.Invoke[http.Handler](injector)
	if err != nil {
		slog.Error("failed to resolve http handler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}

	if st, err := do.Invoke[store.Store](injector); err == nil {
		if err := st.Close(); err != nil {
			slog.Error("store close failed", "error", err)
		}
	}
}
