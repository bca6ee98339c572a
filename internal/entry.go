// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/wunjo/internal/api"
	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/index"
	"github.com/starford/wunjo/internal/mcpserver"
	"github.com/starford/wunjo/internal/render"
	"github.com/starford/wunjo/internal/sse"
	"github.com/starford/wunjo/internal/storage"
	"github.com/starford/wunjo/internal/vault"
	"github.com/starford/wunjo/internal/view"
	"github.com/starford/wunjo/internal/viewservice"
)

func (a *application) logger(fallback io.Writer) *slog.Logger {
	out := a.logOut
	if out == nil {
		out = fallback
	}
	level := a.config.App.LogLevel
	if a.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

// Run starts the HTTP service: it indexes the vault into SQLite, follows it
// with a watcher and serves the API until ctx is done or a signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc := viewservice.New(db, cfg.View.Defaults(), logger)
	apiRouter := api.NewRouter(svc, logger, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	var ready atomic.Bool

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"indexing"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Initial sync, then follow the vault. Views answer not ready until the
	// documents they need are indexed.
	g.Go(func() error {
		if err := index.Sync(db, store, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
		ready.Store(true)
		if err := index.Watch(gCtx, db, store, store.Root(), logger, broker.PublishDocumentEvent); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Streaming clients hold their connections open; close them first.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RenderView runs one view over an in-memory snapshot of the vault and
// writes it to stdout. A view without document context is still written,
// then reported as apperr.ErrNotReady.
func RenderView(ctx context.Context, req viewservice.Request, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger(os.Stderr)

	svc, err := app.snapshotService(ctx, logger)
	if err != nil {
		return err
	}

	req.Format = render.Resolve(req.Format, app.stdout)
	res := svc.Render(ctx, req)
	if err := render.Write(app.stdout, req.Format, res, render.Width(app.stdout)); err != nil {
		return fmt.Errorf("write view: %w", err)
	}
	if res.Status == view.StatusNotReady {
		return fmt.Errorf("render view: %w", apperr.ErrNotReady)
	}
	return nil
}

// ServeMCP serves the MCP tools on stdin/stdout over an in-memory snapshot
// of the vault. Logs go to stderr so they stay off the protocol stream.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger(os.Stderr)
	slog.SetDefault(logger)

	svc, err := app.snapshotService(ctx, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting", slog.String("vault_path", app.config.Vault.Path))
	return mcpserver.New(svc, logger, app.version).ServeStdio()
}

func (a *application) snapshotService(ctx context.Context, logger *slog.Logger) (*viewservice.Service, error) {
	store, err := storage.NewFS(a.config.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	snap, err := vault.Load(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("vault snapshot ready", slog.Int("documents", snap.Len()))
	return viewservice.New(snap, a.config.View.Defaults(), logger), nil
}
