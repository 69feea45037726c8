// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/dispatch"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/state"
	"github.com/starford/ansuz/internal/vaults"
)

// services holds the components shared by every entry point.
type services struct {
	logger   *slog.Logger
	registry *vaults.Registry
	store    state.Store
	capture  *capture.Service
}

func (s *services) Close() error {
	return s.store.Close()
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logOutput == nil {
		app.logOutput = os.Stdout
	}
	return app, nil
}

// setup builds the logger, vault registry, state store, and capture service.
func (app *application) setup(notifier capture.Notifier) (*services, error) {
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("obsidian_config", cfg.Obsidian.ConfigPath),
		slog.String("state_path", cfg.State.Path),
		slog.String("default_folder", cfg.Capture.DefaultFolder),
		slog.String("log_level", cfg.App.LogLevel.String()))

	registry := vaults.NewRegistry(cfg.Obsidian.ConfigPath, cfg.Obsidian.Plugin, cfg.Obsidian.StaticVaults(), logger)
	if err := registry.Refresh(); err != nil {
		return nil, fmt.Errorf("discover vaults: %w", err)
	}

	var store state.Store = state.NewMemory()
	if cfg.State.Path != "" {
		db, err := state.Open(cfg.State.Path)
		if err != nil {
			return nil, fmt.Errorf("init state: %w", err)
		}
		store = db
	}

	opts := []capture.Option{
		capture.WithLogger(logger),
		capture.WithDispatcher(app.resolveDispatcher()),
	}
	if notifier != nil {
		opts = append(opts, capture.WithNotifier(notifier))
	}
	svc := capture.NewService(cfg.Capture.Service(), registry, store, opts...)

	return &services{
		logger:   logger,
		registry: registry,
		store:    store,
		capture:  svc,
	}, nil
}

func (app *application) resolveDispatcher() dispatch.Dispatcher {
	if app.dispatcherSet {
		return app.dispatcher
	}
	var m dispatch.Multi
	if app.config.Capture.Open {
		m = append(m, dispatch.NewOpener())
	}
	if app.config.Capture.Copy {
		m = append(m, dispatch.Clipboard{})
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// Capture runs a single capture and returns its result.
func Capture(ctx context.Context, req models.CaptureRequest, opts ...Option) (*capture.Result, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	svc, err := app.setup(nil)
	if err != nil {
		return nil, err
	}
	defer svc.Close()
	return svc.capture.Capture(ctx, req)
}

// Resolve reports where title lives in vault without capturing anything.
// An empty vault or folder falls back to the saved defaults.
func Resolve(ctx context.Context, vault, title, folder string, opts ...Option) (*capture.Resolution, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	svc, err := app.setup(nil)
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	return svc.capture.ResolveRequest(ctx, &models.CaptureRequest{Title: title, Vault: vault, Folder: folder})
}

// Vaults lists every discovered vault, capable or not.
func Vaults(_ context.Context, opts ...Option) ([]models.Vault, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	svc, err := app.setup(nil)
	if err != nil {
		return nil, err
	}
	defer svc.Close()
	return svc.registry.All(), nil
}

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func ServeMCP(_ context.Context, opts ...Option) error {
	// stdout carries the protocol, so logs go to stderr unless overridden.
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.setup(nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc.logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc.capture, svc.registry).ServeStdio()
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	broker := sse.NewBroker()
	defer broker.Close()

	svc, err := app.setup(broker)
	if err != nil {
		return err
	}
	defer svc.Close()
	logger := svc.logger

	apiRouter := api.NewRouter(svc.capture, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
		if len(svc.registry.Eligible()) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"no eligible vault"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Keep the vault list current while serving.
	g.Go(func() error {
		return svc.registry.Watch(gCtx, broker.PublishVaults)
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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

// errShutdown cancels the errgroup so the watcher exits with the server.
var errShutdown = errors.New("shutdown")
