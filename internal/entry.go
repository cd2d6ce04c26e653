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

	"github.com/starford/runespec/internal/api"
	"github.com/starford/runespec/internal/catalog"
	"github.com/starford/runespec/internal/mcpserver"
	"github.com/starford/runespec/internal/pipeline"
	"github.com/starford/runespec/internal/sse"
	"github.com/starford/runespec/internal/storage"
	"github.com/starford/runespec/internal/toolchain"
)

// newLogger builds the structured JSON logger and installs it as default.
func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// newStores opens the spec and output storage roots, creating the
// directories when absent.
func newStores(cfg *Config) (*storage.FS, *storage.FS, error) {
	if err := os.MkdirAll(cfg.Specs.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create specs dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}
	specs, err := storage.NewFS(cfg.Specs.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init spec storage: %w", err)
	}
	output, err := storage.NewFS(cfg.Output.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init output storage: %w", err)
	}
	return specs, output, nil
}

// newTools resolves the cue and quint binaries. A missing binary downgrades
// to a no-op tool: the build still runs and skips the artifacts that need it.
func newTools(cfg *Config, logger *slog.Logger) (toolchain.SchemaTool, toolchain.ModelTool) {
	var schema toolchain.SchemaTool
	var model toolchain.ModelTool

	if t, err := toolchain.NewExecSchemaTool(cfg.Tools.Cue); err != nil {
		logger.Warn("cue binary not found, cue validation and JSON export disabled",
			slog.String("bin", cfg.Tools.Cue))
		schema = toolchain.NoopSchemaTool{}
	} else {
		schema = t
	}

	if t, err := toolchain.NewExecModelTool(cfg.Tools.Quint); err != nil {
		logger.Warn("quint binary not found, typechecking and trace generation disabled",
			slog.String("bin", cfg.Tools.Quint))
		model = toolchain.NoopModelTool{}
	} else {
		model = t
	}

	return schema, model
}

// RunBuild performs a one-shot batch build: process every spec, write the
// manifest, and sync the catalog.
func RunBuild(ctx context.Context, cfg *Config) (pipeline.Report, error) {
	logger := newLogger(cfg)

	specs, output, err := newStores(cfg)
	if err != nil {
		return pipeline.Report{}, err
	}
	schema, model := newTools(cfg, logger)

	p := pipeline.New(specs, output, schema, model, logger,
		pipeline.WithWorkers(cfg.Build.Workers))

	report, err := p.Run(ctx)
	if err != nil {
		return report, fmt.Errorf("build: %w", err)
	}

	db, err := catalog.Open(cfg.SQLite.Path)
	if err != nil {
		return report, fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()
	if err := catalog.Sync(db, specs, logger); err != nil {
		logger.Warn("catalog sync failed", slog.String("error", err.Error()))
	}

	logger.Info("build finished",
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
		slog.Int("warnings", report.Warnings))
	return report, nil
}

// RunMCP starts the MCP server on stdin/stdout.
func RunMCP(_ context.Context, cfg *Config) error {
	logger := newLogger(cfg)

	specs, _, err := newStores(cfg)
	if err != nil {
		return err
	}
	db, err := catalog.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()

	if err := catalog.Sync(db, specs, logger); err != nil {
		logger.Warn("catalog sync failed", slog.String("error", err.Error()))
	}

	srv := mcpserver.New(specs, db)
	return srv.ServeStdio()
}

// RunSearch performs a catalog search and returns the hits.
func RunSearch(_ context.Context, cfg *Config, query string, limit int) ([]catalog.SearchResult, error) {
	logger := newLogger(cfg)

	specs, _, err := newStores(cfg)
	if err != nil {
		return nil, err
	}
	db, err := catalog.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()

	if err := catalog.Sync(db, specs, logger); err != nil {
		logger.Warn("catalog sync failed", slog.String("error", err.Error()))
	}

	return db.Search(query, limit)
}

// Run starts the long-running application: initial build, spec watcher with
// incremental rebuilds, SSE broker, and (in serve mode) the REST API.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("specs_path", cfg.Specs.Path),
		slog.String("output_path", cfg.Output.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	specs, output, err := newStores(cfg)
	if err != nil {
		return err
	}

	db, err := catalog.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()

	if err := catalog.Sync(db, specs, logger); err != nil {
		logger.Warn("initial catalog sync failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	schema, model := newTools(cfg, logger)
	p := pipeline.New(specs, output, schema, model, logger,
		pipeline.WithWorkers(cfg.Build.Workers),
		pipeline.WithNotifier(func(event, path string) {
			broker.Publish(sse.Event{Type: event, Data: map[string]string{"path": path}})
		}))

	// Build API service and router.
	svc := api.NewService(specs, output, db)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Initial full build.
	report, err := p.Run(ctx)
	if err != nil {
		logger.Warn("initial build failed", slog.String("error", err.Error()))
	} else {
		svc.SetReport(&report)
		logger.Info("initial build finished",
			slog.Int("processed", report.Processed),
			slog.Int("skipped", report.Skipped),
			slog.Int("warnings", report.Warnings))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Spec watcher: keep the catalog fresh and rebuild changed specs.
	g.Go(func() error {
		return catalog.Watch(gCtx, db, specs, cfg.Specs.Path, logger, func(kind, path string) {
			broker.PublishSpecEvent(kind, path)
			if kind == "deleted" {
				return
			}
			fileReport := p.Process(gCtx, path)
			if fileReport.Failed() {
				logger.Warn("rebuild failed", slog.String("path", path))
			}
		})
	})

	if app.serveHTTP {
		// Build chi router.
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
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		// Mount API routes under /api.
		r.Mount("/api", apiRouter)

		httpServer := &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		// Start HTTP server.
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

			select {
			case sig := <-quit:
				logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			case <-gCtx.Done():
				logger.Info("Context cancelled, initiating shutdown")
			}

			logger.Info("Shutting down server...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}

			cancel()
			return nil
		})
	} else {
		// Watch mode: block on signals only.
		g.Go(func() error {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-quit:
				logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			case <-gCtx.Done():
			}
			cancel()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
