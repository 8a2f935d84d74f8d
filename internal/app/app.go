package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vk/erdos/internal/config"
	"github.com/vk/erdos/internal/executor"
	"github.com/vk/erdos/internal/handlers"
	"github.com/vk/erdos/internal/hcl"
	"github.com/vk/erdos/internal/metrics"
	"github.com/vk/erdos/internal/session"
	"github.com/vk/erdos/internal/yaml"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	handlers *handlers.Handlers
	loaders  []config.Loader

	promRegistry *prometheus.Registry
	coordinator  *session.Coordinator
	httpServer   *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, handler table
// and metrics registry. When no modules are given the core modules are used.
func NewApp(outW io.Writer, cfg *Config, modules ...handlers.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	policy, err := executor.ParsePolicy(cfg.FailPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	h := handlers.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(h)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", h.Kinds())

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(promRegistry)

	coordinator := session.NewCoordinator(
		session.WithMetrics(collector),
		session.WithExecutorOptions(
			executor.WithPolicy(policy),
			executor.WithDefaultTimeout(cfg.NodeTimeout),
			executor.WithObserver(func(ev executor.Event) {
				logger.Debug("Node status changed.", "nodeID", ev.NodeID, "status", ev.Status.String())
			}),
		),
	)

	return &App{
		outW:         outW,
		logger:       logger,
		config:       cfg,
		handlers:     h,
		loaders:      []config.Loader{hcl.NewLoader(), yaml.NewLoader()},
		promRegistry: promRegistry,
		coordinator:  coordinator,
	}, nil
}

// Handlers returns the application's handler table. This is primarily for testing.
func (a *App) Handlers() *handlers.Handlers {
	return a.handlers
}
