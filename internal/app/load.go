package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/erdos/internal/config"
	"github.com/vk/erdos/internal/fsutil"
	"github.com/vk/erdos/internal/graph"
	"github.com/vk/erdos/internal/registry"
)

// loadGraph discovers graph files under the configured path, loads them with
// every registered loader, binds each node to its handler and builds the
// validated graph.
func (a *App) loadGraph(ctx context.Context) (*graph.Graph, error) {
	a.logger.Debug("Loading graph files...", "grid_path", a.config.GridPath)

	model := &config.Model{}
	for _, loader := range a.loaders {
		files, err := fsutil.FindFilesByExtension(a.config.GridPath, loader.Extensions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to discover graph files: %w", err)
		}
		if len(files) == 0 {
			continue
		}
		m, err := loader.Load(ctx, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		model.Merge(m)
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	nodes, err := a.handlers.BindAll(model)
	if err != nil {
		return nil, fmt.Errorf("failed to bind nodes: %w", err)
	}

	reg := registry.New()
	if err := reg.RegisterAll(ctx, nodes...); err != nil {
		return nil, fmt.Errorf("failed to register nodes: %w", err)
	}

	g, err := graph.Build(ctx, reg.Snapshot())
	if err != nil {
		if errors.Is(err, graph.ErrCycleDetected) {
			for _, cycle := range graph.FindCycles(nodes) {
				a.logger.Error("Strongly connected nodes.", "nodes", cycle)
			}
		}
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	a.logger.Info("Graph loaded successfully.", "nodes", g.Len())
	return g, nil
}
