package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific graph file loader.
type Loader interface {
	// Load reads the given files and translates them into a Model.
	Load(ctx context.Context, paths ...string) (*Model, error)
	// Extensions lists the file extensions the loader understands.
	Extensions() []string
}

// Model is the unified representation of every node defined across all
// loaded files.
type Model struct {
	Nodes []*NodeSpec
}

// NodeSpec is the format-agnostic representation of one node definition.
type NodeSpec struct {
	// Kind names the handler that performs the node's work.
	Kind string
	// Name is the node's identity within the graph.
	Name      string
	DependsOn []string
	// Timeout bounds a single execution. Zero means no node-level limit.
	Timeout time.Duration
	// Cost is an estimated weight used for critical path analysis.
	Cost float64
	// Arguments holds the node's static arguments as an object value.
	Arguments cty.Value
	// Source is the location the node was defined at, for diagnostics.
	Source string
}

// Merge appends the nodes of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Nodes = append(m.Nodes, other.Nodes...)
}

// Validate checks the model for problems that can be reported against file
// locations, before any graph is built.
func (m *Model) Validate() error {
	var errs []error
	seen := make(map[string]*NodeSpec, len(m.Nodes))
	for _, n := range m.Nodes {
		switch {
		case n.Name == "":
			errs = append(errs, fmt.Errorf("%s: node has no name", n.Source))
			continue
		case n.Kind == "":
			errs = append(errs, fmt.Errorf("%s: node '%s' has no kind", n.Source, n.Name))
		case n.Timeout < 0:
			errs = append(errs, fmt.Errorf("%s: node '%s' has a negative timeout", n.Source, n.Name))
		}
		if prev, dup := seen[n.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: node '%s' is already defined at %s", n.Source, n.Name, prev.Source))
			continue
		}
		seen[n.Name] = n
	}
	return errors.Join(errs...)
}

// ParseTimeout parses an optional duration string. An empty string yields zero.
func ParseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", s)
	}
	return d, nil
}
