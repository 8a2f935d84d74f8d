// Package yaml provides the YAML implementation of the config.Loader
// interface:
//
//	nodes:
//	  - name: fetch
//	    kind: http_request
//	    depends_on: [setup]
//	    timeout: 5s
//	    arguments:
//	      url: https://example.com
//
// Unknown keys are rejected.
package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/vk/erdos/internal/config"
	"github.com/vk/erdos/internal/ctxlog"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Nodes []nodeEntry `yaml:"nodes"`
}

type nodeEntry struct {
	Name      string         `yaml:"name"`
	Kind      string         `yaml:"kind"`
	DependsOn []string       `yaml:"depends_on"`
	Timeout   string         `yaml:"timeout"`
	Cost      float64        `yaml:"cost"`
	Arguments map[string]any `yaml:"arguments"`
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load parses every given file and merges their nodes into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	model := &config.Model{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
		}
		fileModel, err := parse(path, data)
		if err != nil {
			return nil, err
		}
		model.Merge(fileModel)
	}

	logger.Debug("YAML loading complete.", "nodes", len(model.Nodes))
	return model, nil
}

func parse(path string, data []byte) (*config.Model, error) {
	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &config.Model{}, nil
		}
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	lines := entryLines(&doc)

	model := &config.Model{Nodes: make([]*config.NodeSpec, 0, len(root.Nodes))}
	for i, entry := range root.Nodes {
		source := path
		if i < len(lines) {
			source = fmt.Sprintf("%s:%d", path, lines[i])
		}
		spec, err := translateNode(entry, source)
		if err != nil {
			return nil, err
		}
		model.Nodes = append(model.Nodes, spec)
	}
	return model, nil
}

func translateNode(e nodeEntry, source string) (*config.NodeSpec, error) {
	timeout, err := config.ParseTimeout(e.Timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: node '%s': %w", source, e.Name, err)
	}

	args := cty.EmptyObjectVal
	if len(e.Arguments) > 0 {
		args, err = config.ToCtyValue(e.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: node '%s': invalid arguments: %w", source, e.Name, err)
		}
	}

	return &config.NodeSpec{
		Kind:      e.Kind,
		Name:      e.Name,
		DependsOn: e.DependsOn,
		Timeout:   timeout,
		Cost:      e.Cost,
		Arguments: args,
		Source:    source,
	}, nil
}

// entryLines returns the line number of each item in the top-level `nodes`
// sequence.
func entryLines(doc *yaml.Node) []int {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "nodes" {
			continue
		}
		seq := root.Content[i+1]
		lines := make([]int, len(seq.Content))
		for j, item := range seq.Content {
			lines[j] = item.Line
		}
		return lines
	}
	return nil
}
