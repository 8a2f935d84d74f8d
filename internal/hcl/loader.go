package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/erdos/internal/config"
	"github.com/vk/erdos/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the set of top-level blocks allowed in a graph file.
type fileRoot struct {
	Nodes []*nodeBlock `hcl:"node,block"`
}

// nodeBlock represents a `node` block from a user's graph file.
type nodeBlock struct {
	Kind      string     `hcl:"kind,label"`
	Name      string     `hcl:"name,label"`
	DependsOn []string   `hcl:"depends_on,optional"`
	Timeout   string     `hcl:"timeout,optional"`
	Cost      float64    `hcl:"cost,optional"`
	Arguments *argsBlock `hcl:"arguments,block"`
	DeclRange hcl.Range  `hcl:",def_range"`
}

// argsBlock represents the content of the 'arguments' block within a node.
type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses every given file and merges their node blocks into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range paths {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Nodes {
			spec, err := translateNode(block)
			if err != nil {
				return nil, err
			}
			model.Nodes = append(model.Nodes, spec)
		}
	}

	logger.Debug("HCL loading complete.", "nodes", len(model.Nodes))
	return model, nil
}

// translateNode converts the HCL-specific node schema into the agnostic model.
func translateNode(b *nodeBlock) (*config.NodeSpec, error) {
	source := fmt.Sprintf("%s:%d", b.DeclRange.Filename, b.DeclRange.Start.Line)

	timeout, err := config.ParseTimeout(b.Timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: node '%s': %w", source, b.Name, err)
	}

	args, err := evalArguments(b.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: node '%s': %w", source, b.Name, err)
	}

	return &config.NodeSpec{
		Kind:      b.Kind,
		Name:      b.Name,
		DependsOn: b.DependsOn,
		Timeout:   timeout,
		Cost:      b.Cost,
		Arguments: args,
		Source:    source,
	}, nil
}

// evalArguments evaluates every attribute of the arguments block into a
// single object value. A missing block yields an empty object.
func evalArguments(block *argsBlock) (cty.Value, error) {
	if block == nil || block.Body == nil {
		return cty.EmptyObjectVal, nil
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("invalid arguments block: %w", diags)
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal, nil
	}

	vals := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return cty.NilVal, fmt.Errorf("argument '%s': %w", name, diags)
		}
		vals[name] = val
	}
	return cty.ObjectVal(vals), nil
}
