// Package config defines the format-agnostic model of a graph file, along
// with the Loader interface implemented by each supported file format.
//
// A config.Model is a flat list of node specifications. Concrete loaders,
// such as internal/hcl and internal/yaml, translate their own syntax into
// this model; the handlers package then binds each specification to a
// computation.
package config
