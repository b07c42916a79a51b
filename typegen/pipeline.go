// Package typegen turns schema descriptors into a typed declaration module.
//
// The pipeline is Load -> ResolveNames -> Order -> render -> Emit. Every
// stage is a pure function of its inputs, so concurrent Generate calls are
// independent and identical input yields byte-identical output.
package typegen

import (
	"github.com/teranos/schemats/errors"
	"github.com/teranos/schemats/logger"
	"github.com/teranos/schemats/schema"
)

// Options configures a generation run
type Options struct {
	// Exclude lists models not walked as roots (see LoadOptions)
	Exclude []string
	// Renames maps qualified "module.Name" to an explicit emitted name
	Renames map[string]string
	// Source is an optional label written into the provenance header
	Source string
}

// Option mutates Options
type Option func(*Options)

// WithExclude skips the named models as walk roots
func WithExclude(names ...string) Option {
	return func(o *Options) { o.Exclude = append(o.Exclude, names...) }
}

// WithRenames sets explicit emitted names
func WithRenames(renames map[string]string) Option {
	return func(o *Options) {
		if o.Renames == nil {
			o.Renames = make(map[string]string, len(renames))
		}
		for k, v := range renames {
			o.Renames[k] = v
		}
	}
}

// WithSource labels the output header
func WithSource(source string) Option {
	return func(o *Options) { o.Source = source }
}

// Generate renders roots into module text. On error nothing is returned.
func Generate(roots []schema.Root, gen Generator, opts ...Option) (string, error) {
	result, err := Run(roots, gen, opts...)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// Run is Generate with the intermediate results exposed.
func Run(roots []schema.Root, gen Generator, opts ...Option) (*Result, error) {
	if gen == nil {
		return nil, errors.AssertionFailedf("typegen: nil generator")
	}
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	graph, err := Load(roots, LoadOptions{Exclude: o.Exclude})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load schema graph")
	}
	logger.Debugw("Loaded schema graph",
		"roots", len(roots),
		"nodes", len(graph.Nodes),
		"edges", len(graph.Edges))

	if unused := UnusedRenames(graph, o.Renames); len(unused) > 0 {
		logger.Warnw("Rename directives match no emitted type", "renames", unused)
	}

	names, err := ResolveNames(graph, o.Renames, gen.TypeName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve names")
	}

	order := Order(graph)
	result := &Result{
		Language:     gen.Language(),
		Names:        names,
		Declarations: make([]Declaration, 0, len(graph.Nodes)),
	}

	records := make([]string, 0, len(order.Records))
	for _, node := range order.Records {
		text, err := gen.RenderRecord(node, names)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render %s", node.ID)
		}
		records = append(records, text)
		result.Declarations = append(result.Declarations, Declaration{Node: node, Name: names.Of(node.ID), Text: text})
	}

	enums := make([]string, 0, len(order.Enums))
	for _, node := range order.Enums {
		text, err := gen.RenderEnum(node, names)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render %s", node.ID)
		}
		enums = append(enums, text)
		result.Declarations = append(result.Declarations, Declaration{Node: node, Name: names.Of(node.ID), Text: text})
	}

	result.Text = Emit(gen.Header(o.Source), records, enums)
	logger.Debugw("Generated module",
		"language", result.Language,
		"records", len(records),
		"enums", len(enums),
		"bytes", len(result.Text))

	return result, nil
}
