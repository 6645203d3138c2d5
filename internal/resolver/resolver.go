// Package resolver builds the immutable configuration tree: it reads a
// scope's option set through a configuration source, validates and
// normalizes it, merges imported rule sets, loads plugin capabilities, and
// recursively resolves sub-scopes. Resolution has no side effects beyond
// reading configuration text; every pass produces a brand-new tree.
package resolver

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/vk/refmt/internal/ctxlog"
	"github.com/vk/refmt/internal/dotconfig"
	"github.com/vk/refmt/internal/glob"
	"github.com/vk/refmt/internal/plugin"
)

// Options tune a resolution pass.
type Options struct {
	// ConfigFile is the configuration basename per scope. Defaults to
	// dotconfig.DefaultFile.
	ConfigFile string

	// DepsDir is where import_deps references are located, as
	// <DepsDir>/<dep>/<ConfigFile>. Defaults to "deps".
	DepsDir string

	// Registry supplies plugin capabilities. A nil registry resolves
	// plugin-free configurations only.
	Registry *plugin.Registry

	// Base is the language formatter of last resort, bound into every node.
	// Defaults to plugin.NewBase().
	Base *plugin.Base

	// IgnoreUnknownDeps turns unresolvable import_deps references into
	// no-ops instead of DependencyNotFoundError.
	IgnoreUnknownDeps bool

	// IgnoreMissingSubScopes tolerates subdirectory patterns matching
	// nothing and candidate directories without a configuration file.
	IgnoreMissingSubScopes bool
}

// Resolver evaluates configuration scopes against a single source.
type Resolver struct {
	source dotconfig.Source
	opts   Options
}

// New creates a resolver over source.
func New(source dotconfig.Source, opts Options) *Resolver {
	if opts.ConfigFile == "" {
		opts.ConfigFile = dotconfig.DefaultFile
	}
	if opts.DepsDir == "" {
		opts.DepsDir = "deps"
	}
	if opts.Base == nil {
		opts.Base = plugin.NewBase()
	}
	return &Resolver{source: source, opts: opts}
}

// Read resolves the tree rooted at the project's configuration file.
func (r *Resolver) Read(ctx context.Context) (*dotconfig.Node, error) {
	return r.read(ctx, "", true)
}

// Create resolves a tree from an already-in-memory option set, skipping
// file discovery for the root scope. Sub-scopes still resolve through the
// source.
func (r *Resolver) Create(ctx context.Context, raw *dotconfig.Raw) (*dotconfig.Node, error) {
	return r.eval(ctx, "", raw, dotconfig.TokenAt(time.Now()), true)
}

// Update returns tree unchanged when every scope is still up to date, and
// otherwise re-resolves from scratch. Partial re-resolution of a stale
// subtree is deliberately unsupported.
func (r *Resolver) Update(ctx context.Context, tree *dotconfig.Node) (*dotconfig.Node, error) {
	if tree.UpToDate(r.source) {
		return tree, nil
	}
	ctxlog.FromContext(ctx).Debug("Configuration tree is stale, re-resolving.", "root", tree.ConfigPath())
	return r.Read(ctx)
}

func (r *Resolver) read(ctx context.Context, base string, root bool) (*dotconfig.Node, error) {
	cfgPath := path.Join(base, r.opts.ConfigFile)
	text, token, err := r.source.Read(cfgPath)
	if err != nil {
		return nil, err
	}
	raw, err := dotconfig.Parse(cfgPath, []byte(text))
	if err != nil {
		return nil, err
	}
	return r.eval(ctx, base, raw, token, root)
}

func (r *Resolver) eval(ctx context.Context, base string, raw *dotconfig.Raw, token dotconfig.Token, root bool) (*dotconfig.Node, error) {
	logger := ctxlog.FromContext(ctx)
	cfgPath := path.Join(base, r.opts.ConfigFile)

	if !root && len(raw.Inputs) == 0 && len(raw.Subdirectories) == 0 {
		return nil, &InvalidScopeError{Path: cfgPath}
	}

	locals, err := r.mergeImports(ctx, cfgPath, raw)
	if err != nil {
		return nil, err
	}

	node := &dotconfig.Node{
		Root:        base,
		File:        r.opts.ConfigFile,
		Token:       token,
		Locals:      locals,
		PluginNames: raw.Plugins,
		Options:     raw.Options,
		PluginOpts:  raw.PluginOpts,
		Sigils:      make(map[string][]plugin.Plugin),
		Base:        r.opts.Base,
	}

	for _, p := range raw.Inputs {
		compiled, err := glob.Compile(p, base)
		if err != nil {
			return nil, &InvalidPatternError{Path: cfgPath, Pattern: p, Err: err}
		}
		node.Inputs = append(node.Inputs, compiled)
	}
	for _, p := range raw.Subdirectories {
		compiled, err := glob.Compile(p, base)
		if err != nil {
			return nil, &InvalidPatternError{Path: cfgPath, Pattern: p, Err: err}
		}
		node.Subdirectories = append(node.Subdirectories, compiled)
	}

	if err := r.loadPlugins(node); err != nil {
		return nil, err
	}

	if err := r.resolveSubs(ctx, node); err != nil {
		return nil, err
	}

	logger.Debug("Resolved configuration scope.",
		"config", cfgPath, "plugins", len(node.Plugins), "subs", len(node.Subs))
	return node, nil
}

// mergeImports resolves import_deps references and merges each exported
// locals_without_parens set into the scope's own, deduplicated.
func (r *Resolver) mergeImports(ctx context.Context, cfgPath string, raw *dotconfig.Raw) ([]plugin.Local, error) {
	seen := make(map[plugin.Local]struct{}, len(raw.Locals))
	locals := make([]plugin.Local, 0, len(raw.Locals))
	for _, l := range raw.Locals {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		locals = append(locals, l)
	}

	for _, dep := range raw.ImportDeps {
		depPath := path.Join(r.opts.DepsDir, dep, r.opts.ConfigFile)
		text, _, err := r.source.Read(depPath)
		if err != nil {
			if errors.Is(err, dotconfig.ErrNotFound) {
				if r.opts.IgnoreUnknownDeps {
					ctxlog.FromContext(ctx).Debug("Ignoring unknown dependency.", "dep", dep)
					continue
				}
				return nil, &DependencyNotFoundError{Dep: dep, Path: depPath}
			}
			return nil, err
		}
		depRaw, err := dotconfig.Parse(depPath, []byte(text))
		if err != nil {
			return nil, err
		}
		if depRaw.Export == nil {
			continue
		}
		for _, l := range depRaw.Export.Locals {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			locals = append(locals, l)
		}
	}
	return locals, nil
}

// loadPlugins resolves declared plugin identifiers into capability
// references and records this scope's own sigil claims. A plugin that
// cannot be loaded, or loads without the features capability, is fatal.
func (r *Resolver) loadPlugins(node *dotconfig.Node) error {
	opts := node.FormatOpts("")
	for _, name := range node.PluginNames {
		var raw any
		var ok bool
		if r.opts.Registry != nil {
			raw, ok = r.opts.Registry.Lookup(name)
		}
		if !ok {
			return &PluginNotFoundError{Plugin: name}
		}
		p, ok := raw.(plugin.Plugin)
		if !ok {
			return &UndefinedCapabilityError{Plugin: name}
		}
		node.Plugins = append(node.Plugins, p)
		for _, sigil := range p.Features(opts).Sigils {
			node.Sigils[sigil] = appendPlugin(node.Sigils[sigil], p)
		}
	}
	return nil
}

// resolveSubs expands subdirectory patterns into concrete directories and
// resolves a child scope for each, then aggregates every sigil association
// of the subtree into this node's map.
func (r *Resolver) resolveSubs(ctx context.Context, node *dotconfig.Node) error {
	cfgPath := node.ConfigPath()
	seen := make(map[string]struct{})
	var missing []string

	for _, pattern := range node.Subdirectories {
		dirs, err := r.source.Dirs(pattern)
		if err != nil {
			return err
		}
		if len(dirs) == 0 && !r.opts.IgnoreMissingSubScopes {
			return &NoSubScopesError{Path: cfgPath, Pattern: pattern.Pattern()}
		}
		for _, dir := range dirs {
			if _, dup := seen[dir]; dup {
				continue
			}
			seen[dir] = struct{}{}

			child, err := r.read(ctx, dir, false)
			if err != nil {
				if errors.Is(err, dotconfig.ErrNotFound) {
					missing = append(missing, dir)
					continue
				}
				return err
			}
			node.Subs = append(node.Subs, child)
		}
	}

	if len(missing) > 0 && !r.opts.IgnoreMissingSubScopes {
		return &MissingSubScopesError{Path: cfgPath, Dirs: missing}
	}

	for _, sub := range node.Subs {
		for sigil, plugins := range sub.Sigils {
			for _, p := range plugins {
				node.Sigils[sigil] = appendPlugin(node.Sigils[sigil], p)
			}
		}
	}
	return nil
}

func appendPlugin(list []plugin.Plugin, p plugin.Plugin) []plugin.Plugin {
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	return append(list, p)
}
