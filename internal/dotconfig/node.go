package dotconfig

import (
	"path"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/refmt/internal/glob"
	"github.com/vk/refmt/internal/plugin"
)

// Node is one resolved configuration scope: the formatting rules that apply
// to a directory plus its resolved child scopes. Nodes are immutable once a
// resolution pass returns them; a stale node is replaced wholesale, never
// patched.
type Node struct {
	// Root is the scope's base path relative to the project root. The
	// project root scope uses "".
	Root string

	// File is the basename of the configuration file this scope came from.
	File string

	// Token is the staleness marker captured when the scope was read.
	Token Token

	Inputs         []*glob.Compiled
	Subdirectories []*glob.Compiled

	// Locals holds the merged locals_without_parens set, including entries
	// contributed by import_deps.
	Locals []plugin.Local

	// PluginNames preserves the declared plugin order; Plugins holds the
	// capability references resolved from the registry in the same order.
	PluginNames []string
	Plugins     []plugin.Plugin

	// Sigils maps each sigil marker to the plugins claiming it, in declared
	// order, aggregated across this scope's whole subtree.
	Sigils map[string][]plugin.Plugin

	// Options holds the recognized boolean/list-valued formatting options.
	Options map[string]cty.Value

	// PluginOpts carries everything the core schema does not recognize,
	// passed through verbatim to plugin calls.
	PluginOpts map[string]cty.Value

	// Base is the language formatter of last resort, bound at resolution
	// time so dispatch never consults a registry per file.
	Base *plugin.Base

	Subs []*Node
}

// ConfigPath is the scope's identity: the project-relative path of its
// configuration file. Conflict and ambiguity errors report these.
func (n *Node) ConfigPath() string {
	return path.Join(n.Root, n.File)
}

// Nodes returns the scope and every descendant in depth-first order.
func (n *Node) Nodes() []*Node {
	all := []*Node{n}
	for _, sub := range n.Subs {
		all = append(all, sub.Nodes()...)
	}
	return all
}

// Matches reports whether any of the scope's inputs patterns claim the
// project-relative path.
func (n *Node) Matches(p string) bool {
	for _, in := range n.Inputs {
		if in.Match(p) {
			return true
		}
	}
	return false
}

// UpToDate folds over the whole tree comparing each scope's stored token
// against the token its source currently reports. Any mismatch, including a
// configuration file that disappeared, makes the whole tree stale.
func (n *Node) UpToDate(source Source) bool {
	for _, node := range n.Nodes() {
		_, token, err := source.Read(node.ConfigPath())
		if err != nil || token != node.Token {
			return false
		}
	}
	return true
}

// FormatOpts builds the merged option set passed to plugin and base
// formatter calls for one file of this scope.
func (n *Node) FormatOpts(file string) plugin.Opts {
	opts := plugin.Opts{
		"locals_without_parens": n.Locals,
	}
	if file != "" {
		opts["file"] = file
		opts["extension"] = path.Ext(file)
	}
	for name, val := range n.Options {
		opts[name] = val
	}
	if len(n.PluginOpts) > 0 {
		opts["plugin_opts"] = n.PluginOpts
	}
	return opts
}
