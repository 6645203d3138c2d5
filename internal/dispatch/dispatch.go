// Package dispatch turns a resolved configuration tree and a path into a
// ready-to-call formatter, expands a tree into its full batch of
// (path, formatter) pairs, and answers staleness questions. It is strictly
// read-only; destructive writes belong to the runner.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vk/refmt/internal/dotconfig"
	"github.com/vk/refmt/internal/glob"
	"github.com/vk/refmt/internal/pipeline"
	"github.com/vk/refmt/internal/project"
	"github.com/vk/refmt/internal/resolver"
)

// AmbiguousOwnerError reports a single-file lookup claimed by more than one
// scope. Every implicated config identity is named.
type AmbiguousOwnerError struct {
	Path    string
	Configs []string
}

func (e *AmbiguousOwnerError) Error() string {
	return fmt.Sprintf("%s is claimed by multiple configs: %s", e.Path, strings.Join(e.Configs, ", "))
}

// Conflict is one path mapped to more than one owning config identity
// during expansion.
type Conflict struct {
	Path    string
	Configs []string
}

// ConflictsError aggregates every expansion conflict; there is no silent
// pick-one behavior.
type ConflictsError struct {
	Conflicts []Conflict
}

func (e *ConflictsError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = fmt.Sprintf("%s (%s)", c.Path, strings.Join(c.Configs, ", "))
	}
	return fmt.Sprintf("%d file(s) claimed by multiple configs: %s", len(e.Conflicts), strings.Join(parts, "; "))
}

// OwningNodes walks the whole tree and collects every scope whose inputs
// patterns match the project-relative path.
func OwningNodes(tree *dotconfig.Node, path string) []*dotconfig.Node {
	var owners []*dotconfig.Node
	for _, node := range tree.Nodes() {
		if node.Matches(path) {
			owners = append(owners, node)
		}
	}
	return owners
}

// Dispatch returns the formatter for one known file. Exactly one owning
// scope is tolerated; zero owners fall back to the root scope's rules, and
// several owners are an AmbiguousOwnerError naming every config.
func Dispatch(tree *dotconfig.Node, path string) (*pipeline.Formatter, error) {
	owners := OwningNodes(tree, path)
	switch len(owners) {
	case 0:
		return pipeline.For(tree, path, pipeline.ModeText), nil
	case 1:
		return pipeline.For(owners[0], path, pipeline.ModeText), nil
	default:
		configs := make([]string, len(owners))
		for i, o := range owners {
			configs[i] = o.ConfigPath()
		}
		sort.Strings(configs)
		return nil, &AmbiguousOwnerError{Path: path, Configs: configs}
	}
}

// ExpandOptions select the candidate files and filtering for Expand.
type ExpandOptions struct {
	// Collection enumerates candidates from tracked artifacts; when nil,
	// candidates come from disk-glob listing under Dir.
	Collection *project.Collection

	// Dir is the on-disk project root for disk enumeration.
	Dir string

	// Since excludes collection artifacts not modified after the cutoff.
	Since time.Time

	// IncludeIdentity keeps files no formatter claims in the expansion.
	// The default drops them; "no formatter applies" is not batch work.
	IncludeIdentity bool
}

// Expand enumerates every (path, formatter) pair of the tree: each scope
// contributes the files its own inputs patterns list. Identity-formatter
// pairs are excluded first (unless requested); a surviving path claimed by
// more than one distinct config identity is a conflict, and the whole
// expansion fails with every conflict reported.
func Expand(tree *dotconfig.Node, opts ExpandOptions) ([]*pipeline.Formatter, error) {
	owners := make(map[string]map[string]*dotconfig.Node) // path -> config identity -> node
	var out []*pipeline.Formatter

	for _, node := range tree.Nodes() {
		seen := make(map[string]struct{})
		for _, pattern := range node.Inputs {
			files, err := candidates(pattern, opts)
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				if _, dup := seen[file]; dup {
					continue
				}
				seen[file] = struct{}{}

				// A file nothing formats is dropped before conflict
				// grouping; it cannot be fought over.
				f := pipeline.For(node, file, pipeline.ModeText)
				if f.Identity() && !opts.IncludeIdentity {
					continue
				}
				out = append(out, f)

				byConfig, ok := owners[file]
				if !ok {
					byConfig = make(map[string]*dotconfig.Node)
					owners[file] = byConfig
				}
				byConfig[node.ConfigPath()] = node
			}
		}
	}

	var conflicts []Conflict
	for file, byConfig := range owners {
		if len(byConfig) < 2 {
			continue
		}
		configs := make([]string, 0, len(byConfig))
		for cfg := range byConfig {
			configs = append(configs, cfg)
		}
		sort.Strings(configs)
		conflicts = append(conflicts, Conflict{Path: file, Configs: configs})
	}
	if len(conflicts) > 0 {
		sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Path < conflicts[j].Path })
		return nil, &ConflictsError{Conflicts: conflicts}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// UpToDate reports whether every scope of the tree still matches the token
// its source reports.
func UpToDate(tree *dotconfig.Node, source dotconfig.Source) bool {
	return tree.UpToDate(source)
}

// Update returns the existing tree when it is up to date and otherwise
// performs a full resolve from scratch through r. There is no partial
// re-resolution of stale subtrees.
func Update(ctx context.Context, tree *dotconfig.Node, r *resolver.Resolver) (*dotconfig.Node, error) {
	return r.Update(ctx, tree)
}

func candidates(pattern *glob.Compiled, opts ExpandOptions) ([]string, error) {
	if opts.Collection == nil {
		return pattern.ListFiles(opts.Dir)
	}
	var files []string
	for _, a := range opts.Collection.ModifiedSince(opts.Since) {
		if pattern.Match(a.Path) {
			files = append(files, a.Path)
		}
	}
	return files, nil
}
