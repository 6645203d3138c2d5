// Package project holds the thin collection of versioned artifacts keyed by
// path. Its only interesting invariant is path uniqueness; it additionally
// adapts the collection into a configuration source so tracked
// .formatter.hcl artifacts override their on-disk copies.
package project

import (
	"fmt"
	"sort"
	"time"

	"github.com/vk/refmt/internal/ledger"
)

// DuplicatePathError reports an Add that would track a second artifact at
// an already-occupied path.
type DuplicatePathError struct {
	Path string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("path %s is already tracked", e.Path)
}

// Collection maps project-relative paths to artifacts. It is not
// synchronized; concurrent batch work operates on artifact values and folds
// results back in after the batch completes.
type Collection struct {
	dir       string
	artifacts map[string]*ledger.Artifact
}

// New creates an empty collection rooted at dir on disk. dir may be "" for
// a purely in-memory project.
func New(dir string) *Collection {
	return &Collection{
		dir:       dir,
		artifacts: make(map[string]*ledger.Artifact),
	}
}

// Dir returns the on-disk project root, or "" for in-memory projects.
func (c *Collection) Dir() string {
	return c.dir
}

// Add tracks an artifact. Detached artifacts cannot be tracked and a path
// can hold only one artifact.
func (c *Collection) Add(a *ledger.Artifact) error {
	if a.Path == "" {
		return fmt.Errorf("cannot track a detached artifact (id %s)", a.ID)
	}
	if _, exists := c.artifacts[a.Path]; exists {
		return &DuplicatePathError{Path: a.Path}
	}
	c.artifacts[a.Path] = a
	return nil
}

// Update replaces the tracked artifact with the same identity, following a
// path move if the new value relocated it.
func (c *Collection) Update(a *ledger.Artifact) error {
	for path, existing := range c.artifacts {
		if existing.ID == a.ID {
			delete(c.artifacts, path)
			break
		}
	}
	return c.Add(a)
}

// Get returns the artifact tracked at path.
func (c *Collection) Get(path string) (*ledger.Artifact, bool) {
	a, ok := c.artifacts[path]
	return a, ok
}

// Remove stops tracking the artifact at path.
func (c *Collection) Remove(path string) bool {
	if _, ok := c.artifacts[path]; !ok {
		return false
	}
	delete(c.artifacts, path)
	return true
}

// Len returns the number of tracked artifacts.
func (c *Collection) Len() int {
	return len(c.artifacts)
}

// Paths returns every tracked path, sorted.
func (c *Collection) Paths() []string {
	paths := make([]string, 0, len(c.artifacts))
	for path := range c.artifacts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// All returns every tracked artifact ordered by path.
func (c *Collection) All() []*ledger.Artifact {
	all := make([]*ledger.Artifact, 0, len(c.artifacts))
	for _, path := range c.Paths() {
		all = append(all, c.artifacts[path])
	}
	return all
}

// ModifiedSince returns the artifacts whose last update happened after the
// cutoff, ordered by path. A zero cutoff returns everything.
func (c *Collection) ModifiedSince(cutoff time.Time) []*ledger.Artifact {
	var out []*ledger.Artifact
	for _, a := range c.All() {
		if cutoff.IsZero() || a.Timestamp.After(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// WriteAll persists every modified artifact, replacing each written value
// in place. Per-artifact failures are collected, never fail-fast.
func (c *Collection) WriteAll(force bool) error {
	var errs []error
	for _, a := range c.All() {
		if !a.Updated() && !force {
			continue
		}
		written, err := a.Write(c.dir, force)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := c.Update(written); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return fmt.Errorf("writing %d artifact(s) failed: %v", len(errs), msgs)
	}
	return nil
}
