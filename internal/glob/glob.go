// Package glob compiles scope-anchored file patterns and answers path
// membership and filesystem listing questions for the resolver and the
// dispatcher. Patterns are always joined to the owning scope's base path at
// compile time, never interpreted relative to the process working directory.
package glob

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Compiled is a pattern anchored to a scope's base directory. Matching is
// performed against slash-separated paths relative to the project root.
type Compiled struct {
	pattern string
}

// Compile joins pattern to base and validates the result. An uncompilable
// pattern is an error; the resolver surfaces it as InvalidPattern.
func Compile(pattern, base string) (*Compiled, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	anchored := path.Join(filepath.ToSlash(base), filepath.ToSlash(pattern))
	if !doublestar.ValidatePattern(anchored) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	return &Compiled{pattern: anchored}, nil
}

// Pattern returns the anchored pattern text.
func (c *Compiled) Pattern() string {
	return c.pattern
}

// Match reports whether the project-relative path is a member of the pattern.
func (c *Compiled) Match(p string) bool {
	ok, err := doublestar.Match(c.pattern, path.Clean(filepath.ToSlash(p)))
	return err == nil && ok
}

// ListFiles enumerates the regular files under dir that the pattern matches,
// returned as sorted project-relative paths. A missing dir yields an empty
// list rather than an error.
func (c *Compiled) ListFiles(dir string) ([]string, error) {
	return c.list(dir, false)
}

// ListDirs enumerates the directories under dir that the pattern matches,
// returned as sorted project-relative paths.
func (c *Compiled) ListDirs(dir string) ([]string, error) {
	return c.list(dir, true)
}

func (c *Compiled) list(dir string, wantDir bool) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, c.pattern)
	if err != nil {
		return nil, fmt.Errorf("listing pattern %q: %w", c.pattern, err)
	}
	var out []string
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil {
			continue
		}
		if info.IsDir() == wantDir {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}
