package dotconfig

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vk/refmt/internal/glob"
)

// Token is the opaque staleness marker attached to every resolved scope. A
// resolved tree is up to date only while every node's stored token equals
// the token its source currently reports.
type Token int64

// TokenAt derives a token from a timestamp.
func TokenAt(t time.Time) Token {
	return Token(t.UnixNano())
}

// Source supplies raw configuration text and subdirectory candidates for
// the resolver. Implementations read from disk or from a tracked artifact
// collection; a missing path must surface ErrNotFound.
type Source interface {
	// Read returns the configuration text for a project-relative path
	// together with its current staleness token.
	Read(path string) (string, Token, error)

	// Dirs enumerates the concrete directories a subdirectory pattern
	// matches, as sorted project-relative paths.
	Dirs(pattern *glob.Compiled) ([]string, error)
}

// DiskSource reads configuration straight from the filesystem under Dir.
type DiskSource struct {
	Dir string
}

func (s DiskSource) Read(path string) (string, Token, error) {
	full := filepath.Join(s.dir(), filepath.FromSlash(path))
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, &NotFoundError{Path: path}
		}
		return "", 0, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", 0, err
	}
	return string(data), TokenAt(info.ModTime()), nil
}

func (s DiskSource) Dirs(pattern *glob.Compiled) ([]string, error) {
	return pattern.ListDirs(s.dir())
}

func (s DiskSource) dir() string {
	if s.Dir == "" {
		return "."
	}
	return s.Dir
}
