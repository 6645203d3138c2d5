package project

import (
	"path"
	"sort"

	"github.com/vk/refmt/internal/dotconfig"
	"github.com/vk/refmt/internal/glob"
)

// Source adapts the collection into a configuration source: tracked
// artifacts supply their current content and timestamp, anything untracked
// falls back to the on-disk project root.
func (c *Collection) Source() dotconfig.Source {
	return &collectionSource{c: c, disk: dotconfig.DiskSource{Dir: c.dir}}
}

type collectionSource struct {
	c    *Collection
	disk dotconfig.DiskSource
}

func (s *collectionSource) Read(p string) (string, dotconfig.Token, error) {
	if a, ok := s.c.Get(p); ok {
		return a.Content, dotconfig.TokenAt(a.Timestamp), nil
	}
	return s.disk.Read(p)
}

// Dirs unions the directories found on disk with the ancestor directories
// of tracked paths, so purely in-memory projects still discover sub-scopes.
func (s *collectionSource) Dirs(pattern *glob.Compiled) ([]string, error) {
	seen := make(map[string]struct{})
	if s.c.dir != "" {
		onDisk, err := s.disk.Dirs(pattern)
		if err != nil {
			return nil, err
		}
		for _, d := range onDisk {
			seen[d] = struct{}{}
		}
	}
	for _, tracked := range s.c.Paths() {
		for dir := path.Dir(tracked); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if pattern.Match(dir) {
				seen[dir] = struct{}{}
			}
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs, nil
}
