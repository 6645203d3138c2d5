// Package watch flags a resolved configuration tree as stale the moment
// any of its configuration files change on disk, so hosts can trigger an
// update without polling staleness tokens.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/refmt/internal/ctxlog"
	"github.com/vk/refmt/internal/dotconfig"
)

// Watcher observes every configuration file of one tree.
type Watcher struct {
	fw     *fsnotify.Watcher
	events chan string
	done   chan struct{}
}

// New starts watching the configuration files of tree under the on-disk
// project root dir. Watching is per containing directory; events are
// filtered down to the tree's config paths.
func New(ctx context.Context, dir string, tree *dotconfig.Node) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := make(map[string]string) // absolute config path -> project-relative
	dirs := make(map[string]struct{})
	for _, node := range tree.Nodes() {
		rel := node.ConfigPath()
		full := filepath.Join(dir, filepath.FromSlash(rel))
		watched[full] = rel
		dirs[filepath.Dir(full)] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fw:     fw,
		events: make(chan string, 16),
		done:   make(chan struct{}),
	}
	go w.run(ctx, watched)
	return w, nil
}

// Events delivers the project-relative path of each configuration file that
// changed. The channel closes when the watcher stops.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context, watched map[string]string) {
	logger := ctxlog.FromContext(ctx)
	defer close(w.events)
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			rel, tracked := watched[event.Name]
			if !tracked {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Configuration file changed.", "config", rel, "op", event.Op.String())
			select {
			case w.events <- rel:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error.", "error", err)
		}
	}
}
