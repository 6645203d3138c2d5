// Package newlines ships the "newlines" plugin: it collapses runs of blank
// lines down to one and guarantees exactly one trailing newline.
package newlines

import (
	"strings"

	"github.com/vk/refmt/internal/plugin"
)

// Module implements the plugin.Module interface for this package.
type Module struct{}

// Register registers the plugin with the engine.
func (m *Module) Register(r *plugin.Registry) {
	r.Register("newlines", &Plugin{})
}

// Plugin is the newline normalizer. It claims text-like extensions.
type Plugin struct{}

func (p *Plugin) Features(opts plugin.Opts) plugin.Features {
	return plugin.Features{Extensions: []string{".md", ".txt"}}
}

func (p *Plugin) Format(text string, opts plugin.Opts) (string, error) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	result := strings.Join(out, "\n")
	return strings.TrimRight(result, "\n") + "\n", nil
}
